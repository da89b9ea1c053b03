package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"notchpanel/internal/core/model"
)

const perfSmoothing = 0.3

// Perf samples CPU and memory utilisation and smooths them with an
// exponential moving average.
type Perf struct {
	cpuPercent    func(ctx context.Context) (float64, error)
	memoryPercent func(ctx context.Context) (float64, error)

	mu      sync.Mutex
	smooth  model.PerfSample
	started bool
}

// NewPerf samples through gopsutil.
func NewPerf() *Perf {
	return &Perf{
		cpuPercent: func(ctx context.Context) (float64, error) {
			values, err := cpu.PercentWithContext(ctx, 0, false)
			if err != nil {
				return 0, err
			}
			if len(values) == 0 {
				return 0, ErrUnavailable
			}
			return values[0], nil
		},
		memoryPercent: func(ctx context.Context) (float64, error) {
			vm, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return 0, err
			}
			return vm.UsedPercent, nil
		},
	}
}

// Sample reads both counters and returns the smoothed values. The first
// sample seeds the average.
func (perf *Perf) Sample(ctx context.Context) (model.PerfSample, error) {
	cpuValue, err := perf.cpuPercent(ctx)
	if err != nil {
		return model.PerfSample{}, fmt.Errorf("sample cpu: %w", err)
	}
	memoryValue, err := perf.memoryPercent(ctx)
	if err != nil {
		return model.PerfSample{}, fmt.Errorf("sample memory: %w", err)
	}

	perf.mu.Lock()
	defer perf.mu.Unlock()
	if !perf.started {
		perf.smooth = model.PerfSample{CPUPercent: cpuValue, MemoryPercent: memoryValue}
		perf.started = true
		return perf.smooth, nil
	}
	perf.smooth.CPUPercent += perfSmoothing * (cpuValue - perf.smooth.CPUPercent)
	perf.smooth.MemoryPercent += perfSmoothing * (memoryValue - perf.smooth.MemoryPercent)
	return perf.smooth, nil
}

// Disk reports mount point usage through gopsutil.
type Disk struct{}

// Usage returns used percent and free bytes for path.
func (Disk) Usage(ctx context.Context, path string) (model.DiskUsage, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return model.DiskUsage{}, fmt.Errorf("disk usage %s: %w", path, err)
	}
	return model.DiskUsage{Path: path, UsedPercent: usage.UsedPercent, FreeBytes: usage.Free}, nil
}

// Clipboard reads the system clipboard.
type Clipboard struct{}

// ReadText returns the clipboard text.
func (Clipboard) ReadText(context.Context) (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("read clipboard: %w", ErrUnavailable)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

// Battery reads the first battery under a sysfs power_supply root.
type Battery struct {
	Root string
}

// NewBattery reads /sys/class/power_supply.
func NewBattery() Battery {
	return Battery{Root: "/sys/class/power_supply"}
}

// Battery returns the primary battery. A machine without one reports
// Present false and no error.
func (adapter Battery) Battery(context.Context) (model.BatteryStatus, error) {
	matches, err := filepath.Glob(filepath.Join(adapter.Root, "BAT*"))
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("find battery: %w", err)
	}
	if len(matches) == 0 {
		return model.BatteryStatus{}, nil
	}
	sort.Strings(matches)
	dir := matches[0]

	capacity, err := readSysfs(dir, "capacity")
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("read battery capacity: %w", err)
	}
	percent, err := strconv.Atoi(capacity)
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("parse battery capacity %q: %w", capacity, err)
	}
	state, err := readSysfs(dir, "status")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return model.BatteryStatus{}, fmt.Errorf("read battery status: %w", err)
	}
	return model.BatteryStatus{
		Present:  true,
		Percent:  percent,
		Charging: state == "Charging" || state == "Full",
	}, nil
}

func readSysfs(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Volume reads the default sink volume through pactl.
type Volume struct{}

var volumePercent = regexp.MustCompile(`(\d+)%`)

// Volume returns the first channel's volume percentage.
func (Volume) Volume(ctx context.Context) (int, error) {
	output, err := runTool(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return 0, fmt.Errorf("read volume: %w", err)
	}
	return parseVolume(output)
}

func parseVolume(output string) (int, error) {
	match := volumePercent.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("parse volume %q: %w", strings.TrimSpace(output), ErrUnavailable)
	}
	return strconv.Atoi(match[1])
}
