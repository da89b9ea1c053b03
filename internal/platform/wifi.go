package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"notchpanel/internal/core/model"
)

// WiFi reads the wireless link through iw.
type WiFi struct {
	// Interface pins a device; empty picks the first managed interface.
	Interface string
}

// Network returns the current link. No wireless interface yields
// ErrUnavailable.
func (adapter WiFi) Network(ctx context.Context) (model.NetworkStatus, error) {
	iface := adapter.Interface
	if iface == "" {
		output, err := runTool(ctx, "iw", "dev")
		if err != nil {
			return model.NetworkStatus{}, fmt.Errorf("list wireless interfaces: %w", err)
		}
		iface = parseIWInterface(output)
		if iface == "" {
			return model.NetworkStatus{}, fmt.Errorf("list wireless interfaces: %w", ErrUnavailable)
		}
	}

	output, err := runTool(ctx, "iw", "dev", iface, "link")
	if err != nil {
		return model.NetworkStatus{}, fmt.Errorf("read link %s: %w", iface, err)
	}
	status := parseIWLink(output)
	status.Interface = iface
	return status, nil
}

func parseIWInterface(output string) string {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == "Interface" {
			return fields[1]
		}
	}
	return ""
}

// parseIWLink reads `iw dev <if> link`. "Not connected." means the radio is
// on without an association.
func parseIWLink(output string) model.NetworkStatus {
	status := model.NetworkStatus{RadioOn: true}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "SSID":
			status.SSID = value
		case "signal":
			fields := strings.Fields(value)
			if len(fields) > 0 {
				if dbm, err := strconv.ParseFloat(fields[0], 64); err == nil {
					status.SignalDBm = int(dbm)
				}
			}
		case "tx bitrate":
			fields := strings.Fields(value)
			if len(fields) > 0 {
				if rate, err := strconv.ParseFloat(fields[0], 64); err == nil {
					status.LinkRateMbps = rate
				}
			}
		}
	}
	return status
}
