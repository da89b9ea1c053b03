package platform

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"

	"notchpanel/internal/core/model"
)

const (
	bluezService = "org.bluez"
	bluezDevice  = "org.bluez.Device1"
	bluezBattery = "org.bluez.Battery1"
)

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// Bluetooth lists connected accessories from BlueZ over the system bus,
// falling back to bluetoothctl when the bus is not reachable.
type Bluetooth struct {
	conn *dbus.Conn
}

// NewBluetooth connects to the system bus. A failed connection leaves the
// adapter in bluetoothctl mode.
func NewBluetooth() *Bluetooth {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return &Bluetooth{}
	}
	return &Bluetooth{conn: conn}
}

// Close releases the bus connection.
func (adapter *Bluetooth) Close() error {
	if adapter.conn == nil {
		return nil
	}
	return adapter.conn.Close()
}

// Accessories returns connected devices sorted by name. bluetoothctl is
// consulted when BlueZ fails or reports nothing connected.
func (adapter *Bluetooth) Accessories(ctx context.Context) ([]model.Accessory, error) {
	var (
		primary    []model.Accessory
		primaryErr = ErrUnavailable
	)
	if adapter.conn != nil {
		var objects managedObjects
		call := adapter.conn.Object(bluezService, "/").CallWithContext(ctx, "org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0)
		if primaryErr = call.Store(&objects); primaryErr == nil {
			primary = accessoriesFromObjects(objects)
		}
	}
	return withFallback(primary, primaryErr, func() ([]model.Accessory, error) {
		output, err := runTool(ctx, "bluetoothctl", "devices", "Connected")
		if err != nil {
			return nil, err
		}
		return parseBluetoothctl(output), nil
	})
}

// withFallback returns primary unless it failed or is empty. An empty primary
// result survives a failing fallback.
func withFallback(primary []model.Accessory, primaryErr error, fallback func() ([]model.Accessory, error)) ([]model.Accessory, error) {
	if primaryErr == nil && len(primary) > 0 {
		return primary, nil
	}
	secondary, err := fallback()
	if err != nil {
		if primaryErr == nil {
			return primary, nil
		}
		return nil, fmt.Errorf("list accessories: %w", err)
	}
	return secondary, nil
}

func accessoriesFromObjects(objects managedObjects) []model.Accessory {
	accessories := make([]model.Accessory, 0)
	for path, interfaces := range objects {
		device, ok := interfaces[bluezDevice]
		if !ok {
			continue
		}
		connected, _ := device["Connected"].Value().(bool)
		if !connected {
			continue
		}
		accessory := model.Accessory{ID: string(path), Connected: true, Battery: -1}
		if address, ok := device["Address"].Value().(string); ok {
			accessory.ID = address
		}
		if alias, ok := device["Alias"].Value().(string); ok && alias != "" {
			accessory.Name = alias
		} else if name, ok := device["Name"].Value().(string); ok {
			accessory.Name = name
		}
		if battery, ok := interfaces[bluezBattery]; ok {
			if percentage, ok := battery["Percentage"].Value().(byte); ok {
				accessory.Battery = int(percentage)
			}
		}
		accessories = append(accessories, accessory)
	}
	sortAccessories(accessories)
	return accessories
}

// parseBluetoothctl reads "Device AA:BB:CC:DD:EE:FF Name" lines.
func parseBluetoothctl(output string) []model.Accessory {
	accessories := make([]model.Accessory, 0)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "Device" {
			continue
		}
		name := fields[1]
		if len(fields) > 2 {
			name = strings.Join(fields[2:], " ")
		}
		accessories = append(accessories, model.Accessory{
			ID:        fields[1],
			Name:      name,
			Connected: true,
			Battery:   -1,
		})
	}
	sortAccessories(accessories)
	return accessories
}

func sortAccessories(accessories []model.Accessory) {
	sort.Slice(accessories, func(i, j int) bool {
		if accessories[i].Name == accessories[j].Name {
			return accessories[i].ID < accessories[j].ID
		}
		return accessories[i].Name < accessories[j].Name
	})
}
