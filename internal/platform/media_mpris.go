package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"

	"notchpanel/internal/core/model"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisPlayer     = "org.mpris.MediaPlayer2.Player"
	propertiesIface = "org.freedesktop.DBus.Properties"
	microsPerSecond = 1e6
)

// MPRIS reads playback state from MPRIS players on the session bus.
type MPRIS struct {
	conn *dbus.Conn
}

// NewMPRIS connects to the session bus.
func NewMPRIS() (*MPRIS, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &MPRIS{conn: conn}, nil
}

// Close releases the bus connection.
func (adapter *MPRIS) Close() error {
	return adapter.conn.Close()
}

// Kind reports PlayerMPRIS.
func (adapter *MPRIS) Kind() model.PlayerKind {
	return model.PlayerMPRIS
}

// Status returns the first playing player's state, or the first player's
// state when none is playing. No players yields a stopped status.
func (adapter *MPRIS) Status(ctx context.Context) (model.MediaStatus, error) {
	players, err := adapter.players(ctx)
	if err != nil {
		return model.MediaStatus{}, err
	}

	var (
		fallback model.MediaStatus
		found    bool
	)
	for _, name := range players {
		var props map[string]dbus.Variant
		call := adapter.conn.Object(name, mprisPath).CallWithContext(ctx, propertiesIface+".GetAll", 0, mprisPlayer)
		if err := call.Store(&props); err != nil {
			continue
		}
		status := statusFromMPRIS(props)
		if status.Playing {
			return status, nil
		}
		if !found {
			fallback, found = status, true
		}
	}
	return fallback, nil
}

// Watch pushes a fresh status whenever any player's properties change. It
// blocks until ctx is done.
func (adapter *MPRIS) Watch(ctx context.Context, logger *slog.Logger, push func(model.MediaStatus)) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := adapter.conn.AddMatchSignalContext(ctx,
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface(propertiesIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("match mpris signals: %w", err)
	}
	signals := make(chan *dbus.Signal, 16)
	adapter.conn.Signal(signals)
	defer adapter.conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case signal, ok := <-signals:
			if !ok {
				return nil
			}
			if len(signal.Body) == 0 || signal.Body[0] != mprisPlayer {
				continue
			}
			status, err := adapter.Status(ctx)
			if err != nil {
				logger.Debug("mpris refresh after signal", "error", err)
				continue
			}
			push(status)
		}
	}
}

func (adapter *MPRIS) players(ctx context.Context) ([]string, error) {
	var names []string
	if err := adapter.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	players := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			players = append(players, name)
		}
	}
	sort.Strings(players)
	return players, nil
}

func statusFromMPRIS(props map[string]dbus.Variant) model.MediaStatus {
	status := model.MediaStatus{Player: model.PlayerMPRIS}
	if value, ok := props["PlaybackStatus"].Value().(string); ok {
		status.Playing = value == "Playing"
	}
	if value, ok := int64Of(props["Position"]); ok {
		status.Position = float64(value) / microsPerSecond
	}
	metadata, _ := props["Metadata"].Value().(map[string]dbus.Variant)
	if value, ok := metadata["xesam:title"].Value().(string); ok {
		status.Title = value
	}
	switch value := metadata["xesam:artist"].Value().(type) {
	case []string:
		status.Artist = strings.Join(value, ", ")
	case string:
		status.Artist = value
	}
	if value, ok := int64Of(metadata["mpris:length"]); ok {
		status.Duration = float64(value) / microsPerSecond
	}
	return status
}

func int64Of(variant dbus.Variant) (int64, bool) {
	switch value := variant.Value().(type) {
	case int64:
		return value, true
	case uint64:
		return int64(value), true
	case int32:
		return int64(value), true
	case uint32:
		return int64(value), true
	case float64:
		return int64(value), true
	default:
		return 0, false
	}
}
