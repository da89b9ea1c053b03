// Package media tracks playback state across player adapters.
package media

import (
	"context"
	"errors"

	"notchpanel/internal/core/model"
)

// MillisecondThreshold separates second-based from millisecond-based duration
// reports. Values above it are treated as milliseconds.
const MillisecondThreshold = 10000

// ErrNoPlayer indicates that no adapter is registered for a player kind.
var ErrNoPlayer = errors.New("no media player")

// NormalizeDuration converts a reported duration to seconds.
func NormalizeDuration(value float64) float64 {
	if value > MillisecondThreshold {
		return value / 1000
	}
	if value < 0 {
		return 0
	}
	return value
}

// Adapter reports playback status for one player kind.
type Adapter interface {
	Kind() model.PlayerKind
	Status(ctx context.Context) (model.MediaStatus, error)
}

// Resolver selects an adapter by player kind.
type Resolver struct {
	adapters map[model.PlayerKind]Adapter
	order    []model.PlayerKind
}

// NewResolver registers adapters in priority order.
func NewResolver(adapters ...Adapter) *Resolver {
	resolver := &Resolver{adapters: make(map[model.PlayerKind]Adapter)}
	for _, adapter := range adapters {
		if adapter == nil {
			continue
		}
		kind := adapter.Kind()
		if _, exists := resolver.adapters[kind]; !exists {
			resolver.order = append(resolver.order, kind)
		}
		resolver.adapters[kind] = adapter
	}
	return resolver
}

// Adapter returns the adapter for kind.
func (resolver *Resolver) Adapter(kind model.PlayerKind) (Adapter, bool) {
	if resolver == nil {
		return nil, false
	}
	adapter, ok := resolver.adapters[kind]
	return adapter, ok
}

// Status queries the preferred player first, then the rest in registration
// order, returning the first playing status or else the first successful one.
func (resolver *Resolver) Status(ctx context.Context, preferred model.PlayerKind) (model.MediaStatus, error) {
	if resolver == nil || len(resolver.order) == 0 {
		return model.MediaStatus{}, ErrNoPlayer
	}
	kinds := make([]model.PlayerKind, 0, len(resolver.order)+1)
	if _, ok := resolver.adapters[preferred]; ok {
		kinds = append(kinds, preferred)
	}
	for _, kind := range resolver.order {
		if kind != preferred {
			kinds = append(kinds, kind)
		}
	}

	var (
		fallback model.MediaStatus
		found    bool
		errs     []error
	)
	for _, kind := range kinds {
		status, err := resolver.adapters[kind].Status(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		status.Player = kind
		status.Duration = NormalizeDuration(status.Duration)
		if status.Playing {
			return status, nil
		}
		if !found {
			fallback = status
			found = true
		}
	}
	if found {
		return fallback, nil
	}
	return model.MediaStatus{}, errors.Join(errs...)
}
