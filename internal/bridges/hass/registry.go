package hass

import (
	"context"

	"github.com/nerrad567/battery-monitor-core/internal/registry"
)

// The Client doubles as the monitor's registry.Reader: every lookup is
// served from the in-memory caches, so evaluation never blocks on the
// network. While disconnected (or before the first sync completes) all
// lookups return registry.ErrUnavailable and the monitor degrades to an
// empty contribution.

var _ registry.Reader = (*Client)(nil)

// ListEntities returns a reading for every enabled entity in the cache.
func (c *Client) ListEntities(ctx context.Context) ([]registry.EntityReading, error) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	if !c.synced {
		return nil, registry.ErrUnavailable
	}

	readings := make([]registry.EntityReading, 0, len(c.states))
	for id, s := range c.states {
		entry := c.entities[id]
		if entry.DisabledBy != "" {
			continue
		}

		attrs := make(map[string]any, len(s.Attributes))
		for k, v := range s.Attributes {
			attrs[k] = v
		}

		readings = append(readings, registry.EntityReading{
			EntityID:    id,
			Value:       s.State,
			Attributes:  attrs,
			Integration: entry.Platform,
		})
	}

	return readings, nil
}

// OwningDevice resolves an entity to its parent device ID.
func (c *Client) OwningDevice(ctx context.Context, entityID string) (string, bool, error) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	if !c.synced {
		return "", false, registry.ErrUnavailable
	}

	entry, ok := c.entities[entityID]
	if !ok || entry.DeviceID == "" {
		return "", false, nil
	}
	return entry.DeviceID, true, nil
}

// DeviceDisplayName returns the device's user-assigned or default name.
func (c *Client) DeviceDisplayName(ctx context.Context, deviceID string) (string, error) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	if !c.synced {
		return "", registry.ErrUnavailable
	}

	dev, ok := c.devices[deviceID]
	if !ok {
		return "", registry.ErrNotFound
	}
	return dev.DisplayName(), nil
}

// DeviceArea resolves a device to its assigned area name.
func (c *Client) DeviceArea(ctx context.Context, deviceID string) (string, bool, error) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	if !c.synced {
		return "", false, registry.ErrUnavailable
	}

	dev, ok := c.devices[deviceID]
	if !ok || dev.AreaID == "" {
		return "", false, nil
	}

	name, ok := c.areas[dev.AreaID]
	if !ok || name == "" {
		return "", false, nil
	}
	return name, true, nil
}

// OwningIntegration returns the integration that created an entity or
// device. The device registry does not record a platform directly, so a
// device resolves through its member entities: the platform of the
// member with the lowest entity ID wins, which keeps the answer stable
// across cache rebuilds.
func (c *Client) OwningIntegration(ctx context.Context, id string) (string, error) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	if !c.synced {
		return "", registry.ErrUnavailable
	}

	if entry, ok := c.entities[id]; ok {
		return entry.Platform, nil
	}

	if _, ok := c.devices[id]; ok {
		platform := ""
		first := ""
		for entityID, entry := range c.entities {
			if entry.DeviceID != id || entry.Platform == "" {
				continue
			}
			if first == "" || entityID < first {
				first = entityID
				platform = entry.Platform
			}
		}
		if platform != "" {
			return platform, nil
		}
	}

	return "", registry.ErrNotFound
}
