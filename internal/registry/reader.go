package registry

import (
	"context"
	"strings"
)

// EntityReading is a single observable value exposed by the host platform.
// It is transient: one reading per entity per scan, never persisted.
type EntityReading struct {
	// EntityID is the opaque, stable identifier assigned by the host
	// platform (e.g. "sensor.front_door_battery").
	EntityID string

	// Value is the entity's current state. Its type depends on the
	// reporting integration; anything not parseable as a number is
	// treated as unreadable downstream.
	Value any

	// Attributes is the entity's attribute map as reported by the host
	// platform. May be nil.
	Attributes map[string]any

	// Integration identifies which plugin created this entity.
	Integration string
}

// Domain returns the entity's domain: the part of the entity ID before
// the first dot ("sensor.kitchen_battery" → "sensor"). Returns the whole
// ID when no dot is present.
func (e EntityReading) Domain() string {
	if i := strings.IndexByte(e.EntityID, '.'); i >= 0 {
		return e.EntityID[:i]
	}
	return e.EntityID
}

// FriendlyName returns the entity's friendly_name attribute, falling back
// to the entity ID when unset or not a string.
func (e EntityReading) FriendlyName() string {
	if v, ok := e.Attributes["friendly_name"]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return e.EntityID
}

// Reader is the read-only façade over the host platform's entity, device,
// and area registries. Implementations must be safe for concurrent use.
//
// Lookup failures caused by the backing registry being unreachable are
// reported as ErrUnavailable so callers can degrade to an empty
// contribution instead of failing the evaluation.
type Reader interface {
	// ListEntities returns a reading for every entity currently known
	// to the host platform.
	ListEntities(ctx context.Context) ([]EntityReading, error)

	// OwningDevice resolves an entity to its owning device ID.
	// The boolean is false when the entity has no parent device.
	OwningDevice(ctx context.Context, entityID string) (string, bool, error)

	// DeviceDisplayName returns the user-assigned or default name for a
	// device. An empty string means the registry has no name recorded.
	DeviceDisplayName(ctx context.Context, deviceID string) (string, error)

	// DeviceArea resolves a device to its assigned area name.
	// The boolean is false when the device has no area.
	DeviceArea(ctx context.Context, deviceID string) (string, bool, error)

	// OwningIntegration returns the integration that created the given
	// entity or device.
	OwningIntegration(ctx context.Context, id string) (string, error)
}
