package settings

import "time"

// Settings holds the runtime-adjustable monitor configuration.
//
// A single row in the monitor_settings table carries the threshold;
// excluded device IDs live in their own table so they can be added and
// removed individually.
type Settings struct {
	// Threshold is the battery percentage at or below which a device is
	// reported as low. Valid range is 0 to 100.
	Threshold int `json:"threshold"`

	// ExcludedDeviceIDs lists devices removed from aggregation by the
	// user. Stale IDs are tolerated downstream.
	ExcludedDeviceIDs []string `json:"excluded_device_ids"`

	// UpdatedAt is when the settings row was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers can't mutate cached state.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := *s
	out.ExcludedDeviceIDs = append([]string(nil), s.ExcludedDeviceIDs...)
	return &out
}
