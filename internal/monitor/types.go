package monitor

// Domain is this integration's own identifier. Entities and devices
// created by the monitor itself are never classified as battery sources,
// which prevents self-reference loops.
const Domain = "battery_monitor"

// Summary states exposed by the monitor.
const (
	StateOK      = "OK"
	StateProblem = "Problem"
)

// DefaultThreshold is the battery percentage boundary applied when no
// configuration is available.
const DefaultThreshold = 20

// Source records how an entity was classified as a battery reading.
// Informational only; it does not affect downstream behaviour.
type Source string

const (
	// SourceAttribute means a recognised battery attribute carried the level.
	SourceAttribute Source = "attribute"

	// SourceHeuristic means the entity ID contained "battery" and the
	// state value was used.
	SourceHeuristic Source = "heuristic"
)

// ClassifiedBattery is an entity the classifier accepted as battery-bearing.
// A nil Level means the battery is present but its value is unreadable.
type ClassifiedBattery struct {
	EntityID     string
	Level        *int // 0..100, nil when unreadable
	Source       Source
	FriendlyName string // display fallback for entities with no parent device
}

// DeviceRecord is one physical device discovered with at least one battery
// entity. There is at most one record per device ID per scan.
type DeviceRecord struct {
	// DeviceID is the owning device's registry ID, or the entity's own
	// ID for standalone sensors with no parent device.
	DeviceID string

	// DisplayName is the device registry name, falling back to the
	// contributing entity's friendly name.
	DisplayName string

	// AreaName is the device's assigned area, empty when unset.
	AreaName string

	// BatteryLevel is the merged level across the device's battery
	// entities: the minimum readable level, or nil when every
	// contributing entity was unreadable.
	BatteryLevel *int

	// EntityIDs lists the contributing entities, sorted. Diagnostics only.
	EntityIDs []string

	// RepresentativeEntityID is the entity that supplied the merged
	// level (or the first contributor when unreadable). Used in events.
	RepresentativeEntityID string
}

// BatteryEntry is one device in the below/above threshold lists.
type BatteryEntry struct {
	DeviceID     string `json:"device_id"`
	EntityID     string `json:"entity_id"`
	Name         string `json:"name"`
	Area         string `json:"area"`
	BatteryLevel int    `json:"battery_level"`
}

// InfoEntry is one device in the without-battery-info or excluded lists.
type InfoEntry struct {
	DeviceID string `json:"device_id"`
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	Area     string `json:"area"`
}

// Snapshot is the engine's sole externally visible output per evaluation.
// It is recomputed fully every time; there are no partial updates. The
// previous snapshot is retained only to diff transition events.
type Snapshot struct {
	Status                          string         `json:"status"`
	DevicesBelowThreshold           []BatteryEntry `json:"devices_below_threshold"`
	DevicesAboveThreshold           []BatteryEntry `json:"devices_above_threshold"`
	DevicesWithoutBatteryInfo       []InfoEntry    `json:"devices_without_battery_info"`
	DevicesWithoutBatteryInfoStatus string         `json:"devices_without_battery_info_status"`
	ExcludedDevices                 []InfoEntry    `json:"excluded_devices"`
	TotalMonitoredDevices           int            `json:"total_monitored_devices"`
	Threshold                       int            `json:"threshold"`

	// Degraded is set when a registry was unreachable during the scan
	// and its contribution was treated as empty.
	Degraded bool `json:"degraded,omitempty"`
}

// Icon returns the display icon for the snapshot's summary state.
func (s *Snapshot) Icon() string {
	if s.Status == StateProblem {
		return "mdi:battery-alert"
	}
	return "mdi:battery-check"
}

// Clone returns an independent copy of the snapshot. Slice fields are
// duplicated so callers can safely hold the result across evaluations.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	cpy := *s
	cpy.DevicesBelowThreshold = append([]BatteryEntry(nil), s.DevicesBelowThreshold...)
	cpy.DevicesAboveThreshold = append([]BatteryEntry(nil), s.DevicesAboveThreshold...)
	cpy.DevicesWithoutBatteryInfo = append([]InfoEntry(nil), s.DevicesWithoutBatteryInfo...)
	cpy.ExcludedDevices = append([]InfoEntry(nil), s.ExcludedDevices...)
	return &cpy
}

// levelState is the reduced projection of a snapshot used for event
// diffing: device ID → last observed level (nil = unreadable).
type levelState struct {
	level *int
}

// levelIndex builds the device→level projection implied by the snapshot.
// A nil snapshot yields an empty index (first evaluation).
func (s *Snapshot) levelIndex() map[string]levelState {
	if s == nil {
		return map[string]levelState{}
	}
	idx := make(map[string]levelState, len(s.DevicesBelowThreshold)+len(s.DevicesAboveThreshold)+len(s.DevicesWithoutBatteryInfo))
	for i := range s.DevicesBelowThreshold {
		e := s.DevicesBelowThreshold[i]
		lvl := e.BatteryLevel
		idx[e.DeviceID] = levelState{level: &lvl}
	}
	for i := range s.DevicesAboveThreshold {
		e := s.DevicesAboveThreshold[i]
		lvl := e.BatteryLevel
		idx[e.DeviceID] = levelState{level: &lvl}
	}
	for i := range s.DevicesWithoutBatteryInfo {
		idx[s.DevicesWithoutBatteryInfo[i].DeviceID] = levelState{}
	}
	return idx
}

// EventType identifies a transition event kind.
type EventType string

const (
	// EventLowBattery fires when a device's reading is below the
	// threshold and the reading changed since the previous evaluation.
	EventLowBattery EventType = "low_battery"

	// EventBatteryUnavailable fires when a device's battery value
	// becomes unreadable having previously been readable or unseen.
	EventBatteryUnavailable EventType = "battery_unavailable"
)

// Event is a discrete transition emitted alongside a snapshot.
// Delivery is fire-and-forget; events are not persisted or replayed.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	EntityID     string    `json:"entity_id"`
	DeviceID     string    `json:"device_id"`
	Name         string    `json:"name"`
	BatteryLevel *int      `json:"battery_level,omitempty"`
	Threshold    int       `json:"threshold,omitempty"`
}

// Config is the immutable per-evaluation configuration snapshot.
// It is read fresh at the start of each evaluation and never mid-way.
type Config struct {
	Threshold         int
	ExcludedDeviceIDs []string
}

// DefaultConfig returns the documented defaults applied when the
// configuration collaborator is missing or corrupt.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold}
}
