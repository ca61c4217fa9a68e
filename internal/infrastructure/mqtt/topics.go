package mqtt

import "fmt"

// Topic prefixes for the Battery Monitor MQTT surface.
//
// All topics live under the flat scheme: batterymon/{category}/...
const (
	// TopicPrefix is the base for all Battery Monitor topics.
	TopicPrefix = "batterymon"

	// TopicPrefixEvent is the base for transition event topics.
	TopicPrefixEvent = "batterymon/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "batterymon/system"
)

// Topics provides builders for Battery Monitor MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	t := topics.Event("low_battery")
//	// Returns: "batterymon/event/low_battery"
type Topics struct{}

// Snapshot returns the retained topic carrying the latest aggregation snapshot.
//
// Example: batterymon/snapshot
func (Topics) Snapshot() string {
	return fmt.Sprintf("%s/snapshot", TopicPrefix)
}

// Event returns the topic for a transition event type.
//
// Example: batterymon/event/low_battery
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvent, eventType)
}

// Refresh returns the topic external clients publish to in order to force
// a re-evaluation.
//
// Example: batterymon/refresh
func (Topics) Refresh() string {
	return fmt.Sprintf("%s/refresh", TopicPrefix)
}

// SystemStatus returns the service availability topic. The last will
// message is published here when the service drops off the broker.
//
// Example: batterymon/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEvents returns a pattern matching all transition events.
//
// Pattern: batterymon/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/+", TopicPrefixEvent)
}

// AllTopics returns a pattern matching all Battery Monitor topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: batterymon/#
func (Topics) AllTopics() string {
	return "batterymon/#"
}
