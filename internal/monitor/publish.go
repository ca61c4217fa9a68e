package monitor

import (
	"encoding/json"
	"fmt"
)

// MQTTClient is the interface for publishing monitor output to the broker.
// Satisfied by *mqtt.Client; small so tests can capture publications.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTT topics for monitor output.
const (
	// TopicSnapshot carries the current snapshot, retained so new
	// subscribers immediately see the latest state.
	TopicSnapshot = "batterymon/snapshot"

	// topicEventPrefix is the prefix for transition event topics;
	// the event type is appended (e.g. batterymon/event/low_battery).
	topicEventPrefix = "batterymon/event/"
)

// snapshotQoS and eventQoS match the fire-and-forget contract: events are
// best-effort, the snapshot gets at-least-once so the retained copy is
// reliable.
const (
	snapshotQoS = 1
	eventQoS    = 0
)

// MQTTPublisher publishes snapshots and events to the MQTT broker.
type MQTTPublisher struct {
	client MQTTClient
}

// NewMQTTPublisher wraps an MQTT client as a monitor Publisher.
func NewMQTTPublisher(client MQTTClient) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

// PublishSnapshot publishes the snapshot (with its icon) retained.
func (p *MQTTPublisher) PublishSnapshot(snap *Snapshot) error {
	payload := struct {
		*Snapshot
		Icon string `json:"icon"`
	}{Snapshot: snap, Icon: snap.Icon()}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	if err := p.client.Publish(TopicSnapshot, data, snapshotQoS, true); err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	return nil
}

// PublishEvent publishes a transition event, not retained.
func (p *MQTTPublisher) PublishEvent(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	topic := topicEventPrefix + string(ev.Type)
	if err := p.client.Publish(topic, data, eventQoS, false); err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}
	return nil
}
