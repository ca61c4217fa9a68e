package monitor

import (
	"encoding/json"
	"testing"
)

type mockMQTT struct {
	published []mqttMessage
	failErr   error
}

type mqttMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

func (m *mockMQTT) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.published = append(m.published, mqttMessage{topic, payload, qos, retained})
	return nil
}

func TestMQTTPublisherSnapshot(t *testing.T) {
	client := &mockMQTT{}
	p := NewMQTTPublisher(client)

	snap := &Snapshot{Status: StateProblem, Threshold: 20}
	if err := p.PublishSnapshot(snap); err != nil {
		t.Fatalf("PublishSnapshot() error = %v", err)
	}

	if len(client.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(client.published))
	}
	msg := client.published[0]
	if msg.topic != TopicSnapshot {
		t.Errorf("topic = %q, want %q", msg.topic, TopicSnapshot)
	}
	if !msg.retained {
		t.Error("snapshot must be retained")
	}

	var decoded map[string]any
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if decoded["status"] != StateProblem {
		t.Errorf("status = %v", decoded["status"])
	}
	if decoded["icon"] != "mdi:battery-alert" {
		t.Errorf("icon = %v", decoded["icon"])
	}
}

func TestMQTTPublisherEvent(t *testing.T) {
	client := &mockMQTT{}
	p := NewMQTTPublisher(client)

	lvl := 8
	ev := Event{
		ID:           "ev-1",
		Type:         EventLowBattery,
		EntityID:     "sensor.lock_battery",
		DeviceID:     "dev-lock",
		Name:         "Front Door Lock",
		BatteryLevel: &lvl,
		Threshold:    20,
	}
	if err := p.PublishEvent(ev); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	msg := client.published[0]
	if msg.topic != "batterymon/event/low_battery" {
		t.Errorf("topic = %q", msg.topic)
	}
	if msg.retained {
		t.Error("events must not be retained")
	}

	var decoded Event
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if decoded.EntityID != ev.EntityID || decoded.Threshold != 20 {
		t.Errorf("decoded = %+v", decoded)
	}
}
