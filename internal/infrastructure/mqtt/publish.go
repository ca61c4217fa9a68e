package mqtt

import (
	"fmt"
)

// maxPayloadSize caps outbound payloads at 1MB. A snapshot for even a
// very large home is a few hundred KB; anything bigger is a bug, and
// brokers commonly reject oversized messages anyway.
const maxPayloadSize = 1 << 20

// Publish sends a payload to a topic and waits for the broker ack.
//
// Retained messages replace the broker's stored copy for the topic, so
// new subscribers immediately see the latest value. The snapshot and
// system status topics use that; event topics never do, because a
// replayed low_battery event is a false alarm.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishString publishes a string payload.
func (c *Client) PublishString(topic string, payload string, qos byte, retained bool) error {
	return c.Publish(topic, []byte(payload), qos, retained)
}

// PublishRetained publishes a retained message at the configured QoS.
// This is the snapshot path: one call per changed evaluation.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}
