// Package mqtt provides MQTT client connectivity for Battery Monitor Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Battery Monitor uses MQTT as its outbound surface: the retained
// snapshot topic carries the latest aggregation result, and transition
// events are published as they occur. External automations can also
// publish to the refresh topic to force a re-evaluation.
//
//	Battery Monitor Core → MQTT Broker → Automations / Dashboards
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish the latest snapshot (retained, QoS 1)
//	client.PublishRetained(mqtt.Topics{}.Snapshot(), payload)
//
//	// React to external refresh requests
//	err = client.Subscribe(mqtt.Topics{}.Refresh(), 0,
//	    func(topic string, payload []byte) error {
//	        mon.Trigger()
//	        return nil
//	    })
package mqtt
