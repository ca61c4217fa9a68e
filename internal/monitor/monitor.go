package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/nerrad567/battery-monitor-core/internal/registry"
)

// Logger defines the logging interface used by the monitor.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ConfigProvider supplies the configuration snapshot read at the start of
// each evaluation. Implementations must return a value the monitor can
// treat as immutable for the duration of the evaluation.
type ConfigProvider interface {
	MonitorConfig(ctx context.Context) (Config, error)
}

// Publisher receives snapshots and events produced by evaluations.
// Delivery is best-effort; failures are logged and never fail the
// evaluation.
type Publisher interface {
	PublishSnapshot(snap *Snapshot) error
	PublishEvent(ev Event) error
}

// Monitor runs the full scan → classify → resolve → partition → aggregate
// pipeline and owns the previous-snapshot state used for event diffing.
//
// Evaluations are serialised: the mutex guards the read-previous /
// compute / publish / emit sequence, so concurrent triggers queue rather
// than racing over the diff state. Triggers arriving while an evaluation
// is in flight coalesce into at most one follow-up run.
type Monitor struct {
	reader    registry.Reader
	config    ConfigProvider
	resolver  *Resolver
	publisher Publisher
	logger    Logger

	mu   sync.Mutex
	prev *Snapshot

	triggers chan struct{}
}

// New creates a monitor. The publisher may be nil, in which case
// snapshots and events are only observable via Snapshot() and logs.
func New(reader registry.Reader, config ConfigProvider, publisher Publisher, logger Logger) *Monitor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Monitor{
		reader:    reader,
		config:    config,
		resolver:  NewResolver(reader, logger),
		publisher: publisher,
		logger:    logger,
		triggers:  make(chan struct{}, 1),
	}
}

// Trigger requests a re-evaluation. It never blocks: triggers arriving
// while one is already pending coalesce into a single run.
func (m *Monitor) Trigger() {
	select {
	case m.triggers <- struct{}{}:
	default:
	}
}

// Run performs an initial evaluation and then serves triggers until the
// context is cancelled. It is intended to run in its own goroutine.
func (m *Monitor) Run(ctx context.Context) {
	if _, err := m.Refresh(ctx); err != nil {
		m.logger.Error("initial evaluation failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.triggers:
			if _, err := m.Refresh(ctx); err != nil {
				m.logger.Error("evaluation failed", "error", err)
			}
		}
	}
}

// Snapshot returns a copy of the most recent snapshot, or nil before the
// first evaluation completes.
func (m *Monitor) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prev.Clone()
}

// Refresh runs one complete evaluation and returns the resulting
// snapshot. It is safe for concurrent use; evaluations never interleave.
//
// Error handling follows the degrade-don't-crash contract: a missing
// configuration falls back to defaults, an unreachable registry yields an
// empty (degraded) scan, and malformed readings surface as unreadable.
// The returned error is reserved for context cancellation.
func (m *Monitor) Refresh(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := m.loadConfig(ctx)

	degraded := false
	entities, err := m.reader.ListEntities(ctx)
	if err != nil {
		m.logger.Warn("entity registry unavailable, producing degraded snapshot", "error", err)
		entities = nil
		degraded = true
	}

	classified := make([]ClassifiedBattery, 0, len(entities))
	for _, e := range entities {
		if c, ok := Classify(e); ok {
			classified = append(classified, c)
		}
	}

	records := m.resolver.Resolve(ctx, classified)
	kept, excluded := PartitionExcluded(records, cfg.ExcludedDeviceIDs)
	snap, events := Evaluate(kept, excluded, cfg.Threshold, m.prev)
	snap.Degraded = degraded

	changed := m.prev == nil || !sameSnapshot(m.prev, snap)
	m.prev = snap

	m.logger.Debug("evaluation complete",
		"status", snap.Status,
		"below", len(snap.DevicesBelowThreshold),
		"above", len(snap.DevicesAboveThreshold),
		"without_info", len(snap.DevicesWithoutBatteryInfo),
		"excluded", len(snap.ExcludedDevices),
		"events", len(events),
		"changed", changed,
	)

	if m.publisher != nil {
		if changed {
			if err := m.publisher.PublishSnapshot(snap); err != nil {
				m.logger.Warn("snapshot publish failed", "error", err)
			}
		}
		for _, ev := range events {
			if err := m.publisher.PublishEvent(ev); err != nil {
				m.logger.Warn("event publish failed", "type", ev.Type, "device_id", ev.DeviceID, "error", err)
			}
		}
	}

	return snap.Clone(), nil
}

// sameSnapshot compares two snapshots through their wire form, which is
// exactly what subscribers of the retained topic observe. A marshal
// failure counts as changed so a publish is never suppressed by mistake.
func sameSnapshot(a, b *Snapshot) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

// loadConfig reads the configuration snapshot for this evaluation,
// applying documented defaults when the provider is missing or failing.
func (m *Monitor) loadConfig(ctx context.Context) Config {
	if m.config == nil {
		return DefaultConfig()
	}
	cfg, err := m.config.MonitorConfig(ctx)
	if err != nil {
		m.logger.Warn("configuration unavailable, applying defaults", "error", err)
		return DefaultConfig()
	}
	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		m.logger.Warn("configured threshold out of range, applying default", "threshold", cfg.Threshold)
		cfg.Threshold = DefaultThreshold
	}
	return cfg
}
