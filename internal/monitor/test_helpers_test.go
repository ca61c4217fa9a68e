package monitor

import (
	"context"
	"sync"

	"github.com/nerrad567/battery-monitor-core/internal/registry"
)

// fakeReader is an in-memory registry.Reader for deterministic tests.
type fakeReader struct {
	entities     []registry.EntityReading
	entityDevice map[string]string // entity ID → owning device ID
	deviceNames  map[string]string
	deviceAreas  map[string]string
	integrations map[string]string // entity or device ID → integration

	listErr   error
	lookupErr error
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		entityDevice: make(map[string]string),
		deviceNames:  make(map[string]string),
		deviceAreas:  make(map[string]string),
		integrations: make(map[string]string),
	}
}

func (f *fakeReader) ListEntities(_ context.Context) ([]registry.EntityReading, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entities, nil
}

func (f *fakeReader) OwningDevice(_ context.Context, entityID string) (string, bool, error) {
	if f.lookupErr != nil {
		return "", false, f.lookupErr
	}
	id, ok := f.entityDevice[entityID]
	return id, ok, nil
}

func (f *fakeReader) DeviceDisplayName(_ context.Context, deviceID string) (string, error) {
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.deviceNames[deviceID], nil
}

func (f *fakeReader) DeviceArea(_ context.Context, deviceID string) (string, bool, error) {
	if f.lookupErr != nil {
		return "", false, f.lookupErr
	}
	area, ok := f.deviceAreas[deviceID]
	return area, ok, nil
}

func (f *fakeReader) OwningIntegration(_ context.Context, id string) (string, error) {
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.integrations[id], nil
}

// addDevice registers a device with a battery entity reading.
func (f *fakeReader) addDevice(deviceID, name, area, entityID string, value any) {
	f.entities = append(f.entities, registry.EntityReading{
		EntityID:    entityID,
		Value:       value,
		Attributes:  map[string]any{"friendly_name": name + " Battery"},
		Integration: "zigbee",
	})
	f.entityDevice[entityID] = deviceID
	f.deviceNames[deviceID] = name
	if area != "" {
		f.deviceAreas[deviceID] = area
	}
}

// fakeConfig is a static ConfigProvider.
type fakeConfig struct {
	cfg Config
	err error
}

func (f *fakeConfig) MonitorConfig(_ context.Context) (Config, error) {
	if f.err != nil {
		return Config{}, f.err
	}
	return f.cfg, nil
}

// capturePublisher records everything published.
type capturePublisher struct {
	mu        sync.Mutex
	snapshots []*Snapshot
	events    []Event
}

func (p *capturePublisher) PublishSnapshot(snap *Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snap.Clone())
	return nil
}

func (p *capturePublisher) PublishEvent(ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func intPtr(n int) *int { return &n }
