package monitor

import (
	"context"
	"errors"
	"testing"
)

func TestResolveMergesWorstReadableLevel(t *testing.T) {
	reader := newFakeReader()
	reader.entityDevice["sensor.lock_battery"] = "dev-lock"
	reader.entityDevice["sensor.lock_battery_2"] = "dev-lock"
	reader.deviceNames["dev-lock"] = "Front Door Lock"
	reader.deviceAreas["dev-lock"] = "Hallway"

	classified := []ClassifiedBattery{
		{EntityID: "sensor.lock_battery", Level: intPtr(60), FriendlyName: "Lock Battery"},
		{EntityID: "sensor.lock_battery_2", Level: intPtr(15), FriendlyName: "Lock Battery 2"},
	}

	records := NewResolver(reader, nil).Resolve(context.Background(), classified)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.DeviceID != "dev-lock" {
		t.Errorf("DeviceID = %q, want dev-lock", rec.DeviceID)
	}
	if rec.BatteryLevel == nil || *rec.BatteryLevel != 15 {
		t.Errorf("BatteryLevel = %v, want 15 (worst wins)", rec.BatteryLevel)
	}
	if rec.RepresentativeEntityID != "sensor.lock_battery_2" {
		t.Errorf("RepresentativeEntityID = %q, want the entity with the worst level", rec.RepresentativeEntityID)
	}
	if rec.DisplayName != "Front Door Lock" {
		t.Errorf("DisplayName = %q, want registry name", rec.DisplayName)
	}
	if rec.AreaName != "Hallway" {
		t.Errorf("AreaName = %q, want Hallway", rec.AreaName)
	}
	if len(rec.EntityIDs) != 2 {
		t.Errorf("EntityIDs = %v, want both contributors", rec.EntityIDs)
	}
}

func TestResolveReadableBeatsUnreadable(t *testing.T) {
	reader := newFakeReader()
	reader.entityDevice["sensor.cam_battery"] = "dev-cam"
	reader.entityDevice["sensor.cam_battery_state"] = "dev-cam"
	reader.deviceNames["dev-cam"] = "Doorbell Cam"

	classified := []ClassifiedBattery{
		{EntityID: "sensor.cam_battery_state", Level: nil, FriendlyName: "Cam State"},
		{EntityID: "sensor.cam_battery", Level: intPtr(40), FriendlyName: "Cam Battery"},
	}

	records := NewResolver(reader, nil).Resolve(context.Background(), classified)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].BatteryLevel == nil || *records[0].BatteryLevel != 40 {
		t.Errorf("BatteryLevel = %v, want 40 (readable wins)", records[0].BatteryLevel)
	}
}

func TestResolveAllUnreadable(t *testing.T) {
	reader := newFakeReader()
	reader.entityDevice["sensor.valve_battery"] = "dev-valve"
	reader.deviceNames["dev-valve"] = "Radiator Valve"

	records := NewResolver(reader, nil).Resolve(context.Background(), []ClassifiedBattery{
		{EntityID: "sensor.valve_battery", FriendlyName: "Valve Battery"},
	})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].BatteryLevel != nil {
		t.Errorf("BatteryLevel = %d, want nil", *records[0].BatteryLevel)
	}
	if records[0].RepresentativeEntityID != "sensor.valve_battery" {
		t.Errorf("RepresentativeEntityID = %q", records[0].RepresentativeEntityID)
	}
}

func TestResolveSyntheticDevice(t *testing.T) {
	// Standalone battery sensor with no parent device surfaces under
	// its own entity ID with the friendly name.
	reader := newFakeReader()

	records := NewResolver(reader, nil).Resolve(context.Background(), []ClassifiedBattery{
		{EntityID: "sensor.tracker_battery", Level: intPtr(71), FriendlyName: "Key Tracker"},
	})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.DeviceID != "sensor.tracker_battery" {
		t.Errorf("DeviceID = %q, want entity ID as synthetic key", rec.DeviceID)
	}
	if rec.DisplayName != "Key Tracker" {
		t.Errorf("DisplayName = %q, want friendly name", rec.DisplayName)
	}
	if rec.AreaName != "" {
		t.Errorf("AreaName = %q, want empty for synthetic device", rec.AreaName)
	}
}

func TestResolveDropsOwnIntegrationDevices(t *testing.T) {
	reader := newFakeReader()
	reader.entityDevice["sensor.monitor_battery"] = "dev-self"
	reader.deviceNames["dev-self"] = "Battery Monitor"
	reader.integrations["dev-self"] = Domain
	reader.entityDevice["sensor.real_battery"] = "dev-real"
	reader.deviceNames["dev-real"] = "Motion Sensor"

	records := NewResolver(reader, nil).Resolve(context.Background(), []ClassifiedBattery{
		{EntityID: "sensor.monitor_battery", Level: intPtr(10), FriendlyName: "Self"},
		{EntityID: "sensor.real_battery", Level: intPtr(90), FriendlyName: "Motion"},
	})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (own device dropped)", len(records))
	}
	if records[0].DeviceID != "dev-real" {
		t.Errorf("kept device = %q, want dev-real", records[0].DeviceID)
	}
}

func TestResolveRegistryFailureDegrades(t *testing.T) {
	// Per-entity lookup failures must not fail the scan: entities fall
	// back to standalone devices with friendly names.
	reader := newFakeReader()
	reader.lookupErr = errors.New("registry gone")

	records := NewResolver(reader, nil).Resolve(context.Background(), []ClassifiedBattery{
		{EntityID: "sensor.door_battery", Level: intPtr(33), FriendlyName: "Door Sensor"},
	})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].DeviceID != "sensor.door_battery" {
		t.Errorf("DeviceID = %q, want synthetic fallback", records[0].DeviceID)
	}
	if records[0].DisplayName != "Door Sensor" {
		t.Errorf("DisplayName = %q, want friendly name fallback", records[0].DisplayName)
	}
}

func TestResolveDeterministicOrderIndependence(t *testing.T) {
	// The same entities in a different scan order must produce the same
	// merged record.
	reader := newFakeReader()
	reader.entityDevice["sensor.a_battery"] = "dev-1"
	reader.entityDevice["sensor.b_battery"] = "dev-1"
	reader.deviceNames["dev-1"] = "Sensor"

	forward := []ClassifiedBattery{
		{EntityID: "sensor.a_battery", Level: intPtr(20), FriendlyName: "A"},
		{EntityID: "sensor.b_battery", Level: intPtr(20), FriendlyName: "B"},
	}
	reverse := []ClassifiedBattery{forward[1], forward[0]}

	r := NewResolver(reader, nil)
	a := r.Resolve(context.Background(), forward)
	b := r.Resolve(context.Background(), reverse)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("got %d and %d records, want 1 each", len(a), len(b))
	}
	if a[0].RepresentativeEntityID != b[0].RepresentativeEntityID {
		t.Errorf("representative differs by scan order: %q vs %q",
			a[0].RepresentativeEntityID, b[0].RepresentativeEntityID)
	}
}
