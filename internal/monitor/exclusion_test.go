package monitor

import "testing"

func TestPartitionExcluded(t *testing.T) {
	records := []DeviceRecord{
		{DeviceID: "dev-1", DisplayName: "Lock"},
		{DeviceID: "dev-2", DisplayName: "Sensor"},
		{DeviceID: "dev-3", DisplayName: "Remote"},
	}

	kept, excluded := PartitionExcluded(records, []string{"dev-2"})
	if len(kept) != 2 {
		t.Errorf("kept = %d, want 2", len(kept))
	}
	if len(excluded) != 1 || excluded[0].DeviceID != "dev-2" {
		t.Errorf("excluded = %v, want dev-2 only", excluded)
	}
}

func TestPartitionExcludedToleratesStaleIDs(t *testing.T) {
	records := []DeviceRecord{{DeviceID: "dev-1"}}

	kept, excluded := PartitionExcluded(records, []string{"dev-gone", "dev-1"})
	if len(kept) != 0 {
		t.Errorf("kept = %d, want 0", len(kept))
	}
	// The stale ID produces no excluded entry and no error.
	if len(excluded) != 1 || excluded[0].DeviceID != "dev-1" {
		t.Errorf("excluded = %v, want dev-1 only", excluded)
	}
}

func TestPartitionExcludedEmptySet(t *testing.T) {
	records := []DeviceRecord{{DeviceID: "dev-1"}, {DeviceID: "dev-2"}}

	kept, excluded := PartitionExcluded(records, nil)
	if len(kept) != 2 || len(excluded) != 0 {
		t.Errorf("kept = %d excluded = %d, want 2 and 0", len(kept), len(excluded))
	}
}
