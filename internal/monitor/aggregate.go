package monitor

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Evaluate partitions resolved device records against the threshold and
// produces the deterministic snapshot plus transition events diffed
// against the previous snapshot.
//
// Bucketing:
//   - nil level → devices_without_battery_info
//   - level < threshold → devices_below_threshold
//   - level >= threshold → devices_above_threshold (tie counts as above)
//
// Event policy (documented choice): low_battery is level-triggered per
// changed reading — it fires whenever a device is below the threshold and
// its level differs from the previous evaluation, including the first
// time it appears below. battery_unavailable is edge-triggered: it fires
// only when a device becomes unreadable having previously been readable
// or unseen. Excluded devices never emit. Re-evaluating unchanged inputs
// therefore emits nothing.
func Evaluate(kept, excluded []DeviceRecord, threshold int, prev *Snapshot) (*Snapshot, []Event) {
	snap := &Snapshot{
		Status:                          StateOK,
		DevicesBelowThreshold:           []BatteryEntry{},
		DevicesAboveThreshold:           []BatteryEntry{},
		DevicesWithoutBatteryInfo:       []InfoEntry{},
		DevicesWithoutBatteryInfoStatus: StateOK,
		ExcludedDevices:                 []InfoEntry{},
		Threshold:                       threshold,
	}

	prevLevels := prev.levelIndex()
	var events []Event

	for _, rec := range kept {
		if rec.BatteryLevel == nil {
			snap.DevicesWithoutBatteryInfo = append(snap.DevicesWithoutBatteryInfo, infoEntry(rec))
			if ev, ok := unavailableEvent(rec, prevLevels); ok {
				events = append(events, ev)
			}
			continue
		}

		entry := batteryEntry(rec)
		if entry.BatteryLevel < threshold {
			snap.DevicesBelowThreshold = append(snap.DevicesBelowThreshold, entry)
			if ev, ok := lowBatteryEvent(rec, threshold, prevLevels); ok {
				events = append(events, ev)
			}
		} else {
			snap.DevicesAboveThreshold = append(snap.DevicesAboveThreshold, entry)
		}
	}

	for _, rec := range excluded {
		snap.ExcludedDevices = append(snap.ExcludedDevices, infoEntry(rec))
	}

	sortBatteryEntries(snap.DevicesBelowThreshold)
	sortBatteryEntries(snap.DevicesAboveThreshold)
	sortInfoEntries(snap.DevicesWithoutBatteryInfo)
	sortInfoEntries(snap.ExcludedDevices)

	if len(snap.DevicesBelowThreshold) > 0 {
		snap.Status = StateProblem
	}
	if len(snap.DevicesWithoutBatteryInfo) > 0 {
		snap.DevicesWithoutBatteryInfoStatus = StateProblem
	}
	snap.TotalMonitoredDevices = len(snap.DevicesBelowThreshold) +
		len(snap.DevicesAboveThreshold) +
		len(snap.DevicesWithoutBatteryInfo)

	return snap, events
}

// lowBatteryEvent decides whether a below-threshold device warrants an
// event: yes when its reading changed since the previous evaluation.
func lowBatteryEvent(rec DeviceRecord, threshold int, prev map[string]levelState) (Event, bool) {
	if state, known := prev[rec.DeviceID]; known &&
		state.level != nil && *state.level == *rec.BatteryLevel {
		return Event{}, false
	}
	lvl := *rec.BatteryLevel
	return Event{
		ID:           uuid.NewString(),
		Type:         EventLowBattery,
		EntityID:     rec.RepresentativeEntityID,
		DeviceID:     rec.DeviceID,
		Name:         rec.DisplayName,
		BatteryLevel: &lvl,
		Threshold:    threshold,
	}, true
}

// unavailableEvent fires only on the readable-or-unseen → unreadable edge.
func unavailableEvent(rec DeviceRecord, prev map[string]levelState) (Event, bool) {
	if state, known := prev[rec.DeviceID]; known && state.level == nil {
		return Event{}, false
	}
	return Event{
		ID:       uuid.NewString(),
		Type:     EventBatteryUnavailable,
		EntityID: rec.RepresentativeEntityID,
		DeviceID: rec.DeviceID,
		Name:     rec.DisplayName,
	}, true
}

func batteryEntry(rec DeviceRecord) BatteryEntry {
	return BatteryEntry{
		DeviceID:     rec.DeviceID,
		EntityID:     rec.RepresentativeEntityID,
		Name:         rec.DisplayName,
		Area:         rec.AreaName,
		BatteryLevel: *rec.BatteryLevel,
	}
}

func infoEntry(rec DeviceRecord) InfoEntry {
	return InfoEntry{
		DeviceID: rec.DeviceID,
		EntityID: rec.RepresentativeEntityID,
		Name:     rec.DisplayName,
		Area:     rec.AreaName,
	}
}

// sortBatteryEntries orders threshold lists by battery level ascending,
// then case-insensitive name, then case-insensitive area (empty first),
// then device ID. The comparison is total: distinct devices never compare
// equal because the device ID breaks any remaining tie.
func sortBatteryEntries(entries []BatteryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BatteryLevel != b.BatteryLevel {
			return a.BatteryLevel < b.BatteryLevel
		}
		return lessNameAreaID(a.Name, a.Area, a.DeviceID, b.Name, b.Area, b.DeviceID)
	})
}

// sortInfoEntries orders info lists by case-insensitive name, then
// case-insensitive area (empty first), then device ID.
func sortInfoEntries(entries []InfoEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		return lessNameAreaID(a.Name, a.Area, a.DeviceID, b.Name, b.Area, b.DeviceID)
	})
}

func lessNameAreaID(aName, aArea, aID, bName, bArea, bID string) bool {
	an, bn := strings.ToLower(aName), strings.ToLower(bName)
	if an != bn {
		return an < bn
	}
	aa, ba := strings.ToLower(aArea), strings.ToLower(bArea)
	if aa != ba {
		return aa < ba // empty string naturally sorts first
	}
	return aID < bID
}
