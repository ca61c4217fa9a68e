package monitor

// PartitionExcluded splits device records into kept and excluded sets by
// pure device-ID membership. Excluded IDs naming devices absent from
// records are silently ignored: stale configuration never errors, so the
// aggregation engine downstream never validates configuration against
// live registry state.
func PartitionExcluded(records []DeviceRecord, excludedIDs []string) (kept, excluded []DeviceRecord) {
	if len(excludedIDs) == 0 {
		return records, nil
	}

	excludedSet := make(map[string]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excludedSet[id] = struct{}{}
	}

	kept = make([]DeviceRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := excludedSet[rec.DeviceID]; ok {
			excluded = append(excluded, rec)
		} else {
			kept = append(kept, rec)
		}
	}
	return kept, excluded
}
