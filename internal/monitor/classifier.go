package monitor

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/battery-monitor-core/internal/registry"
)

// batteryAttributes are the recognised battery-level attribute keys,
// tried in priority order. Case-sensitive: some integrations capitalise.
var batteryAttributes = []string{
	"battery_level", // host platform standard
	"battery",       // common in Zigbee devices
	"Battery",       // some integrations capitalise
}

// nonPhysicalDomains are entity domains that never represent a physical
// battery, even when the entity name contains "battery".
var nonPhysicalDomains = map[string]struct{}{
	"automation": {},
	"scene":      {},
	"script":     {},
	Domain:       {},
}

// Classify decides whether an entity represents a battery reading.
//
// Decision order, first match wins:
//  1. Entities owned by the monitor itself are rejected (no self-reference).
//  2. Entities in non-physical domains are rejected.
//  3. A recognised battery attribute with a parseable value is accepted;
//     values outside 0..100 are kept but marked unreadable. Attribute keys
//     present without any parseable value also count as battery-bearing.
//  4. Entities whose ID contains "battery" are accepted heuristically,
//     using the state value when it parses to 0..100.
//
// Classify is pure and never fails; unreadable data degrades to a nil
// level, not an error.
func Classify(e registry.EntityReading) (ClassifiedBattery, bool) {
	if e.Integration == Domain {
		return ClassifiedBattery{}, false
	}
	if _, ok := nonPhysicalDomains[e.Domain()]; ok {
		return ClassifiedBattery{}, false
	}

	attrPresent := false
	for _, key := range batteryAttributes {
		v, ok := e.Attributes[key]
		if !ok {
			continue
		}
		attrPresent = true
		n, ok := parseNumber(v)
		if !ok {
			continue
		}
		return ClassifiedBattery{
			EntityID:     e.EntityID,
			Level:        levelInRange(n),
			Source:       SourceAttribute,
			FriendlyName: e.FriendlyName(),
		}, true
	}
	if attrPresent {
		// Battery attribute exists but the value is unreadable
		// (unavailable, unknown, non-numeric). The device still
		// surfaces, just without a level.
		return ClassifiedBattery{
			EntityID:     e.EntityID,
			Source:       SourceAttribute,
			FriendlyName: e.FriendlyName(),
		}, true
	}

	if strings.Contains(strings.ToLower(e.EntityID), "battery") {
		c := ClassifiedBattery{
			EntityID:     e.EntityID,
			Source:       SourceHeuristic,
			FriendlyName: e.FriendlyName(),
		}
		if n, ok := parseNumber(e.Value); ok {
			c.Level = levelInRange(n)
		}
		return c, true
	}

	return ClassifiedBattery{}, false
}

// levelInRange converts a parsed number to a battery level.
// Out-of-range values are treated as unreadable (nil), not rejected.
// NaN slips past plain range comparisons, so it is checked explicitly.
func levelInRange(n float64) *int {
	if math.IsNaN(n) || n < 0 || n > 100 {
		return nil
	}
	lvl := int(math.Round(n))
	return &lvl
}

// parseNumber extracts a float from the loosely typed values the host
// platform reports: native numbers, json.Number, or numeric strings.
func parseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
