package monitor

import (
	"fmt"
	"strings"
)

// FormatLowBattery renders devices_below_threshold as newline-joined
// "name (area) - level%" lines, omitting " (area)" when the area is
// empty. Pure function of the snapshot; safe to call synchronously.
func (s *Snapshot) FormatLowBattery() string {
	lines := make([]string, 0, len(s.DevicesBelowThreshold))
	for _, d := range s.DevicesBelowThreshold {
		if d.Area != "" {
			lines = append(lines, fmt.Sprintf("%s (%s) - %d%%", d.Name, d.Area, d.BatteryLevel))
		} else {
			lines = append(lines, fmt.Sprintf("%s - %d%%", d.Name, d.BatteryLevel))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatWithoutBatteryInfo renders devices_without_battery_info as
// newline-joined "name (area)" lines, omitting " (area)" when empty.
func (s *Snapshot) FormatWithoutBatteryInfo() string {
	lines := make([]string, 0, len(s.DevicesWithoutBatteryInfo))
	for _, d := range s.DevicesWithoutBatteryInfo {
		if d.Area != "" {
			lines = append(lines, fmt.Sprintf("%s (%s)", d.Name, d.Area))
		} else {
			lines = append(lines, d.Name)
		}
	}
	return strings.Join(lines, "\n")
}
