package monitor

import (
	"context"
	"sort"

	"github.com/nerrad567/battery-monitor-core/internal/registry"
)

// Resolver maps classified battery entities to their owning devices and
// merges multiple battery entities per device into one record.
//
// Merge rules:
//   - Any readable level beats unreadable: the merged level is the
//     minimum (worst) among readable levels.
//   - A device is unreadable only when every contributing entity is.
//
// Devices owned by the monitor's own integration are dropped entirely,
// independently of the per-entity filter in Classify. Registry lookup
// failures degrade: entities fall back to synthetic standalone devices
// and friendly names rather than failing the scan.
type Resolver struct {
	reader registry.Reader
	logger Logger
}

// NewResolver creates a resolver backed by the given registry reader.
func NewResolver(reader registry.Reader, logger Logger) *Resolver {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Resolver{reader: reader, logger: logger}
}

// group accumulates contributing entities for one resolved device key.
type group struct {
	synthetic bool
	entities  []ClassifiedBattery
}

// Resolve groups classified entities by owning device and produces one
// DeviceRecord per device. Output order is unspecified; ordering is the
// aggregation engine's responsibility.
func (r *Resolver) Resolve(ctx context.Context, classified []ClassifiedBattery) []DeviceRecord {
	groups := make(map[string]*group)
	dropped := make(map[string]bool) // device IDs owned by our own integration
	var order []string               // deterministic iteration over groups

	for _, c := range classified {
		deviceID, owned, err := r.reader.OwningDevice(ctx, c.EntityID)
		if err != nil {
			r.logger.Debug("owning device lookup failed", "entity_id", c.EntityID, "error", err)
			owned = false
		}

		key := c.EntityID
		synthetic := true
		if owned {
			key = deviceID
			synthetic = false

			if _, seen := dropped[key]; !seen {
				integration, ierr := r.reader.OwningIntegration(ctx, deviceID)
				if ierr != nil {
					r.logger.Debug("owning integration lookup failed", "device_id", deviceID, "error", ierr)
				}
				dropped[key] = integration == Domain
			}
			if dropped[key] {
				continue
			}
		}

		g, ok := groups[key]
		if !ok {
			g = &group{synthetic: synthetic}
			groups[key] = g
			order = append(order, key)
		}
		g.entities = append(g.entities, c)
	}

	records := make([]DeviceRecord, 0, len(groups))
	for _, key := range order {
		records = append(records, r.buildRecord(ctx, key, groups[key]))
	}
	return records
}

// buildRecord merges one group's entities and resolves name and area.
func (r *Resolver) buildRecord(ctx context.Context, key string, g *group) DeviceRecord {
	rec := DeviceRecord{DeviceID: key}

	// Merge: minimum readable level wins; ties on the lower entity ID
	// keep the representative deterministic across scans.
	var representative *ClassifiedBattery
	for i := range g.entities {
		e := &g.entities[i]
		rec.EntityIDs = append(rec.EntityIDs, e.EntityID)
		if e.Level == nil {
			continue
		}
		if rec.BatteryLevel == nil || *e.Level < *rec.BatteryLevel ||
			(*e.Level == *rec.BatteryLevel && e.EntityID < representative.EntityID) {
			lvl := *e.Level
			rec.BatteryLevel = &lvl
			representative = e
		}
	}
	sort.Strings(rec.EntityIDs)
	if representative != nil {
		rec.RepresentativeEntityID = representative.EntityID
	} else {
		rec.RepresentativeEntityID = rec.EntityIDs[0]
	}

	// Display name: device registry name, falling back to the
	// representative entity's friendly name (always for synthetic devices).
	fallback := g.entities[0].FriendlyName
	for i := range g.entities {
		if g.entities[i].EntityID == rec.RepresentativeEntityID {
			fallback = g.entities[i].FriendlyName
		}
	}
	rec.DisplayName = fallback

	if !g.synthetic {
		name, err := r.reader.DeviceDisplayName(ctx, key)
		if err != nil {
			r.logger.Debug("device name lookup failed", "device_id", key, "error", err)
		} else if name != "" {
			rec.DisplayName = name
		}

		area, ok, err := r.reader.DeviceArea(ctx, key)
		if err != nil {
			r.logger.Debug("device area lookup failed", "device_id", key, "error", err)
		} else if ok {
			rec.AreaName = area
		}
	}

	return rec
}
