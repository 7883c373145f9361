package plants

import "strings"

// FieldUpdate changes model and status of an active row in place.
type FieldUpdate struct {
	RowID        string
	SerialNumber string
	Model        string
	Status       string
}

// Restore moves a serial from history back to active.
type Restore struct {
	HistoryRows []HistoryEquipment
	Row         ActiveEquipment
}

// Plan is the set of changes that brings a plant in line with a snapshot.
type Plan struct {
	ToAdd     []ActiveEquipment
	ToUpdate  []FieldUpdate
	ToHistory []ActiveEquipment
	ToRestore []Restore
}

func (p Plan) Summary() ChangeSummary {
	return ChangeSummary{
		Added:               len(p.ToAdd),
		Updated:             len(p.ToUpdate),
		MovedToHistory:      len(p.ToHistory),
		RestoredFromHistory: len(p.ToRestore),
	}
}

func (p Plan) Empty() bool { return p.Summary().IsZero() }

// Classify diffs the stored active and history tables against a live snapshot.
// It does not touch its inputs.
func Classify(active []ActiveEquipment, history []HistoryEquipment, snapshot []SnapshotEntry) (Plan, error) {
	activeBy := make(map[string]ActiveEquipment, len(active))
	for _, r := range active {
		if r.SerialNumber == "" {
			continue
		}
		activeBy[r.SerialNumber] = r
	}
	historyBy := make(map[string][]HistoryEquipment, len(history))
	for _, r := range history {
		if r.SerialNumber == "" {
			continue
		}
		historyBy[r.SerialNumber] = append(historyBy[r.SerialNumber], r)
	}

	// first occurrence fixes the order, the last one wins
	var order []string
	snap := make(map[string]SnapshotEntry, len(snapshot))
	for _, e := range snapshot {
		if e.SerialNumber == "" {
			continue
		}
		if _, seen := snap[e.SerialNumber]; !seen {
			order = append(order, e.SerialNumber)
		}
		snap[e.SerialNumber] = e
	}

	var plan Plan
	for _, serial := range order {
		e := snap[serial]
		if cur, ok := activeBy[serial]; ok {
			if strings.TrimSpace(e.Status) == "" {
				return Plan{}, consistencyf("active equipment %q reported without status", serial)
			}
			model := e.DeviceModel
			if model == "" {
				model = cur.Model
			}
			if model != cur.Model || e.Status != cur.Status {
				plan.ToUpdate = append(plan.ToUpdate, FieldUpdate{
					RowID:        cur.Name,
					SerialNumber: serial,
					Model:        model,
					Status:       e.Status,
				})
			}
			continue
		}
		if rows := historyBy[serial]; len(rows) > 0 {
			last := rows[len(rows)-1]
			plan.ToRestore = append(plan.ToRestore, Restore{
				HistoryRows: rows,
				Row: ActiveEquipment{
					SerialNumber: serial,
					Model:        e.DeviceModel,
					DataloggerSN: last.DataloggerSN,
					Status:       e.Status,
				},
			})
			continue
		}
		plan.ToAdd = append(plan.ToAdd, ActiveEquipment{
			SerialNumber: serial,
			Model:        e.DeviceModel,
			Status:       e.Status,
		})
	}

	for _, r := range active {
		if r.SerialNumber == "" {
			continue
		}
		if _, ok := snap[r.SerialNumber]; !ok {
			plan.ToHistory = append(plan.ToHistory, r)
		}
	}
	return plan, nil
}
