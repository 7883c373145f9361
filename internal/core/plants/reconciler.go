package plants

import (
	"context"

	"github.com/rs/zerolog"
)

// Reconciler converges a plant's active and history tables to a live snapshot.
type Reconciler struct {
	store Store
	lg    zerolog.Logger
}

func NewReconciler(store Store, lg zerolog.Logger) *Reconciler {
	return &Reconciler{
		store: store,
		lg:    lg.With().Str("component", "reconciler").Logger(),
	}
}

// Reconcile classifies the snapshot against plant, applies the plan and saves the plant
// when anything changed.
func (r *Reconciler) Reconcile(ctx context.Context, plant *Plant, snapshot []SnapshotEntry) (ChangeSummary, error) {
	plan, err := Classify(plant.Active, plant.History, snapshot)
	if err != nil {
		return ChangeSummary{}, err
	}
	sum := plan.Summary()
	r.lg.Debug().Str("plant", plant.Name).
		Int("add", sum.Added).
		Int("update", sum.Updated).
		Int("to_history", sum.MovedToHistory).
		Int("restore", sum.RestoredFromHistory).
		Msg("plan")

	if plan.Empty() {
		return sum, nil
	}
	Apply(plant, plan)
	if both := plant.Overlap(); len(both) > 0 {
		r.lg.Warn().Str("plant", plant.Name).Strs("serials", both).Msg("serials both active and in history")
	}
	if err := r.store.SavePlant(ctx, plant); err != nil {
		return sum, external("save plant", err)
	}
	return sum, nil
}

// Apply mutates plant according to plan and reports whether it changed.
// Order: history removals, active additions, demotions, then field updates.
func Apply(plant *Plant, plan Plan) bool {
	changed := false

	for _, rs := range plan.ToRestore {
		for _, h := range rs.HistoryRows {
			plant.RemoveHistory(h.Name)
		}
	}

	adds := make([]ActiveEquipment, 0, len(plan.ToAdd)+len(plan.ToRestore))
	adds = append(adds, plan.ToAdd...)
	for _, rs := range plan.ToRestore {
		adds = append(adds, rs.Row)
	}
	if len(adds) > 0 {
		plant.AddActive(adds...)
		changed = true
	}

	if len(plan.ToHistory) > 0 {
		var rows []HistoryEquipment
		queued := make(map[string]bool, len(plan.ToHistory))
		for _, a := range plan.ToHistory {
			if queued[a.SerialNumber] || plant.HasHistory(a.SerialNumber) {
				continue
			}
			queued[a.SerialNumber] = true
			rows = append(rows, toHistory(a))
		}
		plant.AddHistory(rows...)
		for _, a := range plan.ToHistory {
			plant.RemoveActive(a.Name)
		}
		changed = true
	}

	if len(plan.ToUpdate) > 0 {
		for _, u := range plan.ToUpdate {
			for i := range plant.Active {
				if plant.Active[i].Name == u.RowID {
					plant.Active[i].Model = u.Model
					plant.Active[i].Status = u.Status
				}
			}
		}
		changed = true
	}
	return changed
}
