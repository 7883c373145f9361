package plants

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_AddsNewEquipmentAndSaves(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	p := plantWith("P1", "100", nil, nil)
	store.put(p)

	r := NewReconciler(store, nopLogger())
	sum, err := r.Reconcile(ctx, p, []SnapshotEntry{{SerialNumber: "A", DeviceModel: "M1", Status: "online"}})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Added: 1}, sum)
	assert.Equal(t, 1, store.saves)

	saved := store.plant("P1")
	require.Len(t, saved.Active, 1)
	assert.Equal(t, "A", saved.Active[0].SerialNumber)
	assert.Equal(t, "", saved.Active[0].DataloggerSN)
}

func TestReconcile_DemotesMissingEquipment(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	p := plantWith("P1", "100", []ActiveEquipment{{SerialNumber: "A", Model: "M1", Status: "online"}}, nil)
	store.put(p)

	sum, err := NewReconciler(store, nopLogger()).Reconcile(ctx, p, nil)
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{MovedToHistory: 1}, sum)

	saved := store.plant("P1")
	assert.Empty(t, saved.Active)
	require.Len(t, saved.History, 1)
	assert.Equal(t, HistoryEquipment{
		Name:         saved.History[0].Name,
		Parent:       "P1",
		Idx:          1,
		SerialNumber: "A",
		Model:        "M1",
	}, saved.History[0])
}

func TestReconcile_NoChangesDoesNotSave(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	p := plantWith("P1", "100", []ActiveEquipment{{SerialNumber: "A", Model: "M1", Status: "online"}}, nil)
	store.put(p)

	sum, err := NewReconciler(store, nopLogger()).Reconcile(ctx, p, []SnapshotEntry{{SerialNumber: "A", DeviceModel: "M1", Status: "online"}})
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
	assert.Equal(t, "No changes detected in equipment", sum.String())
	assert.Equal(t, 0, store.saves)
}

func TestReconcile_FieldUpdateAloneSaves(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	p := plantWith("P1", "100", []ActiveEquipment{{SerialNumber: "A", Model: "M1", Status: "online"}}, nil)
	store.put(p)

	sum, err := NewReconciler(store, nopLogger()).Reconcile(ctx, p, []SnapshotEntry{{SerialNumber: "A", DeviceModel: "M1", Status: "offline"}})
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Updated: 1}, sum)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "offline", store.plant("P1").Active[0].Status)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.put(plantWith("P1", "100",
		[]ActiveEquipment{
			{SerialNumber: "A", Model: "M1", Status: "online"},
			{SerialNumber: "GONE", Model: "M1", Status: "online"},
		},
		[]HistoryEquipment{{SerialNumber: "BACK", DataloggerSN: "DL1"}}))
	snapshot := []SnapshotEntry{
		{SerialNumber: "A", DeviceModel: "M2", Status: "offline"},
		{SerialNumber: "BACK", DeviceModel: "M1", Status: "online"},
		{SerialNumber: "NEW", DeviceModel: "", Status: "online"},
	}
	r := NewReconciler(store, nopLogger())

	first, err := r.Reconcile(ctx, store.plant("P1"), snapshot)
	require.NoError(t, err)
	assert.Equal(t, ChangeSummary{Added: 1, Updated: 1, MovedToHistory: 1, RestoredFromHistory: 1}, first)

	second, err := r.Reconcile(ctx, store.plant("P1"), snapshot)
	require.NoError(t, err)
	assert.True(t, second.IsZero(), "second run: %+v", second)

	saved := store.plant("P1")
	assert.Empty(t, saved.Overlap())
	assert.ElementsMatch(t, []string{"A", "BACK", "NEW"}, activeSerials(saved))
	assert.ElementsMatch(t, []string{"GONE"}, historySerials(saved))
}

func TestReconcile_ConsistencyFaultLeavesPlantUntouched(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	p := plantWith("P1", "100", []ActiveEquipment{{SerialNumber: "A", Model: "M1", Status: "online"}}, nil)
	store.put(p)

	_, err := NewReconciler(store, nopLogger()).Reconcile(ctx, p, []SnapshotEntry{
		{SerialNumber: "NEW", DeviceModel: "M1", Status: "online"},
		{SerialNumber: "A", DeviceModel: "M1"},
	})
	require.ErrorIs(t, err, ErrConsistency)
	assert.Equal(t, 0, store.saves)
	assert.Equal(t, []string{"A"}, activeSerials(p))
}

func TestReconcile_SaveFailureIsExternal(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.failSave = errors.New("disk full")
	p := plantWith("P1", "100", nil, nil)

	_, err := NewReconciler(store, nopLogger()).Reconcile(ctx, p, []SnapshotEntry{{SerialNumber: "A", Status: "online"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExternal)
	assert.Contains(t, err.Error(), "disk full")
}
