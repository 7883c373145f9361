package plants

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlantName(t *testing.T) {
	a, b := NewPlant(), NewPlant()
	assert.True(t, strings.HasPrefix(a.Name, "PLANT-"))
	assert.Len(t, a.Name, len("PLANT-")+16)
	assert.NotEqual(t, a.Name, b.Name)
}

func TestPlantRows(t *testing.T) {
	p := &Plant{Name: "P1"}
	p.AddActive(ActiveEquipment{Name: "keep-id", SerialNumber: "A"}, ActiveEquipment{SerialNumber: "B"})
	p.AddHistory(HistoryEquipment{SerialNumber: "C"})

	require.Len(t, p.Active, 2)
	assert.Equal(t, "keep-id", p.Active[0].Name)
	assert.NotEmpty(t, p.Active[1].Name)
	assert.Equal(t, "P1", p.History[0].Parent)

	assert.True(t, p.HasActive("B"))
	assert.False(t, p.HasActive("C"))
	assert.True(t, p.HasHistory("C"))

	assert.True(t, p.RemoveActive("keep-id"))
	assert.False(t, p.RemoveActive("keep-id"))
	assert.Equal(t, 1, p.Active[0].Idx)

	assert.True(t, p.RemoveHistory(p.History[0].Name))
	assert.Empty(t, p.History)
}

func TestPlantOverlap(t *testing.T) {
	p := plantWith("P1", "1",
		[]ActiveEquipment{{SerialNumber: "A"}, {SerialNumber: "B"}, {}},
		[]HistoryEquipment{{SerialNumber: "B"}, {}})
	assert.Equal(t, []string{"B"}, p.Overlap())
}

func TestPlantInfoEmpty(t *testing.T) {
	assert.True(t, PlantInfo{}.Empty())
	assert.True(t, PlantInfo{PlantID: "  ", PlantName: "x"}.Empty())
	assert.False(t, PlantInfo{PlantID: "1"}.Empty())
}

func TestChangeSummaryString(t *testing.T) {
	tests := []struct {
		sum  ChangeSummary
		want string
	}{
		{ChangeSummary{}, "No changes detected in equipment"},
		{ChangeSummary{Added: 2}, "Equipment sync completed: 2 new equipment added"},
		{
			ChangeSummary{Added: 1, Updated: 2, MovedToHistory: 3, RestoredFromHistory: 4},
			"Equipment sync completed: 1 new equipment added, 2 equipment updated, 3 equipment moved to history, 4 equipment restored from history",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.sum.String())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("boom"), KindUnknown},
		{fmt.Errorf("wrap: %w", ErrValidation), KindValidation},
		{fmt.Errorf("wrap: %w", ErrNotFound), KindNotFound},
		{&DuplicateError{PlantID: "1", Existing: "P1"}, KindDuplicate},
		{consistencyf("bad %s", "row"), KindConsistency},
		{external("update plant", errors.New("conn reset")), KindExternal},
		{fmt.Errorf("%w: P1", ErrBusy), KindBusy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestDuplicateError(t *testing.T) {
	var err error = &DuplicateError{PlantID: "9001", Existing: "PLANT-X", Redirected: true}
	assert.ErrorIs(t, err, ErrDuplicate)

	var dup *DuplicateError
	require.ErrorAs(t, fmt.Errorf("create: %w", err), &dup)
	assert.Equal(t, "PLANT-X", dup.Existing)
	assert.Contains(t, err.Error(), "PLANT-X")
}
