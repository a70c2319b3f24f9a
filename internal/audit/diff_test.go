package audit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeReturnsNilForIdenticalSnapshots(t *testing.T) {
	snapshot := map[string]any{
		"full_name": "Abel Girma",
		"phone":     "+251911000000",
		"church_id": uint(3),
		"notes":     nil,
	}

	require.Nil(t, Compute(snapshot, snapshot))
}

func TestComputeSingleChangedKey(t *testing.T) {
	before := map[string]any{"full_name": "A", "phone": "123"}
	after := map[string]any{"full_name": "B", "phone": "123"}

	diff := Compute(before, after)
	require.NotNil(t, diff)
	require.Equal(t, map[string]any{"full_name": "A"}, diff.Old)
	require.Equal(t, map[string]any{"full_name": "B"}, diff.New)
}

func TestComputeKeySetsMatchChangedSubset(t *testing.T) {
	before := map[string]any{"name": "Lideta", "address": "Addis Ababa", "capacity": 120}
	after := map[string]any{"name": "Lideta", "address": "Adama", "capacity": 300}

	diff := Compute(before, after)
	require.NotNil(t, diff)
	require.Len(t, diff.Old, 2)
	require.Len(t, diff.New, 2)
	require.Contains(t, diff.Old, "address")
	require.Contains(t, diff.Old, "capacity")
	require.NotContains(t, diff.Old, "name")
}

func TestComputeMissingKeyBecomesNil(t *testing.T) {
	before := map[string]any{"name": "Kolfe"}
	after := map[string]any{"name": "Kolfe", "address": "Addis Ababa"}

	diff := Compute(before, after)
	require.NotNil(t, diff)
	require.Equal(t, map[string]any{"address": nil}, diff.Old)
	require.Equal(t, map[string]any{"address": "Addis Ababa"}, diff.New)
}

func TestComputeNilAndEmptyStringAreDistinctValues(t *testing.T) {
	before := map[string]any{"notes": nil}
	after := map[string]any{"notes": ""}

	diff := Compute(before, after)
	require.NotNil(t, diff)
	require.Equal(t, map[string]any{"notes": nil}, diff.Old)
	require.Equal(t, map[string]any{"notes": ""}, diff.New)
}

func TestComputeDoesNotTrimWhitespace(t *testing.T) {
	before := map[string]any{"full_name": "Abel"}
	after := map[string]any{"full_name": " Abel "}

	require.NotNil(t, Compute(before, after))
}

func TestChangesRendersGranularShape(t *testing.T) {
	diff := Compute(
		map[string]any{"role": "servant"},
		map[string]any{"role": "pastor"},
	)
	require.NotNil(t, diff)

	changes := diff.Changes()
	require.Equal(t, map[string]any{
		"role": map[string]any{"old": "servant", "new": "pastor"},
	}, changes)
	require.Equal(t, ShapeGranular, Classify(changes))
}

func TestChangesOnNilDiff(t *testing.T) {
	var diff *Diff
	require.Nil(t, diff.Changes())
}
