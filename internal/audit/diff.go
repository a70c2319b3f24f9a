package audit

import "reflect"

// Diff is a minimal field-level delta between two flat snapshots of an
// entity. Old and New carry exactly the changed keys and nothing else, which
// callers rely on to build minimal update payloads from New.
type Diff struct {
	Old map[string]any `json:"old"`
	New map[string]any `json:"new"`
}

// Compute compares two flat snapshots and returns the changed keys, or nil
// when nothing differs. A nil result is the "no changes" signal: callers must
// skip both the mutation and the activity record.
//
// Keys present in only one snapshot are treated as present-with-nil on the
// other side. Nil and empty string are ordinary values; no trimming happens
// here, callers normalise before comparing.
func Compute(before, after map[string]any) *Diff {
	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	diff := &Diff{
		Old: make(map[string]any),
		New: make(map[string]any),
	}
	for k := range keys {
		oldValue := before[k]
		newValue := after[k]
		if equalValues(oldValue, newValue) {
			continue
		}
		diff.Old[k] = oldValue
		diff.New[k] = newValue
	}

	if len(diff.Old) == 0 {
		return nil
	}
	return diff
}

// Changes renders the diff as the granular per-field payload stored on an
// activity row: {field: {old, new}}.
func (d *Diff) Changes() map[string]any {
	if d == nil {
		return nil
	}
	changes := make(map[string]any, len(d.Old))
	for k, oldValue := range d.Old {
		changes[k] = map[string]any{"old": oldValue, "new": d.New[k]}
	}
	return changes
}

// Snapshots are flat: scalars, date strings and the occasional slice treated
// as an opaque blob. DeepEqual covers all of those without recursing into
// anything the diff contract cares about.
func equalValues(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	return reflect.DeepEqual(a, b)
}
