package audit

// ChangeShape tags the structural variant of a stored changes payload. Three
// shapes exist in the wild: the legacy two-sided {old, new} maps written by
// early versions, the granular per-field {field: {old, new}} shape produced
// by the diff engine, and plain contextual maps captured at creation time.
// Renderers must branch on the tag rather than assume one shape.
type ChangeShape int

const (
	// ShapePlain is a flat contextual payload with no diff semantics.
	ShapePlain ChangeShape = iota
	// ShapeLegacy is {"old": {...}, "new": {...}}.
	ShapeLegacy
	// ShapeGranular is {field: {"old": v, "new": v}} for every field.
	ShapeGranular
)

const passwordField = "password"

// String returns the wire name of the shape tag.
func (s ChangeShape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeGranular:
		return "granular"
	default:
		return "plain"
	}
}

// Classify inspects a changes payload and reports its shape.
//
// The legacy check fires when top-level "old" and "new" keys both hold maps;
// a legitimately named field called "old" holding a map can therefore be
// misclassified. That heuristic predates this implementation and is kept
// as-is so old rows keep rendering the way they always have.
func Classify(changes map[string]any) ChangeShape {
	if len(changes) == 0 {
		return ShapePlain
	}

	oldValue, hasOld := changes["old"]
	newValue, hasNew := changes["new"]
	if hasOld && hasNew {
		_, oldIsMap := oldValue.(map[string]any)
		_, newIsMap := newValue.(map[string]any)
		if oldIsMap && newIsMap {
			return ShapeLegacy
		}
	}

	for _, value := range changes {
		entry, ok := value.(map[string]any)
		if !ok || len(entry) != 2 {
			return ShapePlain
		}
		if _, ok := entry["old"]; !ok {
			return ShapePlain
		}
		if _, ok := entry["new"]; !ok {
			return ShapePlain
		}
	}
	return ShapeGranular
}

// Redact strips password material from a changes payload before it is stored
// or rendered, shape-aware so a password never leaks through any variant.
// The input map is not modified.
func Redact(changes map[string]any) map[string]any {
	if changes == nil {
		return nil
	}

	switch Classify(changes) {
	case ShapeLegacy:
		redacted := make(map[string]any, len(changes))
		for key, value := range changes {
			if side, ok := value.(map[string]any); ok && (key == "old" || key == "new") {
				redacted[key] = dropKey(side, passwordField)
				continue
			}
			redacted[key] = value
		}
		return redacted
	default:
		return dropKey(changes, passwordField)
	}
}

func dropKey(m map[string]any, key string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == key {
			continue
		}
		out[k] = v
	}
	return out
}
