package wizard

import (
	"github.com/forge-cli/forge/internal/field"
	"github.com/forge-cli/forge/internal/stage"
)

// Draft accumulates committed stage values as the wizard progresses. An
// entry exists for a stage only after all of its fields passed validation
// and the stage-level check succeeded; values are always post-validation
// typed values, never raw input.
type Draft map[stage.ID]stage.Values

// Lookup adapts the draft to the field package's Lookup contract used by
// default derivation.
func (d Draft) Lookup() field.Lookup {
	return func(stageID, fieldName string) (field.Value, bool) {
		values, ok := d[stage.ID(stageID)]
		if !ok {
			return field.Value{}, false
		}
		return values.Get(fieldName)
	}
}

// Has reports whether the draft holds a committed entry for id.
func (d Draft) Has(id stage.ID) bool {
	_, ok := d[id]
	return ok
}

// str returns the string form of a draft value, or "" when absent.
func (d Draft) str(id stage.ID, name string) string {
	if values, ok := d[id]; ok {
		if v, ok := values.Get(name); ok {
			return v.String()
		}
	}
	return ""
}

// num returns the numeric draft value, or 0 when absent.
func (d Draft) num(id stage.ID, name string) int {
	if values, ok := d[id]; ok {
		if v, ok := values.Get(name); ok {
			return v.Number()
		}
	}
	return 0
}

// boolean returns the boolean draft value, or false when absent.
func (d Draft) boolean(id stage.ID, name string) bool {
	if values, ok := d[id]; ok {
		if v, ok := values.Get(name); ok {
			return v.Bool()
		}
	}
	return false
}
