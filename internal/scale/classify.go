package scale

import "strings"

// Action is the drawing operation a free-text instruction refers to.
type Action string

const (
	// ActionScale is "<root> <template>", e.g. "e natural-minor".
	ActionScale Action = "scale"
	// ActionPlaceNotes is a list of string:note pairs, e.g. "6:e2 5:a2".
	ActionPlaceNotes Action = "placeNotes"
	// ActionAddNotes is a bare note list, e.g. "c e g".
	ActionAddNotes Action = "addNotes"
)

// Classify decides which operation instruction refers to. The rules apply in
// order:
//
//  1. exactly two space-separated sections and the second names a template
//  2. the first section has a ':' after its first character
//  3. anything else
//
// Classify never fails; input matching no intended shape falls through to
// ActionAddNotes and is rejected later when its notes are parsed.
func (r *Registry) Classify(instruction string) Action {
	sections := strings.Split(instruction, " ")
	if len(sections) == 2 && r.Has(sections[1]) {
		return ActionScale
	}
	if strings.Index(sections[0], ":") > 0 {
		return ActionPlaceNotes
	}
	return ActionAddNotes
}
