package scale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chase3718/fretnotes/internal/pitch"
)

// ErrMalformedInstruction is returned when a scale instruction is not of the
// form "<root> <template>".
var ErrMalformedInstruction = errors.New("malformed instruction")

// TemplateNotes returns the notes of the named template, rooted at c.
func (r *Registry) TemplateNotes(name string) ([]string, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScaleName, name)
	}
	return append([]string(nil), t.Notes...), nil
}

// Transpose shifts the named template so that it starts on root. Notes keep
// template order and use sharp spelling. Scales and chords share this path.
func (r *Registry) Transpose(root, name string) ([]string, error) {
	notes, err := r.TemplateNotes(name)
	if err != nil {
		return nil, err
	}
	offset, err := pitch.PitchClassOf(root)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}
	for i, n := range notes {
		pc, err := pitch.PitchClassOf(n)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		notes[i] = pc.Add(int(offset)).Name()
	}
	return notes, nil
}

// ParseScale splits a scale instruction such as "e natural-minor" into its
// root and template name. The template is not looked up.
func ParseScale(instruction string) (root, name string, err error) {
	sections := strings.Split(instruction, " ")
	if len(sections) != 2 || sections[0] == "" || sections[1] == "" {
		return "", "", fmt.Errorf("%w: %q is not \"<root> <template>\"", ErrMalformedInstruction, instruction)
	}
	return sections[0], sections[1], nil
}

// Expand transposes a scale instruction such as "e natural-minor".
func (r *Registry) Expand(instruction string) ([]string, error) {
	root, name, err := ParseScale(instruction)
	if err != nil {
		return nil, err
	}
	return r.Transpose(root, name)
}
