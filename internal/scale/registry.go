// Package scale holds named scale and chord templates and expands them to any
// root note.
//
// Templates are written relative to c. A Registry is immutable once built and
// safe for concurrent use.
package scale

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/chase3718/fretnotes/internal/pitch"
)

var (
	// ErrUnknownScaleName is returned when a template name is not registered.
	ErrUnknownScaleName = errors.New("unknown scale name")

	// ErrInvalidTemplate is returned when a template document cannot be used.
	ErrInvalidTemplate = errors.New("invalid template")
)

// Kind is the template family.
type Kind string

const (
	KindScale Kind = "scale"
	KindChord Kind = "chord"
)

// Template is a named, ordered list of note names rooted at c.
type Template struct {
	Name  string   `json:"name" yaml:"name"`
	Kind  Kind     `json:"kind" yaml:"kind"`
	Notes []string `json:"notes" yaml:"notes"`
}

// Registry maps template names to templates, keeping definition order.
type Registry struct {
	names     []string
	templates map[string]Template
}

//go:embed templates.yaml
var builtinYAML []byte

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the built-in registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(builtinYAML)
		if err != nil {
			panic(fmt.Sprintf("scale: built-in templates: %v", err))
		}
		defaultReg = r
	})
	return defaultReg
}

type templateDoc struct {
	Name  string `yaml:"name"`
	Kind  Kind   `yaml:"kind"`
	Notes string `yaml:"notes"`
}

// Parse reads a YAML list of templates:
//
//	- name: major
//	  kind: scale
//	  notes: c d e f g a b
//
// Kind defaults to scale. Every note must be a valid note name.
func Parse(data []byte) (*Registry, error) {
	var docs []templateDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	r := &Registry{templates: make(map[string]Template, len(docs))}
	for i, d := range docs {
		t, err := d.template()
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		if _, dup := r.templates[t.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidTemplate, t.Name)
		}
		r.names = append(r.names, t.Name)
		r.templates[t.Name] = t
	}
	return r, nil
}

func (d templateDoc) template() (Template, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" || strings.ContainsAny(name, " ;:") {
		return Template{}, fmt.Errorf("%w: bad name %q", ErrInvalidTemplate, d.Name)
	}
	kind := d.Kind
	switch kind {
	case "":
		kind = KindScale
	case KindScale, KindChord:
	default:
		return Template{}, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidTemplate, name, d.Kind)
	}
	notes := strings.Fields(d.Notes)
	if len(notes) == 0 || len(notes) > 12 {
		return Template{}, fmt.Errorf("%w: %s: %d notes", ErrInvalidTemplate, name, len(notes))
	}
	for i, n := range notes {
		if _, err := pitch.PitchClassOf(n); err != nil {
			return Template{}, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, name, err)
		}
		notes[i] = strings.ToLower(n)
	}
	return Template{Name: name, Kind: kind, Notes: notes}, nil
}

// With returns a new registry holding r's templates followed by other's.
// Templates in other replace same-named templates in r, keeping r's position.
func (r *Registry) With(other *Registry) *Registry {
	out := &Registry{
		names:     append([]string(nil), r.names...),
		templates: make(map[string]Template, len(r.templates)+len(other.templates)),
	}
	for k, v := range r.templates {
		out.templates[k] = v
	}
	for _, name := range other.names {
		if _, ok := out.templates[name]; !ok {
			out.names = append(out.names, name)
		}
		out.templates[name] = other.templates[name]
	}
	return out
}

// Names returns template names in definition order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Templates returns all templates of the given kinds in definition order.
// With no kinds, every template is returned.
func (r *Registry) Templates(kinds ...Kind) []Template {
	var out []Template
	for _, name := range r.names {
		t := r.templates[name]
		if len(kinds) > 0 && !hasKind(kinds, t.Kind) {
			continue
		}
		t.Notes = append([]string(nil), t.Notes...)
		out = append(out, t)
	}
	return out
}

// Lookup returns the named template.
func (r *Registry) Lookup(name string) (Template, bool) {
	t, ok := r.templates[name]
	if !ok {
		return Template{}, false
	}
	t.Notes = append([]string(nil), t.Notes...)
	return t, true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}
