// Package template holds the named bundles of visual configuration the
// renderer consumes. Templates are read-only once loaded; a registry is a
// plain value composed by the caller and safe for concurrent reads.
package template

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultID is the built-in fallback template. It is always present, so
// template lookup never fails the caller.
const DefaultID = "modern_blue"

// Font describes one font role: a core family name, a style string ("", "B",
// "I", "BI") and a size in points.
type Font struct {
	Family string  `yaml:"family"`
	Style  string  `yaml:"style"`
	Size   float64 `yaml:"size"`
}

// Template is a named bundle of visual styling parameters. Colors, Fonts and
// Spacing map semantic roles to values; Features flags optional capabilities.
type Template struct {
	ID          string             `yaml:"-"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Colors      map[string]string  `yaml:"colors"`
	Fonts       map[string]Font    `yaml:"fonts"`
	Spacing     map[string]float64 `yaml:"spacing"`
	Features    []string           `yaml:"features"`
}

// Color returns the hex value for a role, or fallback when the template does
// not define it.
func (t Template) Color(role, fallback string) string {
	if v, ok := t.Colors[role]; ok && v != "" {
		return v
	}
	return fallback
}

// Font returns the font for a role, or fallback when undefined.
func (t Template) Font(role string, fallback Font) Font {
	f, ok := t.Fonts[role]
	if !ok {
		return fallback
	}
	if f.Family == "" {
		f.Family = fallback.Family
	}
	if f.Size <= 0 {
		f.Size = fallback.Size
	}
	return f
}

// Space returns the spacing value for a role, or fallback when undefined.
func (t Template) Space(role string, fallback float64) float64 {
	if v, ok := t.Spacing[role]; ok && v > 0 {
		return v
	}
	return fallback
}

// HasFeature reports whether a capability flag is set.
func (t Template) HasFeature(name string) bool {
	for _, f := range t.Features {
		if f == name {
			return true
		}
	}
	return false
}

// LoadError reports a template source that exists but cannot be parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load templates from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// registryFile is the on-disk shape: a top-level "templates" mapping keyed by
// template id.
type registryFile struct {
	Templates map[string]Template `yaml:"templates"`
}

// Registry is an in-memory collection of templates keyed by id. The zero
// value is not usable; construct with NewRegistry or Load.
type Registry struct {
	templates map[string]Template
	defaultID string
}

// NewRegistry returns a registry holding only the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{
		templates: make(map[string]Template),
		defaultID: DefaultID,
	}
	for id, tpl := range builtinTemplates() {
		tpl.ID = id
		r.templates[id] = tpl
	}
	return r
}

// Load builds a registry from the built-ins layered with the entries in the
// given configuration file. A missing file is not an error: the built-in
// default always makes the registry usable. A file that exists but cannot be
// parsed yields a *LoadError.
func Load(path string) (*Registry, error) {
	r := NewRegistry()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	for id, tpl := range file.Templates {
		tpl.ID = id
		r.templates[id] = tpl
	}
	return r, nil
}

// Get returns the template for id. An unknown id degrades to the default
// template with a diagnostic; lookup never fails the caller.
func (r *Registry) Get(id string) Template {
	if tpl, ok := r.templates[id]; ok {
		return tpl
	}
	log.Printf("template %q not found, using default %q", id, r.defaultID)
	return r.templates[r.defaultID]
}

// Has reports whether id is defined.
func (r *Registry) Has(id string) bool {
	_, ok := r.templates[id]
	return ok
}

// Validate reports whether the template defines all three required sections:
// colors, fonts and spacing. It screens out malformed templates before use;
// it is not a guarantee of visual correctness.
func (r *Registry) Validate(id string) bool {
	tpl, ok := r.templates[id]
	if !ok {
		return false
	}
	for section, missing := range map[string]bool{
		"colors":  len(tpl.Colors) == 0,
		"fonts":   len(tpl.Fonts) == 0,
		"spacing": len(tpl.Spacing) == 0,
	} {
		if missing {
			log.Printf("template %q missing %q section", id, section)
			return false
		}
	}
	return true
}

// Merge additively imports another registry's entries, overwriting on id
// collision. Used to layer user-supplied templates over built-ins.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for id, tpl := range other.templates {
		r.templates[id] = tpl
	}
}

// List returns all templates sorted by id.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.templates))
	for _, tpl := range r.templates {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of defined templates.
func (r *Registry) Len() int {
	return len(r.templates)
}
