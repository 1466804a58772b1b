// Package modules holds the read-only registry of dashboard module templates.
// Templates are baked into the binary from templates.yaml and never change at
// runtime.
package modules

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Type tags a module that can be dropped into the workspace.
type Type string

const (
	Timeline      Type = "timeline"
	Abnormalities Type = "abnormalities"
	SOAP          Type = "soap"
	BodyMap       Type = "bodymap"
	HP            Type = "hp"
	Labs          Type = "labs"
)

// FallbackTitle and FallbackContent make up the template returned for an
// unknown module type.
const (
	FallbackTitle   = "New Module"
	FallbackContent = "Content loading..."
)

// CardTemplate is the static title and markdown body of a module card.
type CardTemplate struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Module describes a source-list entry.
type Module struct {
	CardTemplate `yaml:",inline"`

	Type        Type   `yaml:"type"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

//go:embed templates.yaml
var templatesYAML []byte

type templateFile struct {
	Modules []Module `yaml:"modules"`
}

// Registry maps module types to templates.
type Registry struct {
	modules []Module
	byType  map[Type]Module
}

// Parse builds a registry from YAML data in the templates.yaml layout.
func Parse(data []byte) (*Registry, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse module templates: %w", err)
	}

	r := &Registry{byType: make(map[Type]Module, len(f.Modules))}
	for _, m := range f.Modules {
		if m.Type == "" || m.Title == "" {
			return nil, fmt.Errorf("module template missing type or title: %+v", m)
		}
		if _, dup := r.byType[m.Type]; dup {
			return nil, fmt.Errorf("duplicate module template %q", m.Type)
		}
		m.Content = strings.TrimSpace(m.Content)
		r.modules = append(r.modules, m)
		r.byType[m.Type] = m
	}
	return r, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry built from the embedded templates.
// The embedded file is part of the build, so a parse failure is a programming
// error and panics.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(templatesYAML)
		if err != nil {
			panic(err)
		}
		defaultReg = r
	})
	return defaultReg
}

// Lookup returns the template for t, or the "New Module" fallback.
func (r *Registry) Lookup(t Type) CardTemplate {
	if m, ok := r.byType[t]; ok {
		return m.CardTemplate
	}
	return CardTemplate{Title: FallbackTitle, Content: FallbackContent}
}

// Has reports whether t is registered.
func (r *Registry) Has(t Type) bool {
	_, ok := r.byType[t]
	return ok
}

// Module returns the source-list descriptor for t.
func (r *Registry) Module(t Type) (Module, bool) {
	m, ok := r.byType[t]
	return m, ok
}

// Modules returns the registered modules in source-list order.
func (r *Registry) Modules() []Module {
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Types returns the registered module types in source-list order.
func (r *Registry) Types() []Type {
	out := make([]Type, len(r.modules))
	for i, m := range r.modules {
		out[i] = m.Type
	}
	return out
}

// ParseType normalises a user-supplied tag. Unknown tags are returned as-is so
// that lookups fall back instead of failing.
func ParseType(s string) Type {
	return Type(strings.ToLower(strings.TrimSpace(s)))
}
