package typegen

import (
	"sort"
	"strings"

	"github.com/teranos/bspecgen/errors"
)

// Registry holds the available generators by language
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a registry of gens
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{generators: make(map[string]Generator, len(gens))}
	for _, g := range gens {
		r.generators[g.Language()] = g
	}
	return r
}

// Get returns the generator for language
func (r *Registry) Get(language string) (Generator, error) {
	g, ok := r.generators[language]
	if !ok {
		return nil, errors.WithHintf(
			errors.Mark(errors.Newf("unknown target %q", language), errors.ErrUnknownTarget),
			"supported targets: %s", strings.Join(r.Languages(), ", "))
	}
	return g, nil
}

// Languages returns the registered languages, sorted
func (r *Registry) Languages() []string {
	out := make([]string, 0, len(r.generators))
	for lang := range r.generators {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
