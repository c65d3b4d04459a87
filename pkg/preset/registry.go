package preset

import (
	"slices"
	"sync"

	"github.com/animalet/sargantana-env/pkg/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Registry maps preset names to presets. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewRegistry returns a registry holding the given presets.
func NewRegistry(presets ...Preset) *Registry {
	r := &Registry{presets: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		r.presets[p.Name] = p
	}
	return r
}

// Standard returns a new registry with the common, database, aws and auth presets.
func Standard() *Registry {
	return NewRegistry(Common, Database, AWS, Auth)
}

// Register adds p, replacing (with a warning) any preset with the same name.
func (r *Registry) Register(p Preset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.presets[p.Name]; exists {
		log.Warn().Msgf("Overriding existing preset %q", p.Name)
	}
	r.presets[p.Name] = p
}

// Lookup returns the preset registered under name.
func (r *Registry) Lookup(name string) (Preset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[name]
	return p, ok
}

// Names returns the registered preset names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Compose looks up the named presets and composes them in the given order.
func (r *Registry) Compose(names ...string) (*schema.Schema, error) {
	presets := make([]Preset, 0, len(names))
	for _, name := range names {
		p, ok := r.Lookup(name)
		if !ok {
			return nil, errors.Errorf("no preset registered as %q", name)
		}
		presets = append(presets, p)
	}
	return Compose(presets...), nil
}
