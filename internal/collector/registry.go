package collector

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Factory builds a collector. A nil collector with a nil error means the
// collector is not configured and is skipped.
type Factory func() (Collector, error)

// Registry maps collector names to their factories
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory, replacing any previous one with the same name
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build returns the enabled collectors in the requested order
func (r *Registry) Build(enabled []string) ([]Collector, error) {
	var out []Collector
	seen := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		if seen[name] {
			continue
		}
		seen[name] = true

		f, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("unknown collector %q (known: %v)", name, r.Names())
		}
		c, err := f()
		if err != nil {
			return nil, fmt.Errorf("failed to build collector %s: %w", name, err)
		}
		if c == nil {
			logrus.Infof("Collector %s is not configured, skipping", name)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
