package profile

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is returned when a slug is not registered
var ErrUnknownProfile = errors.New("unknown profile")

var registry = map[string]func() *Profile{
	"remodeling_colorado": remodelingColorado,
	"precious_metals":     preciousMetals,
}

// Names returns the registered profile slugs
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a normalized, validated copy of the registered profile
func Lookup(slug string) (*Profile, error) {
	build, ok := registry[slug]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownProfile, slug, Names())
	}
	p := build()
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile reads a YAML profile from disk
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML profile document
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Resolve picks the profile file when set, otherwise the registered slug
func Resolve(slug, file string) (*Profile, error) {
	if file != "" {
		return LoadFile(file)
	}
	return Lookup(slug)
}
