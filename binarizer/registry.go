package binarizer

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	pdf417go "github.com/ericlevine/pdf417go"
)

// Factory builds a binarizer over a luminance source.
type Factory func(source pdf417go.LuminanceSource) pdf417go.Binarizer

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		"midrange": func(source pdf417go.LuminanceSource) pdf417go.Binarizer { return NewMidRange(source) },
		"hybrid":   func(source pdf417go.LuminanceSource) pdf417go.Binarizer { return NewHybrid(source) },
	}
)

// Default is the binarizer used when none is configured.
const Default = "midrange"

// Register adds or replaces a named binarizer. It is safe for concurrent use
// with Lookup and Names.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[strings.ToLower(name)] = factory
}

// Lookup returns the binarizer registered under name.
func Lookup(name string) (Factory, error) {
	factoriesMu.RLock()
	factory, ok := factories[strings.ToLower(name)]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown binarizer %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return factory, nil
}

// Names lists the registered binarizers in sorted order.
func Names() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
