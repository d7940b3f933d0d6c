package imageio

import (
	"fmt"
	"sort"
	"sync"
)

// ImporterFactory creates a new importer instance.
// Factories are registered via RegisterImporter and called by LoadImporter.
type ImporterFactory func() Importer

// ConverterFactory creates a new converter instance.
type ConverterFactory func() Converter

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	importers  = make(map[string]ImporterFactory)
	converters = make(map[string]ConverterFactory)
)

// RegisterImporter registers an importer factory with the given name.
// This function is typically called from init(), following the
// database/sql driver pattern:
//
//	func init() {
//	    imageio.RegisterImporter("PngImporter", func() imageio.Importer {
//	        return NewPngImporter()
//	    })
//	}
//
// RegisterImporter panics if factory is nil or the name is taken.
func RegisterImporter(name string, factory ImporterFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("imageio: RegisterImporter factory is nil")
	}
	if _, dup := importers[name]; dup {
		panic("imageio: RegisterImporter called twice for " + name)
	}
	importers[name] = factory
}

// RegisterConverter registers a converter factory with the given name.
// It panics if factory is nil or the name is taken.
func RegisterConverter(name string, factory ConverterFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("imageio: RegisterConverter factory is nil")
	}
	if _, dup := converters[name]; dup {
		panic("imageio: RegisterConverter called twice for " + name)
	}
	converters[name] = factory
}

// UnregisterImporter removes an importer. Unknown names are ignored.
// This is primarily useful for testing.
func UnregisterImporter(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(importers, name)
}

// UnregisterConverter removes a converter. Unknown names are ignored.
func UnregisterConverter(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(converters, name)
}

// LoadImporter creates a new importer instance by name.
//
// Returns an error if the importer is not registered.
// The error message includes a hint about forgotten imports.
func LoadImporter(name string) (Importer, error) {
	registryMu.RLock()
	factory, ok := importers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("imageio: unknown importer %q (forgotten import?)", name)
	}
	return factory(), nil
}

// LoadConverter creates a new converter instance by name.
func LoadConverter(name string) (Converter, error) {
	registryMu.RLock()
	factory, ok := converters[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("imageio: unknown converter %q (forgotten import?)", name)
	}
	return factory(), nil
}

// Importers returns a sorted list of registered importer names.
func Importers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(importers)
}

// Converters returns a sorted list of registered converter names.
func Converters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(converters)
}

func sortedKeys[F any](m map[string]F) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
