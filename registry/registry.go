// Package registry maps server type names to the native classes their
// instances are materialized as.
//
// A Mapping is populated before types are described and only read afterwards.
// Lookups use the bare type name, so same-named types in different schemas
// share a class.
package registry

import (
	"sort"
	"sync"

	"github.com/cube2222/ocitdo/native"
)

// Shape is what a class gets to know about the type it is instantiating.
type Shape struct {
	Schema    string
	Name      string
	FieldKeys []string
}

// Class materializes instances of a server type.
type Class interface {
	Name() string
	// New allocates an uninitialized instance. Fields are set through the builder
	// and the initializer runs in Finalize.
	New(shape Shape) Builder
}

type Builder interface {
	SetField(key string, value native.Value) error
	Finalize() (native.Value, error)
}

type Mapping struct {
	mu      sync.RWMutex
	classes map[string]Class
}

func NewMapping() *Mapping {
	return &Mapping{
		classes: make(map[string]Class),
	}
}

// Default is the process-wide mapping.
var Default = NewMapping()

// Register sets the class used for typeName, replacing any previous one.
func (m *Mapping) Register(typeName string, class Class) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.classes[typeName] = class
}

func (m *Mapping) Unregister(typeName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.classes, typeName)
}

// Lookup returns the class registered for typeName. A nil Mapping is empty.
func (m *Mapping) Lookup(typeName string) (Class, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	class, ok := m.classes[typeName]
	return class, ok
}

// Resolve is Lookup falling back to Record.
func (m *Mapping) Resolve(typeName string) Class {
	if class, ok := m.Lookup(typeName); ok {
		return class
	}
	return Record
}

// Names returns the registered type names in sorted order.
func (m *Mapping) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.classes))
	for name := range m.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
