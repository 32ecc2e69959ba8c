// Package bind connects statement bind and define variables to the data
// types they carry.
package bind

import (
	"sync"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/oci"
)

// Adapter manages the value array of one bind or define variable.
//
// The executing layer calls Init once, InitElem once before execution, Get for
// every fetched element and Free once the variable is released.
type Adapter interface {
	Init(sess oci.Session, target interface{}, maxArraySize int) error
	// ValueSize is the size in bytes of one element as laid out in the value array.
	ValueSize() int
	InitElem() error
	Get(i int) (native.Value, error)
	Set(i int, value native.Value) error
	Free() error
}

type Factory func() Adapter

var (
	factoriesMu sync.RWMutex
	factories   = make(map[oci.DataType]Factory)
)

// Register makes a factory available for a bind data type, replacing any previous one.
func Register(dataType oci.DataType, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[dataType] = factory
}

func Lookup(dataType oci.DataType) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	factory, ok := factories[dataType]
	return factory, ok
}
