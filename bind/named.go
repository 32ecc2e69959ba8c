package bind

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/oci"
	"github.com/cube2222/ocitdo/tdo"
)

func init() {
	Register(oci.SQLTNamedType, func() Adapter {
		return &NamedType{}
	})
}

// Slot is one element of a named type value array.
type Slot struct {
	Instance   oci.Pointer
	NullStruct oci.Pointer
}

// NamedType binds object and opaque values described by a *tdo.TypeDescriptor.
// Values can only be fetched, never bound as input.
type NamedType struct {
	sess    oci.Session
	typ     *tdo.TypeDescriptor
	decoder *tdo.Decoder
	slots   []Slot
}

// Init takes the type descriptor of the bound values as target.
// A maxArraySize of zero binds a single value.
func (n *NamedType) Init(sess oci.Session, target interface{}, maxArraySize int) error {
	typ, ok := target.(*tdo.TypeDescriptor)
	if !ok || typ == nil {
		return &oci.ConfigurationError{Message: fmt.Sprintf("named type binds need a type descriptor, got %T", target)}
	}
	if maxArraySize < 0 {
		return &oci.ConfigurationError{Message: fmt.Sprintf("invalid max array size %d", maxArraySize)}
	}
	if maxArraySize == 0 {
		maxArraySize = 1
	}

	n.sess = sess
	n.typ = typ
	n.decoder = tdo.NewDecoder(sess)
	n.slots = make([]Slot, maxArraySize)
	return nil
}

func (n *NamedType) ValueSize() int {
	return int(unsafe.Sizeof(oci.Pointer(0)))
}

func (n *NamedType) Type() *tdo.TypeDescriptor {
	return n.typ
}

// MaxArraySize returns the number of slots.
func (n *NamedType) MaxArraySize() int {
	return len(n.slots)
}

// InitElem allocates a fresh instance for every slot.
func (n *NamedType) InitElem() error {
	code := oci.TypeCodeObject
	if n.typ.Opaque != tdo.OpaqueNone {
		code = oci.TypeCodeOpaque
	}
	for i := range n.slots {
		ptr, err := n.sess.ObjectNew(code, n.typ.Handle())
		if err != nil {
			return errors.Wrapf(err, "couldn't allocate %s instance for element %d", n.typ.QualifiedName(), i)
		}
		n.slots[i] = Slot{Instance: ptr}
	}
	return nil
}

// Slot returns element i for the executing layer to fill in.
func (n *NamedType) Slot(i int) *Slot {
	return &n.slots[i]
}

func (n *NamedType) Get(i int) (native.Value, error) {
	if i < 0 || i >= len(n.slots) {
		return native.ZeroValue, errors.Errorf("element %d out of range, max array size is %d", i, len(n.slots))
	}
	slot := n.slots[i]
	if slot.Instance == 0 {
		return native.NewNull(), nil
	}

	value, err := n.decoder.Decode(n.typ, slot.Instance, slot.NullStruct)
	if err != nil {
		return native.ZeroValue, errors.Wrapf(err, "couldn't decode element %d", i)
	}
	return value, nil
}

func (n *NamedType) Set(i int, value native.Value) error {
	return &oci.UnsupportedError{Feature: "binding " + n.typeName() + " values"}
}

func (n *NamedType) typeName() string {
	if n.typ == nil {
		return "named type"
	}
	return n.typ.QualifiedName()
}

// Free releases the instance of every allocated slot. Freeing twice is a no-op.
func (n *NamedType) Free() error {
	var firstErr error
	for i := range n.slots {
		if n.slots[i].Instance == 0 {
			continue
		}
		if err := n.sess.ObjectFree(n.slots[i].Instance); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "couldn't free element %d", i)
		}
		n.slots[i] = Slot{}
	}
	return firstErr
}
