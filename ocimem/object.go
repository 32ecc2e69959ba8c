package ocimem

import (
	"fmt"

	"github.com/cube2222/ocitdo/oci"
)

type instance struct {
	typ    *Type
	values []oci.Pointer
	nulls  oci.Pointer
}

type nullStruct struct {
	null     bool
	attrs    []bool
	children []oci.Pointer
}

func (s *Session) newInstance(t *Type) (oci.Pointer, oci.Pointer) {
	ns := &nullStruct{
		attrs:    make([]bool, len(t.Attributes)),
		children: make([]oci.Pointer, len(t.Attributes)),
	}
	for i := range ns.attrs {
		ns.attrs[i] = true
	}
	nsPtr := s.lib.alloc()
	s.nullStructs[nsPtr] = ns

	ptr := s.lib.alloc()
	s.instances[ptr] = &instance{
		typ:    t,
		values: make([]oci.Pointer, len(t.Attributes)),
		nulls:  nsPtr,
	}
	return ptr, nsPtr
}

// ObjectNew allocates an instance of a pinned type with every attribute null.
func (s *Session) ObjectNew(code oci.TypeCode, h oci.TypeHandle) (oci.Pointer, error) {
	t, ok := s.handles[h]
	if !ok {
		return 0, &oci.Error{Op: "OCIObjectNew", Code: 21710, Message: fmt.Sprintf("type handle %#x is not pinned", uintptr(h))}
	}
	if code != t.Code {
		return 0, &oci.Error{Op: "OCIObjectNew", Code: 22370, Message: fmt.Sprintf("type %s is %s, not %s", t.QualifiedName(), t.Code, code)}
	}
	if code == oci.TypeCodeOpaque {
		return s.NewOpaque("")
	}
	ptr, _ := s.newInstance(t)
	return ptr, nil
}

// ObjectFree frees an instance. Nested instances are owned by their parent and freed with it.
func (s *Session) ObjectFree(ptr oci.Pointer) error {
	inst, ok := s.instances[ptr]
	if !ok {
		if _, ok := s.cells[ptr]; ok {
			// Opaque payload.
			delete(s.cells, ptr)
			s.freed++
			return nil
		}
		return &oci.Error{Op: "OCIObjectFree", Code: 21710, Message: fmt.Sprintf("invalid instance %#x", uintptr(ptr))}
	}
	for i, attr := range inst.typ.Attributes {
		if attr.Code == oci.TypeCodeObject && inst.values[i] != 0 {
			if err := s.ObjectFree(inst.values[i]); err != nil {
				return err
			}
		}
	}
	delete(s.instances, ptr)
	delete(s.nullStructs, inst.nulls)
	s.freed++
	return nil
}

// LiveObjects returns the number of top-level and nested instances not freed yet.
func (s *Session) LiveObjects() int {
	return len(s.instances)
}

// FreedObjects returns how many instances were freed over the session's life.
func (s *Session) FreedObjects() int {
	return s.freed
}

func (s *Session) IsNull(nsPtr oci.Pointer) (bool, error) {
	if nsPtr == 0 {
		return false, nil
	}
	ns, ok := s.nullStructs[nsPtr]
	if !ok {
		return false, &oci.Error{Op: "OCIObjectGetInd", Code: 21560, Message: fmt.Sprintf("invalid null structure %#x", uintptr(nsPtr))}
	}
	return ns.null, nil
}

// GetAttr looks an attribute up by name. A zero null structure means the instance's own.
func (s *Session) GetAttr(ptr, nsPtr oci.Pointer, h oci.TypeHandle, name []byte) (oci.Attr, error) {
	inst, ok := s.instances[ptr]
	if !ok {
		return oci.Attr{}, &oci.Error{Op: "OCIObjectGetAttr", Code: 21710, Message: fmt.Sprintf("invalid instance %#x", uintptr(ptr))}
	}
	if t, ok := s.handles[h]; !ok || t != inst.typ {
		return oci.Attr{}, &oci.Error{Op: "OCIObjectGetAttr", Code: 22370, Message: fmt.Sprintf("type handle %#x doesn't match instance %#x", uintptr(h), uintptr(ptr))}
	}
	if nsPtr == 0 {
		nsPtr = inst.nulls
	}
	ns, ok := s.nullStructs[nsPtr]
	if !ok {
		return oci.Attr{}, &oci.Error{Op: "OCIObjectGetAttr", Code: 21560, Message: fmt.Sprintf("invalid null structure %#x", uintptr(nsPtr))}
	}

	i := inst.typ.attributeIndex(string(name))
	if i == -1 {
		return oci.Attr{}, &oci.Error{Op: "OCIObjectGetAttr", Code: 22305, Message: fmt.Sprintf("attribute/method %s not found", name)}
	}
	attr := inst.typ.Attributes[i]

	var attrType oci.TypeHandle
	if attr.Code.IsNested() {
		ref, ok := s.lib.refs[attr.TypeName]
		if !ok {
			return oci.Attr{}, &oci.Error{Op: "OCIObjectGetAttr", Code: 4043, Message: fmt.Sprintf("object %s does not exist", attr.TypeName)}
		}
		// The library pins attribute types in its object cache; they are released with the session.
		handle, err := s.Pin(ref)
		if err != nil {
			return oci.Attr{}, err
		}
		s.pins[ref].count--
		attrType = handle
	} else {
		code := attr.Code
		if code == oci.TypeCodeNCLOB {
			code = oci.TypeCodeCLOB
		}
		attrType = s.builtin(code)
	}

	return oci.Attr{
		Null:       ns.null || ns.attrs[i],
		NullStruct: ns.children[i],
		Value:      inst.values[i],
		Type:       attrType,
	}, nil
}

// NullStructOf returns the null structure of an instance.
func (s *Session) NullStructOf(ptr oci.Pointer) (oci.Pointer, error) {
	inst, ok := s.instances[ptr]
	if !ok {
		return 0, &oci.Error{Op: "OCIObjectGetInd", Code: 21710, Message: fmt.Sprintf("invalid instance %#x", uintptr(ptr))}
	}
	return inst.nulls, nil
}
