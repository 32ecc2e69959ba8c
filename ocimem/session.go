package ocimem

import (
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/cube2222/ocitdo/oci"
)

type pin struct {
	handle oci.TypeHandle
	count  int
}

// Session is a connection to the in-memory library. It implements oci.Session and oci.XMLSession.
type Session struct {
	lib *Library
	id  string

	pins     map[oci.Ref]*pin
	handles  map[oci.TypeHandle]*Type
	builtins map[oci.TypeCode]oci.TypeHandle

	describes   map[*describe]struct{}
	xmlContexts map[*xmlContext]struct{}

	cells       map[oci.Pointer][]byte
	instances   map[oci.Pointer]*instance
	nullStructs map[oci.Pointer]*nullStruct

	freed int
}

func (l *Library) Connect() *Session {
	return &Session{
		lib:         l,
		id:          ulid.MustNew(ulid.Now(), rand.Reader).String(),
		pins:        make(map[oci.Ref]*pin),
		handles:     make(map[oci.TypeHandle]*Type),
		builtins:    make(map[oci.TypeCode]oci.TypeHandle),
		describes:   make(map[*describe]struct{}),
		xmlContexts: make(map[*xmlContext]struct{}),
		cells:       make(map[oci.Pointer][]byte),
		instances:   make(map[oci.Pointer]*instance),
		nullStructs: make(map[oci.Pointer]*nullStruct),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Pin pins the referenced type. Pinning a type again returns the same handle.
func (s *Session) Pin(ref oci.Ref) (oci.TypeHandle, error) {
	t, ok := s.lib.types[ref]
	if !ok {
		return 0, &oci.Error{Op: "OCIObjectPin", Code: 21700, Message: fmt.Sprintf("object %#x does not exist or is marked for delete", uintptr(ref))}
	}
	if p, ok := s.pins[ref]; ok {
		p.count++
		return p.handle, nil
	}
	handle := oci.TypeHandle(s.lib.alloc())
	s.pins[ref] = &pin{handle: handle, count: 1}
	s.handles[handle] = t
	return handle, nil
}

func (s *Session) Unpin(h oci.TypeHandle) error {
	for ref, p := range s.pins {
		if p.handle != h {
			continue
		}
		p.count--
		if p.count == 0 {
			delete(s.pins, ref)
			delete(s.handles, h)
		}
		return nil
	}
	return &oci.Error{Op: "OCIObjectUnpin", Code: 21710, Message: fmt.Sprintf("handle %#x is not pinned", uintptr(h))}
}

// OpenPins returns the number of outstanding pins.
func (s *Session) OpenPins() int {
	out := 0
	for _, p := range s.pins {
		out += p.count
	}
	return out
}

// TypeCodeOf returns the type code of a pinned type or a builtin scalar type handle.
func (s *Session) TypeCodeOf(h oci.TypeHandle) (oci.TypeCode, error) {
	if t, ok := s.handles[h]; ok {
		return t.Code, nil
	}
	for code, handle := range s.builtins {
		if handle == h {
			return code, nil
		}
	}
	return 0, &oci.Error{Op: "OCITypeTypeCode", Code: 21710, Message: fmt.Sprintf("invalid type handle %#x", uintptr(h))}
}

func (s *Session) builtin(code oci.TypeCode) oci.TypeHandle {
	if h, ok := s.builtins[code]; ok {
		return h
	}
	h := oci.TypeHandle(s.lib.alloc())
	s.builtins[code] = h
	return h
}

// LookupType resolves a type by schema and name.
func (s *Session) LookupType(schema, name string) (oci.Ref, error) {
	return s.lib.LookupType(schema, name)
}

func (s *Session) DescribeAny(ref oci.Ref) (oci.Describe, error) {
	t, ok := s.lib.types[ref]
	if !ok {
		return nil, &oci.Error{Op: "OCIDescribeAny", Code: 4043, Message: fmt.Sprintf("object %#x does not exist", uintptr(ref))}
	}
	d := &describe{
		sess: s,
		param: &typeParam{
			lib: s.lib,
			ref: ref,
			typ: t,
		},
	}
	s.describes[d] = struct{}{}
	return d, nil
}

// OpenDescribes returns the number of describe handles not freed yet.
func (s *Session) OpenDescribes() int {
	return len(s.describes)
}

func (s *Session) InitXMLContext() (oci.XMLContext, error) {
	if !s.lib.XML {
		return nil, &oci.UnsupportedError{Feature: "SYS.XMLTYPE"}
	}
	ctx := &xmlContext{sess: s}
	s.xmlContexts[ctx] = struct{}{}
	return ctx, nil
}

// OpenXMLContexts returns the number of XML contexts not freed yet.
func (s *Session) OpenXMLContexts() int {
	return len(s.xmlContexts)
}

type describe struct {
	sess  *Session
	param *typeParam
	freed bool
}

func (d *describe) Param() (oci.Param, error) {
	if d.freed {
		return nil, &oci.Error{Op: "OCIAttrGet", Code: 21301, Message: "describe handle already freed"}
	}
	return d.param, nil
}

func (d *describe) Free() error {
	if d.freed {
		return &oci.Error{Op: "OCIHandleFree", Code: 21301, Message: "describe handle already freed"}
	}
	d.freed = true
	delete(d.sess.describes, d)
	return nil
}

type xmlContext struct {
	sess  *Session
	freed bool
}

func (x *xmlContext) SerializeNode(node oci.Pointer) ([]byte, error) {
	if x.freed {
		return nil, &oci.Error{Op: "OCIXmlDbSerialize", Message: "xml context already freed"}
	}
	var out []byte
	if err := x.sess.readCell("OCIXmlDbSerialize", node, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (x *xmlContext) Free() error {
	if x.freed {
		return &oci.Error{Op: "OCIXmlDbFreeXmlCtx", Message: "xml context already freed"}
	}
	x.freed = true
	delete(x.sess.xmlContexts, x)
	return nil
}
