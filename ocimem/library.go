// Package ocimem is an in-memory client library. It keeps type definitions,
// pins, describe handles, object instances and scalar memory cells in maps and
// implements the oci interfaces on top of them.
package ocimem

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/cube2222/ocitdo/oci"
)

// Type is a server-side type definition.
type Type struct {
	Schema string
	Name   string
	// Code is TypeCodeObject or TypeCodeOpaque.
	Code       oci.TypeCode
	Attributes []Attribute
}

func (t *Type) QualifiedName() string {
	return t.Schema + "." + t.Name
}

func (t *Type) attributeIndex(name string) int {
	for i := range t.Attributes {
		if t.Attributes[i].Name == name {
			return i
		}
	}
	return -1
}

// Attribute is one attribute of an object type.
type Attribute struct {
	Name string
	// Code is the declared type code. NCLOB attributes are reported as CLOB
	// with the national character set form, like the real library does.
	Code oci.TypeCode
	// TypeName is the qualified name of the attribute type for OBJECT and OPAQUE attributes.
	TypeName string
}

// Library holds the type catalog shared by all its sessions.
type Library struct {
	XML bool

	types map[oci.Ref]*Type
	refs  map[string]oci.Ref
	names *btree.Generic[string]
	next  oci.Pointer
}

func NewLibrary() *Library {
	return &Library{
		types: make(map[oci.Ref]*Type),
		refs:  make(map[string]oci.Ref),
		names: btree.NewGenericOptions(func(a, b string) bool {
			return a < b
		}, btree.Options{NoLocks: true}),
		next: 0x1000,
	}
}

func (l *Library) alloc() oci.Pointer {
	l.next += 0x10
	return l.next
}

// AddType defines a type and returns its reference. Nested attribute types must be defined first.
func (l *Library) AddType(t Type) (oci.Ref, error) {
	if t.Code == 0 {
		t.Code = oci.TypeCodeObject
	}
	if t.Code != oci.TypeCodeObject && t.Code != oci.TypeCodeOpaque {
		return 0, errors.Errorf("type %s.%s must be an OBJECT or OPAQUE type, got %s", t.Schema, t.Name, t.Code)
	}
	for _, attr := range t.Attributes {
		if attr.Code.IsNested() {
			if _, ok := l.refs[attr.TypeName]; !ok {
				return 0, errors.Errorf("attribute %s of %s.%s references undefined type %s", attr.Name, t.Schema, t.Name, attr.TypeName)
			}
		}
	}
	if _, ok := l.refs[t.QualifiedName()]; ok {
		return 0, errors.Errorf("type %s already defined", t.QualifiedName())
	}

	def := t
	def.Attributes = append([]Attribute(nil), t.Attributes...)
	ref := oci.Ref(l.alloc())
	l.types[ref] = &def
	l.refs[def.QualifiedName()] = ref
	l.names.Set(def.QualifiedName())
	return ref, nil
}

// MustAddType is AddType panicking on error, for tests and static catalogs.
func (l *Library) MustAddType(t Type) oci.Ref {
	ref, err := l.AddType(t)
	if err != nil {
		panic(err)
	}
	return ref
}

// AlterAttribute changes the declared type code of an attribute in place.
// Descriptors built before the change keep the old code.
func (l *Library) AlterAttribute(qualifiedName, attribute string, code oci.TypeCode) error {
	ref, ok := l.refs[qualifiedName]
	if !ok {
		return errors.Errorf("type %s not found", qualifiedName)
	}
	t := l.types[ref]
	i := t.attributeIndex(attribute)
	if i == -1 {
		return errors.Errorf("type %s has no attribute %s", qualifiedName, attribute)
	}
	t.Attributes[i].Code = code
	return nil
}

// LookupType returns the reference of a type by schema and name.
func (l *Library) LookupType(schema, name string) (oci.Ref, error) {
	ref, ok := l.refs[schema+"."+name]
	if !ok {
		return 0, &oci.Error{Op: "OCIDescribeAny", Code: 4043, Message: fmt.Sprintf("object %s.%s does not exist", schema, name)}
	}
	return ref, nil
}

// Types returns the qualified names of all defined types in ascending order.
func (l *Library) Types() []string {
	out := make([]string, 0, l.names.Len())
	l.names.Scan(func(name string) bool {
		out = append(out, name)
		return true
	})
	return out
}

// Type returns the definition of a type by qualified name.
func (l *Library) Type(qualifiedName string) (*Type, bool) {
	ref, ok := l.refs[qualifiedName]
	if !ok {
		return nil, false
	}
	return l.types[ref], true
}

func splitQualifiedName(name string) (string, string) {
	if i := strings.LastIndex(name, "."); i != -1 {
		return name[:i], name[i+1:]
	}
	return "", name
}
