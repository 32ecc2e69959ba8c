// Package oci declares the parts of the database client library the type
// descriptor subsystem talks to. Implementations live outside this module;
// ocimem provides an in-memory one.
package oci

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pointer is an opaque address handed out by the client library.
// The zero Pointer is the null pointer.
type Pointer uintptr

// Ref references server-side type metadata that has not been pinned.
type Ref Pointer

// TypeHandle is pinned server-side type metadata.
type TypeHandle Pointer

// Param is a described parameter: a type, or one attribute of a type.
type Param interface {
	TypeCode() (TypeCode, error)
	// TypeRef returns the reference to the type this parameter describes or is typed by.
	TypeRef() (Ref, error)
	SchemaName() ([]byte, error)
	Name() ([]byte, error)
	NumTypeAttrs() (int, error)
	// TypeAttr returns the attribute parameter at the 0-based position i.
	TypeAttr(i int) (Param, error)
	CharsetForm() (CharsetForm, error)
}

// Describe is a describe handle produced by DescribeAny. It owns the Param it yields.
type Describe interface {
	Param() (Param, error)
	Free() error
}

// Attr is the live state of one attribute of an object instance.
type Attr struct {
	Null       bool
	NullStruct Pointer
	Value      Pointer
	Type       TypeHandle
}

// Memory reads scalar values stored at library addresses.
type Memory interface {
	ReadString(p Pointer) ([]byte, error)
	ReadNumber(p Pointer) (decimal.Decimal, error)
	ReadDate(p Pointer) (time.Time, error)
	ReadDateTime(p Pointer) (time.Time, error)
	ReadIntervalYM(p Pointer) (years, months int, err error)
	ReadIntervalDS(p Pointer) (time.Duration, error)
	ReadFloat32(p Pointer) (float32, error)
	ReadFloat64(p Pointer) (float64, error)
	ReadLobLocator(p Pointer) (Pointer, error)
}

// Session is the service context every describe and object call runs in.
// Sessions are not safe for concurrent use.
type Session interface {
	Memory

	ID() string

	Pin(ref Ref) (TypeHandle, error)
	Unpin(h TypeHandle) error
	DescribeAny(ref Ref) (Describe, error)
	TypeCodeOf(h TypeHandle) (TypeCode, error)

	// GetAttr looks an attribute of instance up by name.
	GetAttr(instance, nullStruct Pointer, h TypeHandle, name []byte) (Attr, error)
	// IsNull reports whether the null structure marks the whole value as null.
	IsNull(nullStruct Pointer) (bool, error)
	ObjectNew(code TypeCode, h TypeHandle) (Pointer, error)
	ObjectFree(instance Pointer) error
}

// XMLContext decodes XMLTYPE instances.
type XMLContext interface {
	SerializeNode(node Pointer) ([]byte, error)
	Free() error
}

// XMLSession is implemented by sessions of library builds with XML support.
type XMLSession interface {
	InitXMLContext() (XMLContext, error)
}
