// Package tdo describes object and opaque types of a connection and decodes
// their instances into native values.
//
// A TypeDescriptor belongs to the session it was described in. It owns the
// pinned type metadata, the describe handles of its nested attribute types and
// the XML context of XMLTYPE descriptors, and releases them all in Close.
// Descriptors are not safe for concurrent use.
package tdo

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/fasthash/fnv1a"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/oci"
	"github.com/cube2222/ocitdo/registry"
)

type OpaqueKind int

const (
	OpaqueNone OpaqueKind = iota
	OpaqueXMLType
	OpaqueAnyData
	OpaqueAnyType
	OpaqueAnyDataSet
)

func (k OpaqueKind) String() string {
	switch k {
	case OpaqueNone:
		return "NONE"
	case OpaqueXMLType:
		return "XMLTYPE"
	case OpaqueAnyData:
		return "ANYDATA"
	case OpaqueAnyType:
		return "ANYTYPE"
	case OpaqueAnyDataSet:
		return "ANYDATASET"
	}
	return fmt.Sprintf("OpaqueKind(%d)", int(k))
}

var opaqueKinds = map[string]OpaqueKind{
	"XMLTYPE":    OpaqueXMLType,
	"ANYDATA":    OpaqueAnyData,
	"ANYTYPE":    OpaqueAnyType,
	"ANYDATASET": OpaqueAnyDataSet,
}

// Attribute is one attribute of an object type, in server declaration order.
type Attribute struct {
	Name string
	// FieldKey is the lowercased name the native class receives the value under.
	FieldKey string
	// Type is only set for OBJECT and OPAQUE attributes.
	Type *TypeDescriptor
	// Code is the described type code, NCLOB for CLOBs in the national character set.
	Code oci.TypeCode
}

func (a Attribute) IsNested() bool {
	return a.Type != nil
}

type TypeDescriptor struct {
	SchemaName string
	TypeName   string
	Class      registry.Class
	Attributes []Attribute
	Opaque     OpaqueKind

	sess     oci.Session
	handle   oci.TypeHandle
	describe oci.Describe
	xmlCtx   oci.XMLContext
	closed   bool
}

// Handle returns the pinned type metadata.
func (t *TypeDescriptor) Handle() oci.TypeHandle {
	return t.handle
}

func (t *TypeDescriptor) Session() oci.Session {
	return t.sess
}

// QualifiedName returns SCHEMA.NAME.
func (t *TypeDescriptor) QualifiedName() string {
	return t.SchemaName + "." + t.TypeName
}

// Names returns the attribute names, index aligned with Attributes.
func (t *TypeDescriptor) Names() []string {
	out := make([]string, len(t.Attributes))
	for i := range t.Attributes {
		out[i] = t.Attributes[i].Name
	}
	return out
}

// FieldKeys returns the attribute field keys, index aligned with Attributes.
func (t *TypeDescriptor) FieldKeys() []string {
	out := make([]string, len(t.Attributes))
	for i := range t.Attributes {
		out[i] = t.Attributes[i].FieldKey
	}
	return out
}

// Types returns for every attribute either its nested *TypeDescriptor or its
// oci.TypeCode, index aligned with Attributes.
func (t *TypeDescriptor) Types() []interface{} {
	out := make([]interface{}, len(t.Attributes))
	for i := range t.Attributes {
		if t.Attributes[i].Type != nil {
			out[i] = t.Attributes[i].Type
		} else {
			out[i] = t.Attributes[i].Code
		}
	}
	return out
}

// Equal reports whether both descriptors refer to the same pinned type.
func (t *TypeDescriptor) Equal(other *TypeDescriptor) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.handle == other.handle
}

// Hash is consistent with Equal.
func (t *TypeDescriptor) Hash() uint64 {
	return fnv1a.AddUint64(fnv1a.Init64, uint64(t.handle))
}

// NativeType returns the shape of generic records decoded with this descriptor.
func (t *TypeDescriptor) NativeType() native.Type {
	switch t.Opaque {
	case OpaqueNone:
	case OpaqueXMLType:
		return native.XML
	default:
		return native.Null
	}
	fields := make([]native.StructField, len(t.Attributes))
	for i, attr := range t.Attributes {
		fields[i] = native.StructField{Name: attr.FieldKey}
		if attr.Type != nil {
			fields[i].Type = attr.Type.NativeType()
		} else {
			fields[i].Type = nativeTypeOf(attr.Code)
		}
	}
	return native.NewObjectType(t.SchemaName, t.TypeName, fields)
}

func nativeTypeOf(code oci.TypeCode) native.Type {
	switch code {
	case oci.TypeCodeChar, oci.TypeCodeVarchar, oci.TypeCodeVarchar2:
		return native.String
	case oci.TypeCodeRaw:
		return native.Bytes
	case oci.TypeCodeNumber, oci.TypeCodeDecimal:
		return native.Number
	case oci.TypeCodeInteger, oci.TypeCodeSmallint:
		return native.Int
	case oci.TypeCodeReal, oci.TypeCodeDouble, oci.TypeCodeFloat, oci.TypeCodeBFloat, oci.TypeCodeBDouble:
		return native.Float
	case oci.TypeCodeCLOB, oci.TypeCodeNCLOB, oci.TypeCodeBLOB, oci.TypeCodeBFILE:
		return native.Lob
	case oci.TypeCodeDate, oci.TypeCodeTimestamp, oci.TypeCodeTimestampTZ, oci.TypeCodeTimestampLTZ:
		return native.Time
	case oci.TypeCodeIntervalYM:
		return native.IntervalYM
	case oci.TypeCodeIntervalDS:
		return native.Duration
	}
	return native.Null
}

func (t *TypeDescriptor) String() string {
	builder := &strings.Builder{}
	builder.WriteString(t.QualifiedName())
	if t.Opaque != OpaqueNone {
		builder.WriteString(" OPAQUE ")
		builder.WriteString(t.Opaque.String())
		return builder.String()
	}
	builder.WriteString("(")
	for i, attr := range t.Attributes {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(attr.Name)
		builder.WriteString(" ")
		if attr.Type != nil {
			builder.WriteString(attr.Type.QualifiedName())
		} else {
			builder.WriteString(attr.Code.String())
		}
	}
	builder.WriteString(")")
	return builder.String()
}

// Close releases the pinned metadata, the XML context and the describe handle,
// and closes every nested descriptor. Closing twice is a no-op.
func (t *TypeDescriptor) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for i := range t.Attributes {
		if t.Attributes[i].Type != nil {
			record(errors.Wrapf(t.Attributes[i].Type.Close(), "couldn't close attribute %s type", t.Attributes[i].Name))
		}
	}
	if t.handle != 0 {
		record(errors.Wrap(t.sess.Unpin(t.handle), "couldn't unpin type"))
	}
	if t.describe != nil {
		record(errors.Wrap(t.describe.Free(), "couldn't free describe handle"))
	}
	if t.xmlCtx != nil {
		record(errors.Wrap(t.xmlCtx.Free(), "couldn't free xml context"))
	}
	return firstErr
}
