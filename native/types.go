package native

import (
	"fmt"
	"strings"
)

type TypeID int

const (
	TypeIDNull TypeID = iota
	TypeIDInt
	TypeIDFloat
	TypeIDNumber
	TypeIDString
	TypeIDBytes
	TypeIDTime
	TypeIDDuration
	TypeIDIntervalYM
	TypeIDLob
	TypeIDXML
	TypeIDObject
	TypeIDForeign
)

type Type struct {
	TypeID     TypeID
	Null       struct{}
	Int        struct{}
	Float      struct{}
	Number     struct{}
	Str        struct{}
	Bytes      struct{}
	Time       struct{}
	Duration   struct{}
	IntervalYM struct{}
	Lob        struct{}
	XML        struct{}
	Object     struct {
		Schema string
		Name   string
		Fields []StructField
	}
	Foreign struct {
		Name string
	}
}

type StructField struct {
	Name string
	Type Type
}

func (t Type) String() string {
	switch t.TypeID {
	case TypeIDNull:
		return "NULL"
	case TypeIDInt:
		return "Int"
	case TypeIDFloat:
		return "Float"
	case TypeIDNumber:
		return "Number"
	case TypeIDString:
		return "String"
	case TypeIDBytes:
		return "Bytes"
	case TypeIDTime:
		return "Time"
	case TypeIDDuration:
		return "Duration"
	case TypeIDIntervalYM:
		return "IntervalYM"
	case TypeIDLob:
		return "Lob"
	case TypeIDXML:
		return "XML"
	case TypeIDObject:
		fieldStrings := make([]string, len(t.Object.Fields))
		for i, field := range t.Object.Fields {
			fieldStrings[i] = fmt.Sprintf("%s: %s", field.Name, field.Type)
		}

		return fmt.Sprintf("%s{%s}", t.QualifiedName(), strings.Join(fieldStrings, "; "))
	case TypeIDForeign:
		return t.Foreign.Name
	}
	panic("impossible, type switch bug")
}

// QualifiedName returns SCHEMA.NAME for object types.
func (t Type) QualifiedName() string {
	if t.Object.Schema == "" {
		return t.Object.Name
	}
	return t.Object.Schema + "." + t.Object.Name
}

var (
	Null       Type = Type{TypeID: TypeIDNull}
	Int        Type = Type{TypeID: TypeIDInt}
	Float      Type = Type{TypeID: TypeIDFloat}
	Number     Type = Type{TypeID: TypeIDNumber}
	String     Type = Type{TypeID: TypeIDString}
	Bytes      Type = Type{TypeID: TypeIDBytes}
	Time       Type = Type{TypeID: TypeIDTime}
	Duration   Type = Type{TypeID: TypeIDDuration}
	IntervalYM Type = Type{TypeID: TypeIDIntervalYM}
	Lob        Type = Type{TypeID: TypeIDLob}
	XML        Type = Type{TypeID: TypeIDXML}
)

// NewObjectType returns the type of generic records of the given server type.
func NewObjectType(schema, name string, fields []StructField) Type {
	out := Type{TypeID: TypeIDObject}
	out.Object.Schema = schema
	out.Object.Name = name
	out.Object.Fields = fields
	return out
}
