package native

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/cube2222/ocitdo/oci"
)

var ZeroValue = Value{}

// LobLocator identifies a LOB on the server. Reading its contents belongs to the LOB layer.
type LobLocator struct {
	Kind    oci.TypeCode
	Locator oci.Pointer
	Session string
}

type Value struct {
	Type        Type
	Int         int
	Float       float64
	Number      decimal.Decimal
	Str         string
	Bytes       []byte
	Time        time.Time
	Duration    time.Duration
	Months      int
	Lob         LobLocator
	XML         *etree.Document
	FieldValues []Value
	Foreign     interface{}
}

func NewNull() Value {
	return Value{
		Type: Type{TypeID: TypeIDNull},
	}
}

func NewInt(value int) Value {
	return Value{
		Type: Type{TypeID: TypeIDInt},
		Int:  value,
	}
}

func NewFloat(value float64) Value {
	return Value{
		Type:  Type{TypeID: TypeIDFloat},
		Float: value,
	}
}

func NewNumber(value decimal.Decimal) Value {
	return Value{
		Type:   Type{TypeID: TypeIDNumber},
		Number: value,
	}
}

func NewString(value string) Value {
	return Value{
		Type: Type{TypeID: TypeIDString},
		Str:  value,
	}
}

func NewBytes(value []byte) Value {
	return Value{
		Type:  Type{TypeID: TypeIDBytes},
		Bytes: value,
	}
}

func NewTime(value time.Time) Value {
	return Value{
		Type: Type{TypeID: TypeIDTime},
		Time: value,
	}
}

func NewDuration(value time.Duration) Value {
	return Value{
		Type:     Type{TypeID: TypeIDDuration},
		Duration: value,
	}
}

// NewIntervalYM stores a year to month interval as a signed month count.
func NewIntervalYM(years, months int) Value {
	return Value{
		Type:   Type{TypeID: TypeIDIntervalYM},
		Months: years*12 + months,
	}
}

func NewLob(value LobLocator) Value {
	return Value{
		Type: Type{TypeID: TypeIDLob},
		Lob:  value,
	}
}

func NewXML(value *etree.Document) Value {
	return Value{
		Type: Type{TypeID: TypeIDXML},
		XML:  value,
	}
}

// NewObject returns a generic record. t must be an object type with one field per value.
func NewObject(t Type, fieldValues []Value) Value {
	return Value{
		Type:        t,
		FieldValues: fieldValues,
	}
}

// NewForeign wraps a value produced by a registered native class.
func NewForeign(name string, value interface{}) Value {
	out := Value{
		Type:    Type{TypeID: TypeIDForeign},
		Foreign: value,
	}
	out.Type.Foreign.Name = name
	return out
}

func (value Value) IsNull() bool {
	return value.Type.TypeID == TypeIDNull
}

// Field returns the value of the named field of a generic record.
func (value Value) Field(name string) (Value, bool) {
	if value.Type.TypeID != TypeIDObject {
		return ZeroValue, false
	}
	for i := range value.Type.Object.Fields {
		if value.Type.Object.Fields[i].Name == name {
			return value.FieldValues[i], true
		}
	}
	return ZeroValue, false
}

func (value Value) String() string {
	builder := &strings.Builder{}
	value.append(builder)
	return builder.String()
}

func (value Value) append(builder *strings.Builder) {
	switch value.Type.TypeID {
	case TypeIDNull:
		builder.WriteString("null")

	case TypeIDInt:
		builder.WriteString(fmt.Sprint(value.Int))

	case TypeIDFloat:
		builder.WriteString(fmt.Sprint(value.Float))

	case TypeIDNumber:
		builder.WriteString(value.Number.String())

	case TypeIDString:
		builder.WriteString(fmt.Sprintf("'%s'", value.Str))

	case TypeIDBytes:
		builder.WriteString("0x")
		builder.WriteString(hex.EncodeToString(value.Bytes))

	case TypeIDTime:
		builder.WriteString(value.Time.Format(time.RFC3339Nano))

	case TypeIDDuration:
		builder.WriteString(fmt.Sprint(value.Duration))

	case TypeIDIntervalYM:
		months := value.Months
		sign := "+"
		if months < 0 {
			sign = "-"
			months = -months
		}
		builder.WriteString(fmt.Sprintf("%s%02d-%02d", sign, months/12, months%12))

	case TypeIDLob:
		builder.WriteString(fmt.Sprintf("#<%s %#x>", value.Lob.Kind, uintptr(value.Lob.Locator)))

	case TypeIDXML:
		if value.XML == nil {
			builder.WriteString("null")
			return
		}
		str, err := value.XML.WriteToString()
		if err != nil {
			builder.WriteString("#<XML>")
			return
		}
		builder.WriteString(str)

	case TypeIDObject:
		builder.WriteString(value.Type.QualifiedName())
		builder.WriteString("{ ")
		for i, v := range value.FieldValues {
			builder.WriteString(value.Type.Object.Fields[i].Name)
			builder.WriteString(": ")
			v.append(builder)
			if i != len(value.FieldValues)-1 {
				builder.WriteString(", ")
			}
		}
		builder.WriteString(" }")

	case TypeIDForeign:
		builder.WriteString(fmt.Sprintf("%+v", value.Foreign))

	default:
		panic("impossible, type switch bug")
	}
}

// ToRawGoValue converts the value to plain Go values, recursing into records.
func (value Value) ToRawGoValue() interface{} {
	switch value.Type.TypeID {
	case TypeIDNull:
		return nil
	case TypeIDInt:
		return value.Int
	case TypeIDFloat:
		return value.Float
	case TypeIDNumber:
		return value.Number
	case TypeIDString:
		return value.Str
	case TypeIDBytes:
		return value.Bytes
	case TypeIDTime:
		return value.Time
	case TypeIDDuration:
		return value.Duration
	case TypeIDIntervalYM:
		return value.Months
	case TypeIDLob:
		return value.Lob
	case TypeIDXML:
		return value.XML
	case TypeIDObject:
		out := make(map[string]interface{}, len(value.FieldValues))
		for i, v := range value.FieldValues {
			out[value.Type.Object.Fields[i].Name] = v.ToRawGoValue()
		}
		return out
	case TypeIDForeign:
		return value.Foreign
	default:
		panic("invalid native.Value to get Raw Go value for")
	}
}
