package json

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/cube2222/ocitdo/native"
)

type Formatter struct {
	buf    []byte
	arena  *fastjson.Arena
	w      io.Writer
	fields []native.StructField
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		buf:   make([]byte, 0, 1024),
		arena: new(fastjson.Arena),
		w:     w,
	}
}

func (f *Formatter) SetSchema(fields []native.StructField) {
	f.fields = fields
}

// Write prints the row as one JSON object per line.
func (f *Formatter) Write(values []native.Value) error {
	obj := f.arena.NewObject()
	for i := range f.fields {
		obj.Set(f.fields[i].Name, ValueToJSON(f.arena, values[i]))
	}

	f.buf = obj.MarshalTo(f.buf)
	f.buf = append(f.buf, '\n')
	_, err := f.w.Write(f.buf)
	f.buf = f.buf[:0]
	f.arena.Reset()
	if err != nil {
		return errors.Wrap(err, "couldn't write json row")
	}
	return nil
}

func ValueToJSON(arena *fastjson.Arena, value native.Value) *fastjson.Value {
	switch value.Type.TypeID {
	case native.TypeIDNull:
		return arena.NewNull()
	case native.TypeIDInt:
		return arena.NewNumberInt(value.Int)
	case native.TypeIDFloat:
		return arena.NewNumberFloat64(value.Float)
	case native.TypeIDNumber:
		return arena.NewNumberString(value.Number.String())
	case native.TypeIDString:
		return arena.NewString(value.Str)
	case native.TypeIDBytes:
		return arena.NewString(hex.EncodeToString(value.Bytes))
	case native.TypeIDTime:
		return arena.NewString(value.Time.Format(time.RFC3339Nano))
	case native.TypeIDDuration:
		return arena.NewString(value.Duration.String())
	case native.TypeIDIntervalYM:
		return arena.NewString(value.String())
	case native.TypeIDLob:
		obj := arena.NewObject()
		obj.Set("kind", arena.NewString(value.Lob.Kind.String()))
		obj.Set("locator", arena.NewNumberString(fmt.Sprint(uint64(value.Lob.Locator))))
		obj.Set("session", arena.NewString(value.Lob.Session))
		return obj
	case native.TypeIDXML:
		return arena.NewString(value.String())
	case native.TypeIDObject:
		obj := arena.NewObject()
		for i := range value.FieldValues {
			obj.Set(value.Type.Object.Fields[i].Name, ValueToJSON(arena, value.FieldValues[i]))
		}
		return obj
	case native.TypeIDForeign:
		return arena.NewString(value.String())
	default:
		panic(fmt.Sprintf("invalid native value type to print: %s", value.Type))
	}
}

func (f *Formatter) Close() error {
	return nil
}
