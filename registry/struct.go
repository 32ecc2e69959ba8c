package registry

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/native"
)

// Initializer is run by StructClass once every field has been set.
type Initializer interface {
	Initialize() error
}

var nativeValueType = reflect.TypeOf(native.Value{})

// StructClass materializes instances as pointers to a Go struct.
//
// An attribute lands in the exported field tagged `oci:"key"`, or else in the
// exported field whose lowercased name equals the key. Attributes without a
// matching field are dropped. A native.Value field receives the value as is,
// any other field the value's raw Go representation, and null leaves the
// field at its zero value.
type StructClass struct {
	name   string
	typ    reflect.Type
	fields map[string]int
}

// NewStructClass returns a class for the struct prototype points to.
func NewStructClass(name string, prototype interface{}) (*StructClass, error) {
	typ := reflect.TypeOf(prototype)
	if typ == nil || typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return nil, errors.Errorf("prototype must be a pointer to a struct, got %v", typ)
	}
	typ = typ.Elem()

	fields := make(map[string]int)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		key := strings.ToLower(field.Name)
		if tag, ok := field.Tag.Lookup("oci"); ok {
			if tag == "-" {
				continue
			}
			key = tag
		}
		fields[key] = i
	}

	return &StructClass{
		name:   name,
		typ:    typ,
		fields: fields,
	}, nil
}

func (c *StructClass) Name() string {
	return c.name
}

func (c *StructClass) New(shape Shape) Builder {
	return &structBuilder{
		class: c,
		ptr:   reflect.New(c.typ),
	}
}

type structBuilder struct {
	class *StructClass
	ptr   reflect.Value
}

func (b *structBuilder) SetField(key string, value native.Value) error {
	index, ok := b.class.fields[key]
	if !ok {
		return nil
	}
	field := b.ptr.Elem().Field(index)

	if field.Type() == nativeValueType {
		field.Set(reflect.ValueOf(value))
		return nil
	}
	if value.IsNull() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if value.Type.TypeID == native.TypeIDNumber {
		switch field.Kind() {
		case reflect.Float32, reflect.Float64:
			f, _ := value.Number.Float64()
			field.SetFloat(f)
			return nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(value.Number.IntPart())
			return nil
		}
	}

	raw := reflect.ValueOf(value.ToRawGoValue())
	switch {
	case field.Kind() == reflect.String && raw.Kind() != reflect.String && raw.Kind() != reflect.Slice:
		return errors.Errorf("can't assign %s to string field %s", value.Type, b.class.typ.Field(index).Name)
	case raw.Type().AssignableTo(field.Type()):
		field.Set(raw)
	case raw.Type().ConvertibleTo(field.Type()):
		field.Set(raw.Convert(field.Type()))
	case field.Kind() == reflect.Ptr && raw.Type().AssignableTo(field.Type().Elem()):
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().Set(raw)
		field.Set(ptr)
	default:
		return errors.Errorf("can't assign %s to field %s of type %s", value.Type, b.class.typ.Field(index).Name, field.Type())
	}
	return nil
}

func (b *structBuilder) Finalize() (native.Value, error) {
	obj := b.ptr.Interface()
	if initializer, ok := obj.(Initializer); ok {
		if err := initializer.Initialize(); err != nil {
			return native.ZeroValue, errors.Wrapf(err, "couldn't initialize %s", b.class.name)
		}
	}
	return native.NewForeign(b.class.name, obj), nil
}
