package registry

import (
	"github.com/pkg/errors"

	"github.com/cube2222/ocitdo/native"
)

// Record is the class of types without a mapping. It produces generic records.
var Record Class = recordClass{}

type recordClass struct{}

func (recordClass) Name() string {
	return "record"
}

func (recordClass) New(shape Shape) Builder {
	return &recordBuilder{
		shape:  shape,
		values: make([]native.Value, len(shape.FieldKeys)),
		set:    make([]bool, len(shape.FieldKeys)),
	}
}

type recordBuilder struct {
	shape  Shape
	values []native.Value
	set    []bool
}

func (b *recordBuilder) SetField(key string, value native.Value) error {
	for i := range b.shape.FieldKeys {
		if b.shape.FieldKeys[i] == key {
			b.values[i] = value
			b.set[i] = true
			return nil
		}
	}
	return errors.Errorf("type %s has no field %s", b.shape.Name, key)
}

func (b *recordBuilder) Finalize() (native.Value, error) {
	fields := make([]native.StructField, len(b.values))
	for i := range b.values {
		if !b.set[i] {
			b.values[i] = native.NewNull()
		}
		fields[i] = native.StructField{
			Name: b.shape.FieldKeys[i],
			Type: b.values[i].Type,
		}
	}
	return native.NewObject(native.NewObjectType(b.shape.Schema, b.shape.Name, fields), b.values), nil
}
