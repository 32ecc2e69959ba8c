// Package output renders rows of native values.
package output

import (
	"github.com/cube2222/ocitdo/native"
)

// Format writes rows sharing one schema.
type Format interface {
	SetSchema(fields []native.StructField)
	Write(values []native.Value) error
	Close() error
}

// Strings turns plain strings into a row.
func Strings(values ...string) []native.Value {
	out := make([]native.Value, len(values))
	for i := range values {
		out[i] = native.NewString(values[i])
	}
	return out
}

// StringSchema returns a schema of string columns.
func StringSchema(names ...string) []native.StructField {
	out := make([]native.StructField, len(names))
	for i := range names {
		out[i] = native.StructField{Name: names[i], Type: native.String}
	}
	return out
}
