package oci

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		native        bool
		unsupported   bool
		consistency   bool
		configuration bool
	}{
		{
			name:   "native",
			err:    errors.Wrap(&Error{Op: "OCIObjectPin", Code: 4043, Message: "object does not exist"}, "couldn't pin type"),
			native: true,
		},
		{
			name:        "unsupported",
			err:         errors.Wrap(&UnsupportedError{Feature: "SYS.ANYDATA"}, "couldn't describe"),
			unsupported: true,
		},
		{
			name:        "consistency",
			err:         &ConsistencyError{Attribute: "X", Described: TypeCodeNumber, Actual: TypeCodeVarchar2},
			consistency: true,
		},
		{
			name:          "configuration",
			err:           errors.WithStack(&ConfigurationError{Message: "bad bind"}),
			configuration: true,
		},
		{
			name: "plain",
			err:  errors.New("something else"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.native, IsNative(tt.err))
			assert.Equal(t, tt.unsupported, IsUnsupported(tt.err))
			assert.Equal(t, tt.consistency, IsConsistency(tt.err))
			assert.Equal(t, tt.configuration, IsConfiguration(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "OCIObjectPin: ORA-04043: object does not exist", (&Error{Op: "OCIObjectPin", Code: 4043, Message: "object does not exist"}).Error())
	assert.Equal(t, "describe: unknown opaque datatype FOOTYPE", NewError("describe", "unknown opaque datatype %s", "FOOTYPE").Error())
	assert.Equal(t, "SYS.XMLTYPE is not supported", (&UnsupportedError{Feature: "SYS.XMLTYPE"}).Error())
	assert.Equal(
		t,
		"unexpected type structure: attribute NAME described as NUMBER, got VARCHAR2",
		(&ConsistencyError{Attribute: "NAME", Described: TypeCodeNumber, Actual: TypeCodeVarchar2}).Error(),
	)
}

func TestTypeCodeString(t *testing.T) {
	assert.Equal(t, "NCLOB", TypeCodeNCLOB.String())
	assert.Equal(t, "TypeCode(999)", TypeCode(999).String())

	code, ok := ParseTypeCode("VARCHAR2")
	assert.True(t, ok)
	assert.Equal(t, TypeCodeVarchar2, code)

	_, ok = ParseTypeCode("NOPE")
	assert.False(t, ok)

	assert.True(t, TypeCodeObject.IsNested())
	assert.True(t, TypeCodeOpaque.IsNested())
	assert.False(t, TypeCodeCLOB.IsNested())
}
