package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cube2222/ocitdo/oci"
	"github.com/cube2222/ocitdo/ocimem"
	"github.com/cube2222/ocitdo/registry"
)

func newSession() *ocimem.Session {
	lib := ocimem.NewLibrary()
	lib.MustAddType(ocimem.Type{Schema: "SYS", Name: "ANYDATA", Code: oci.TypeCodeOpaque})
	lib.MustAddType(ocimem.Type{
		Schema:     "HR",
		Name:       "ADDRESS_T",
		Attributes: []ocimem.Attribute{{Name: "CITY", Code: oci.TypeCodeVarchar2}},
	})
	lib.MustAddType(ocimem.Type{
		Schema: "HR",
		Name:   "EMP_T",
		Attributes: []ocimem.Attribute{
			{Name: "NAME", Code: oci.TypeCodeVarchar2},
			{Name: "HOME", Code: oci.TypeCodeObject, TypeName: "HR.ADDRESS_T"},
		},
	})
	return lib.Connect()
}

func TestParseQualifiedName(t *testing.T) {
	tests := []struct {
		in      string
		schema  string
		name    string
		wantErr bool
	}{
		{in: "HR.EMP_T", schema: "HR", name: "EMP_T"},
		{in: "EMP_T", wantErr: true},
		{in: ".EMP_T", wantErr: true},
		{in: "HR.", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			schema, name, err := ParseQualifiedName(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.schema, schema)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestCatalog(t *testing.T) {
	sess := newSession()
	c := New(sess, registry.NewMapping())

	emp, err := c.DescribeQualified("HR.EMP_T")
	assert.NoError(t, err)
	again, err := c.Describe("HR", "EMP_T")
	assert.NoError(t, err)
	assert.True(t, emp == again)

	address, err := c.Describe("HR", "ADDRESS_T")
	assert.NoError(t, err)
	assert.True(t, address.Equal(emp.Attributes[1].Type))

	assert.Equal(t, []string{"HR.ADDRESS_T", "HR.EMP_T"}, c.Names())
	assert.Equal(t, 2, c.Len())

	got, ok := c.Get("HR.EMP_T")
	assert.True(t, ok)
	assert.True(t, got == emp)
	_, ok = c.Get("HR.DEPT_T")
	assert.False(t, ok)

	assert.NoError(t, c.Evict("HR.ADDRESS_T"))
	assert.NoError(t, c.Evict("HR.ADDRESS_T"))
	assert.Equal(t, []string{"HR.EMP_T"}, c.Names())

	assert.NoError(t, c.Close())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, sess.OpenPins())
	assert.Equal(t, 0, sess.OpenDescribes())
}

func TestCatalogErrors(t *testing.T) {
	sess := newSession()
	c := New(sess, registry.NewMapping())

	_, err := c.Describe("HR", "DEPT_T")
	assert.True(t, oci.IsNative(err), "got %v", err)

	_, err = c.Describe("SYS", "ANYDATA")
	assert.True(t, oci.IsUnsupported(err), "got %v", err)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, sess.OpenDescribes())
	assert.Equal(t, 0, sess.OpenPins())

	_, err = c.DescribeQualified("EMP_T")
	assert.Error(t, err)

	hidden := New(struct{ oci.Session }{sess}, registry.NewMapping())
	_, err = hidden.Describe("HR", "EMP_T")
	assert.True(t, oci.IsUnsupported(err), "got %v", err)
}
