package ocimem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cube2222/ocitdo/oci"
)

func newTestLibrary() *Library {
	lib := NewLibrary()
	lib.MustAddType(Type{Schema: "SYS", Name: "XMLTYPE", Code: oci.TypeCodeOpaque})
	lib.MustAddType(Type{
		Schema: "SCOTT",
		Name:   "POINT_T",
		Attributes: []Attribute{
			{Name: "X", Code: oci.TypeCodeNumber},
			{Name: "Y", Code: oci.TypeCodeNumber},
		},
	})
	lib.MustAddType(Type{
		Schema: "SCOTT",
		Name:   "SEGMENT_T",
		Attributes: []Attribute{
			{Name: "START_POINT", Code: oci.TypeCodeObject, TypeName: "SCOTT.POINT_T"},
			{Name: "LABEL", Code: oci.TypeCodeVarchar2},
			{Name: "NOTE", Code: oci.TypeCodeNCLOB},
		},
	})
	return lib
}

func TestAddType(t *testing.T) {
	lib := newTestLibrary()

	_, err := lib.AddType(Type{Schema: "SCOTT", Name: "POINT_T"})
	assert.Error(t, err)

	_, err = lib.AddType(Type{Schema: "SCOTT", Name: "LINE_T", Attributes: []Attribute{
		{Name: "A", Code: oci.TypeCodeObject, TypeName: "SCOTT.VECTOR_T"},
	}})
	assert.Error(t, err)

	_, err = lib.AddType(Type{Schema: "SCOTT", Name: "SCALAR_T", Code: oci.TypeCodeNumber})
	assert.Error(t, err)

	assert.Equal(t, []string{"SCOTT.POINT_T", "SCOTT.SEGMENT_T", "SYS.XMLTYPE"}, lib.Types())

	typ, ok := lib.Type("SCOTT.POINT_T")
	assert.True(t, ok)
	assert.Equal(t, oci.TypeCodeObject, typ.Code)
	_, ok = lib.Type("SCOTT.LINE_T")
	assert.False(t, ok)

	_, err = lib.LookupType("SCOTT", "LINE_T")
	assert.True(t, oci.IsNative(err), "got %v", err)
}

func TestPins(t *testing.T) {
	sess := newTestLibrary().Connect()
	assert.Len(t, sess.ID(), 26)

	ref, err := sess.LookupType("SCOTT", "POINT_T")
	assert.NoError(t, err)

	first, err := sess.Pin(ref)
	assert.NoError(t, err)
	second, err := sess.Pin(ref)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, sess.OpenPins())

	code, err := sess.TypeCodeOf(first)
	assert.NoError(t, err)
	assert.Equal(t, oci.TypeCodeObject, code)

	assert.NoError(t, sess.Unpin(first))
	assert.NoError(t, sess.Unpin(first))
	assert.Equal(t, 0, sess.OpenPins())
	assert.True(t, oci.IsNative(sess.Unpin(first)))

	_, err = sess.TypeCodeOf(first)
	assert.True(t, oci.IsNative(err))

	_, err = sess.Pin(oci.Ref(0x42))
	assert.True(t, oci.IsNative(err))
}

func TestDescribeHandles(t *testing.T) {
	sess := newTestLibrary().Connect()
	ref, err := sess.LookupType("SCOTT", "SEGMENT_T")
	assert.NoError(t, err)

	d, err := sess.DescribeAny(ref)
	assert.NoError(t, err)
	assert.Equal(t, 1, sess.OpenDescribes())

	param, err := d.Param()
	assert.NoError(t, err)
	count, err := param.NumTypeAttrs()
	assert.NoError(t, err)
	assert.Equal(t, 3, count)

	note, err := param.TypeAttr(2)
	assert.NoError(t, err)
	code, err := note.TypeCode()
	assert.NoError(t, err)
	assert.Equal(t, oci.TypeCodeCLOB, code)
	form, err := note.CharsetForm()
	assert.NoError(t, err)
	assert.Equal(t, oci.CharsetFormNChar, form)

	_, err = param.TypeAttr(3)
	assert.True(t, oci.IsNative(err))

	assert.NoError(t, d.Free())
	assert.Equal(t, 0, sess.OpenDescribes())
	assert.True(t, oci.IsNative(d.Free()))
	_, err = d.Param()
	assert.True(t, oci.IsNative(err))
}

func TestInstances(t *testing.T) {
	sess := newTestLibrary().Connect()
	ptr, nsPtr, err := sess.NewInstance("SCOTT.SEGMENT_T", map[string]interface{}{
		"START_POINT": map[string]interface{}{"X": 1, "Y": "2.50"},
		"NOTE":        "hello",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, sess.LiveObjects())

	ns, err := sess.NullStructOf(ptr)
	assert.NoError(t, err)
	assert.Equal(t, nsPtr, ns)

	null, err := sess.IsNull(nsPtr)
	assert.NoError(t, err)
	assert.False(t, null)

	ref, err := sess.LookupType("SCOTT", "SEGMENT_T")
	assert.NoError(t, err)
	handle, err := sess.Pin(ref)
	assert.NoError(t, err)

	label, err := sess.GetAttr(ptr, nsPtr, handle, []byte("LABEL"))
	assert.NoError(t, err)
	assert.True(t, label.Null)

	note, err := sess.GetAttr(ptr, nsPtr, handle, []byte("NOTE"))
	assert.NoError(t, err)
	assert.False(t, note.Null)
	code, err := sess.TypeCodeOf(note.Type)
	assert.NoError(t, err)
	assert.Equal(t, oci.TypeCodeCLOB, code)
	locator, err := sess.ReadLobLocator(note.Value)
	assert.NoError(t, err)
	contents, err := sess.LobContents(locator)
	assert.NoError(t, err)
	assert.Equal(t, "hello", string(contents))

	start, err := sess.GetAttr(ptr, nsPtr, handle, []byte("START_POINT"))
	assert.NoError(t, err)
	code, err = sess.TypeCodeOf(start.Type)
	assert.NoError(t, err)
	assert.Equal(t, oci.TypeCodeObject, code)

	y, err := sess.GetAttr(start.Value, start.NullStruct, start.Type, []byte("Y"))
	assert.NoError(t, err)
	number, err := sess.ReadNumber(y.Value)
	assert.NoError(t, err)
	assert.Equal(t, "2.5", number.String())

	_, err = sess.GetAttr(ptr, nsPtr, handle, []byte("WIDTH"))
	assert.True(t, oci.IsNative(err))
	_, err = sess.GetAttr(ptr, nsPtr, start.Type, []byte("LABEL"))
	assert.True(t, oci.IsNative(err))

	assert.NoError(t, sess.SetNull(nsPtr, true))
	null, err = sess.IsNull(nsPtr)
	assert.NoError(t, err)
	assert.True(t, null)

	assert.NoError(t, sess.ObjectFree(ptr))
	assert.Equal(t, 0, sess.LiveObjects())
	assert.Equal(t, 2, sess.FreedObjects())
	assert.True(t, oci.IsNative(sess.ObjectFree(ptr)))

	assert.NoError(t, sess.Unpin(handle))
	assert.Equal(t, 0, sess.OpenPins())
}

func TestObjectNew(t *testing.T) {
	sess := newTestLibrary().Connect()

	pointRef, err := sess.LookupType("SCOTT", "POINT_T")
	assert.NoError(t, err)
	point, err := sess.Pin(pointRef)
	assert.NoError(t, err)

	ptr, err := sess.ObjectNew(oci.TypeCodeObject, point)
	assert.NoError(t, err)
	x, err := sess.GetAttr(ptr, 0, point, []byte("X"))
	assert.NoError(t, err)
	assert.True(t, x.Null)

	_, err = sess.ObjectNew(oci.TypeCodeOpaque, point)
	assert.True(t, oci.IsNative(err))

	xmlRef, err := sess.LookupType("SYS", "XMLTYPE")
	assert.NoError(t, err)
	xml, err := sess.Pin(xmlRef)
	assert.NoError(t, err)
	doc, err := sess.ObjectNew(oci.TypeCodeOpaque, xml)
	assert.NoError(t, err)
	assert.NoError(t, sess.SetOpaque(doc, "<a/>"))

	assert.NoError(t, sess.ObjectFree(ptr))
	assert.NoError(t, sess.ObjectFree(doc))
	assert.Equal(t, 2, sess.FreedObjects())
	assert.Error(t, sess.SetOpaque(doc, "<b/>"))
}

func TestScalarCells(t *testing.T) {
	sess := newTestLibrary().Connect()

	tests := []struct {
		name  string
		code  oci.TypeCode
		value interface{}
		check func(t *testing.T, p oci.Pointer)
	}{
		{
			name:  "date",
			code:  oci.TypeCodeDate,
			value: "1981-11-17",
			check: func(t *testing.T, p oci.Pointer) {
				got, err := sess.ReadDate(p)
				assert.NoError(t, err)
				assert.Equal(t, time.Date(1981, 11, 17, 0, 0, 0, 0, time.UTC), got)
			},
		},
		{
			name:  "year to month",
			code:  oci.TypeCodeIntervalYM,
			value: "-1-3",
			check: func(t *testing.T, p oci.Pointer) {
				years, months, err := sess.ReadIntervalYM(p)
				assert.NoError(t, err)
				assert.Equal(t, -1, years)
				assert.Equal(t, -3, months)
			},
		},
		{
			name:  "month count",
			code:  oci.TypeCodeIntervalYM,
			value: 27,
			check: func(t *testing.T, p oci.Pointer) {
				years, months, err := sess.ReadIntervalYM(p)
				assert.NoError(t, err)
				assert.Equal(t, 2, years)
				assert.Equal(t, 3, months)
			},
		},
		{
			name:  "day to second",
			code:  oci.TypeCodeIntervalDS,
			value: "26h3s",
			check: func(t *testing.T, p oci.Pointer) {
				got, err := sess.ReadIntervalDS(p)
				assert.NoError(t, err)
				assert.Equal(t, 26*time.Hour+3*time.Second, got)
			},
		},
		{
			name:  "binary float",
			code:  oci.TypeCodeBFloat,
			value: 1.5,
			check: func(t *testing.T, p oci.Pointer) {
				got, err := sess.ReadFloat32(p)
				assert.NoError(t, err)
				assert.Equal(t, float32(1.5), got)
			},
		},
		{
			name:  "raw",
			code:  oci.TypeCodeRaw,
			value: []byte{0xca, 0xfe},
			check: func(t *testing.T, p oci.Pointer) {
				got, err := sess.ReadString(p)
				assert.NoError(t, err)
				assert.Equal(t, []byte{0xca, 0xfe}, got)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := sess.encodeScalar(tt.code, tt.value)
			assert.NoError(t, err)
			tt.check(t, p)
		})
	}

	_, err := sess.encodeScalar(oci.TypeCodeNumber, "ten")
	assert.Error(t, err)
	_, err = sess.encodeScalar(oci.TypeCodeRef, "x")
	assert.Error(t, err)

	_, err = sess.ReadNumber(oci.Pointer(0x42))
	assert.True(t, oci.IsNative(err))
	p, err := sess.encodeScalar(oci.TypeCodeVarchar2, "abc")
	assert.NoError(t, err)
	_, _, err = sess.ReadIntervalYM(p)
	assert.True(t, oci.IsNative(err))
}

func TestXMLContext(t *testing.T) {
	lib := newTestLibrary()
	sess := lib.Connect()
	_, err := sess.InitXMLContext()
	assert.True(t, oci.IsUnsupported(err), "got %v", err)

	lib.XML = true
	ctx, err := sess.InitXMLContext()
	assert.NoError(t, err)
	assert.Equal(t, 1, sess.OpenXMLContexts())

	doc, err := sess.NewOpaque("<a/>")
	assert.NoError(t, err)
	data, err := ctx.SerializeNode(doc)
	assert.NoError(t, err)
	assert.Equal(t, "<a/>", string(data))

	assert.NoError(t, ctx.Free())
	assert.Equal(t, 0, sess.OpenXMLContexts())
	assert.True(t, oci.IsNative(ctx.Free()))
	_, err = ctx.SerializeNode(doc)
	assert.True(t, oci.IsNative(err))
}

func TestFixture(t *testing.T) {
	fixture, err := ReadFixture("../testdata/fixture.yaml")
	assert.NoError(t, err)
	assert.True(t, fixture.XML)

	lib, err := NewLibraryFromFixture(fixture)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"HR.BAG_T",
		"HR.EMP_T",
		"SCOTT.POINT_T",
		"SCOTT.SEGMENT_T",
		"SYS.ANYDATA",
		"SYS.XMLTYPE",
	}, lib.Types())

	sess := lib.Connect()
	ptr, nsPtr, typeName, err := sess.Instance(fixture, "missing")
	assert.NoError(t, err)
	assert.Equal(t, "SCOTT.POINT_T", typeName)
	assert.NotZero(t, ptr)
	null, err := sess.IsNull(nsPtr)
	assert.NoError(t, err)
	assert.True(t, null)

	ptr, nsPtr, typeName, err = sess.Instance(fixture, "note")
	assert.NoError(t, err)
	assert.Equal(t, "SYS.XMLTYPE", typeName)
	assert.Zero(t, nsPtr)
	ctx, err := sess.InitXMLContext()
	assert.NoError(t, err)
	data, err := ctx.SerializeNode(ptr)
	assert.NoError(t, err)
	assert.Equal(t, "<note><to>Tove</to></note>", string(data))

	_, _, _, err = sess.Instance(fixture, "nobody")
	assert.Error(t, err)

	_, err = ReadFixture("../testdata/nonexistent.yaml")
	assert.Error(t, err)

	_, err = NewLibraryFromFixture(&Fixture{Types: []FixtureType{{
		Schema:     "SCOTT",
		Name:       "BAD_T",
		Attributes: []FixtureAttribute{{Name: "A", Type: "NOT A TYPE"}},
	}}})
	assert.Error(t, err)
}
