package native

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cube2222/ocitdo/oci"
)

func TestValueString(t *testing.T) {
	doc := etree.NewDocument()
	doc.CreateElement("a").SetText("b")

	point := NewObject(
		NewObjectType("SCOTT", "POINT_T", []StructField{{Name: "x", Type: Number}, {Name: "y", Type: Null}}),
		[]Value{NewNumber(decimal.RequireFromString("1.5")), NewNull()},
	)

	tests := []struct {
		value Value
		want  string
	}{
		{value: NewNull(), want: "null"},
		{value: NewInt(42), want: "42"},
		{value: NewFloat(0.25), want: "0.25"},
		{value: NewNumber(decimal.RequireFromString("123.456")), want: "123.456"},
		{value: NewString("abc"), want: "'abc'"},
		{value: NewBytes([]byte{0xde, 0xad}), want: "0xdead"},
		{value: NewTime(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)), want: "2020-01-02T03:04:05Z"},
		{value: NewDuration(90 * time.Second), want: "1m30s"},
		{value: NewIntervalYM(2, 3), want: "+02-03"},
		{value: NewIntervalYM(-1, -6), want: "-01-06"},
		{value: NewLob(LobLocator{Kind: oci.TypeCodeNCLOB, Locator: 0x10}), want: "#<NCLOB 0x10>"},
		{value: NewXML(doc), want: "<a>b</a>"},
		{value: point, want: "SCOTT.POINT_T{ x: 1.5, y: null }"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValueField(t *testing.T) {
	record := NewObject(
		NewObjectType("", "PAIR", []StructField{{Name: "a", Type: Int}, {Name: "b", Type: String}}),
		[]Value{NewInt(1), NewString("two")},
	)

	b, ok := record.Field("b")
	assert.True(t, ok)
	assert.Equal(t, NewString("two"), b)

	_, ok = record.Field("c")
	assert.False(t, ok)

	_, ok = NewInt(3).Field("a")
	assert.False(t, ok)

	assert.Equal(t, map[string]interface{}{"a": 1, "b": "two"}, record.ToRawGoValue())
	assert.Equal(t, "PAIR{a: Int; b: String}", record.Type.String())
}
