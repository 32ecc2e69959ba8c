package output

import (
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/cube2222/ocitdo/native"
)

// SpewFormatter dumps every row with its full Go structure.
type SpewFormatter struct {
	w      io.Writer
	config *spew.ConfigState
	fields []native.StructField
}

func NewSpewFormatter(w io.Writer) *SpewFormatter {
	return &SpewFormatter{
		w: w,
		config: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

func (s *SpewFormatter) SetSchema(fields []native.StructField) {
	s.fields = fields
}

func (s *SpewFormatter) Write(values []native.Value) error {
	row := make(map[string]interface{}, len(values))
	for i := range values {
		if values[i].Type.TypeID == native.TypeIDXML {
			row[s.fields[i].Name] = values[i].String()
			continue
		}
		row[s.fields[i].Name] = values[i].ToRawGoValue()
	}
	s.config.Fdump(s.w, row)
	return nil
}

func (s *SpewFormatter) Close() error {
	return nil
}
