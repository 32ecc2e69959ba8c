package table

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/cube2222/ocitdo/native"
)

type Formatter struct {
	table *tablewriter.Table
}

func NewFormatter(w io.Writer, colWidth int) *Formatter {
	table := tablewriter.NewWriter(w)
	table.SetColWidth(colWidth)
	table.SetRowLine(false)

	return &Formatter{
		table: table,
	}
}

func (t *Formatter) SetSchema(fields []native.StructField) {
	header := make([]string, len(fields))
	for i := range fields {
		header[i] = fields[i].Name
	}
	t.table.SetHeader(header)
	t.table.SetAutoFormatHeaders(false)
}

func (t *Formatter) Write(values []native.Value) error {
	row := make([]string, len(values))
	for i := range values {
		if values[i].Type.TypeID == native.TypeIDString {
			row[i] = values[i].Str
			continue
		}
		row[i] = values[i].String()
	}
	t.table.Append(row)
	return nil
}

func (t *Formatter) Close() error {
	t.table.Render()
	return nil
}
