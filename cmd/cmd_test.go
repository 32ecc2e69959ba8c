package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	format, configPath, recursive = "", "", false

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(append([]string{"--fixture", "../testdata/fixture.yaml"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTypes(t *testing.T) {
	out, err := run(t, "types", "--format", "text")
	assert.NoError(t, err)
	assert.Equal(t, `HR.BAG_T OBJECT (1 attributes) -> record
HR.EMP_T OBJECT (7 attributes) -> record
SCOTT.POINT_T OBJECT (2 attributes) -> record
SCOTT.SEGMENT_T OBJECT (3 attributes) -> record
SYS.ANYDATA OPAQUE (0 attributes) -> record
SYS.XMLTYPE OPAQUE (0 attributes) -> record
`, out)
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe", "SCOTT.SEGMENT_T", "--format", "text", "--recursive")
	assert.NoError(t, err)
	assert.Equal(t, `SCOTT.SEGMENT_T(START_POINT SCOTT.POINT_T, END_POINT SCOTT.POINT_T, LABEL VARCHAR2)
  SCOTT.POINT_T(X NUMBER, Y NUMBER)
  SCOTT.POINT_T(X NUMBER, Y NUMBER)
`, out)

	out, err = run(t, "describe", "HR.EMP_T", "--config", "../testdata/config.yaml", "--format", "table")
	assert.NoError(t, err)
	assert.Contains(t, out, "RESUME")
	assert.Contains(t, out, "NCLOB")
	assert.Contains(t, out, "SYS.XMLTYPE")

	out, err = run(t, "describe", "SCOTT.SEGMENT_T", "--format", "json", "--recursive")
	assert.NoError(t, err)
	assert.Contains(t, out, `{"type":"SCOTT.SEGMENT_T","attribute":"START_POINT.X","field":"start_point.x","type_code":"NUMBER","class":"record"}`)

	_, err = run(t, "describe", "HR.BAG_T")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SYS.ANYDATA is not supported")
}

func TestDecode(t *testing.T) {
	out, err := run(t, "decode", "diagonal", "open", "missing")
	assert.NoError(t, err)
	assert.Equal(t, `diagonal: SCOTT.SEGMENT_T{ start_point: SCOTT.POINT_T{ x: 0, y: 0 }, end_point: SCOTT.POINT_T{ x: 3, y: 4.5 }, label: 'diagonal' }
open: SCOTT.SEGMENT_T{ start_point: SCOTT.POINT_T{ x: 1, y: 1 }, end_point: null, label: null }
missing: null
`, out)

	out, err = run(t, "decode", "origin", "--format", "json")
	assert.NoError(t, err)
	assert.Equal(t, `{"instance":"origin","type":"SCOTT.POINT_T","value":{"x":0,"y":0}}`+"\n", out)

	out, err = run(t, "decode", "king", "note", "--config", "../testdata/config.yaml")
	assert.NoError(t, err)
	assert.Contains(t, out, "salary: 5000")
	assert.Contains(t, out, "tenure: +40-06")
	assert.Contains(t, out, "#<NCLOB ")
	assert.Contains(t, out, "<profile><skill>management</skill></profile>")
	assert.Contains(t, out, "note: <note><to>Tove</to></note>")

	out, err = run(t, "decode", "king", "--format", "spew")
	assert.NoError(t, err)
	assert.Contains(t, out, "KING")

	_, err = run(t, "decode", "nobody")
	assert.Error(t, err)

	_, err = run(t, "decode", "origin", "--format", "xml")
	assert.Error(t, err)
}
