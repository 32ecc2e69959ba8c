package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cube2222/ocitdo/native"
	"github.com/cube2222/ocitdo/output"
)

func TestFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewFormatter(buf, 24)
	f.SetSchema(output.StringSchema("attribute", "type"))
	assert.NoError(t, f.Write(output.Strings("X", "NUMBER")))
	assert.NoError(t, f.Write([]native.Value{native.NewString("Y"), native.NewNull()}))
	assert.NoError(t, f.Close())

	out := buf.String()
	assert.Contains(t, out, "attribute")
	assert.Regexp(t, `\|\s+X\s+\|\s+NUMBER\s+\|`, out)
	assert.Regexp(t, `\|\s+Y\s+\|\s+null\s+\|`, out)
}
