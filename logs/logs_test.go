package logs

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializeFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs.txt")

	assert.NoError(t, InitializeFileLogger(path))
	log.Printf("described type %s", "SCOTT.POINT_T")
	CloseLogger()
	CloseLogger()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "described type SCOTT.POINT_T")
}
