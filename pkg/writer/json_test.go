package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONWriterCompact(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter[sample]()

	require.NoError(t, w.Write(sample{Name: "pool-worker", Count: 3}, &buf))
	assert.Equal(t, `{"name":"pool-worker","count":3}`+"\n", buf.String())
}

func TestJSONWriterPretty(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrettyJSONWriter[sample]()

	require.NoError(t, w.Write(sample{Name: "pool-worker", Count: 3}, &buf))
	assert.True(t, strings.Contains(buf.String(), "\n  \"name\""))
}

func TestJSONWriterWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	w := NewPrettyJSONWriter[sample]()

	require.NoError(t, w.WriteToFile(sample{Name: "x", Count: 1}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "x"`)
}

func TestJSONWriterWriteToFileBadPath(t *testing.T) {
	w := NewJSONWriter[sample]()
	err := w.WriteToFile(sample{}, filepath.Join(t.TempDir(), "missing", "report.json"))
	assert.Error(t, err)
}
