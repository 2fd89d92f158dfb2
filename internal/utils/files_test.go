package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.md")
	require.NoError(t, SafeWriteFile(path, []byte("hello")))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind: %v", err)
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"a\": 1")
	_, err = PrettyJSON(make(chan int))
	assert.Error(t, err, "channels cannot be marshalled")
}

func TestUniquePath(t *testing.T) {
	claimed := map[string]int{}
	got := []string{
		UniquePath("out/metrics.summary.md", claimed),
		UniquePath("out/metrics.summary.md", claimed),
		UniquePath("out/metrics.summary.md", claimed),
		UniquePath("out/other.md", claimed),
	}
	assert.Equal(t, []string{"out/metrics.summary.md", "out/metrics.summary__2.md", "out/metrics.summary__3.md", "out/other.md"}, got)
}
