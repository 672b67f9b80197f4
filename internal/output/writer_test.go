package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxscore-fetcher/config"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriter_JSONCompactsToOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.txt")
	w, err := NewWriter(path, config.FormatJSON, false)
	require.NoError(t, err)

	require.NoError(t, w.Write([]byte("[\n  {\"full_name\": \"Jayson Tatum\",\n   \"points\": 30}\n]\n")))
	require.NoError(t, w.Write([]byte(`{"gameId":"102"}`)))
	require.NoError(t, w.Close())

	assert.Equal(t, 2, w.Lines())
	assert.Equal(t, "[{\"full_name\":\"Jayson Tatum\",\"points\":30}]\n{\"gameId\":\"102\"}\n", readFile(t, path))
}

func TestWriter_JSONRejectsInvalidBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.txt")
	w, err := NewWriter(path, config.FormatJSON, false)
	require.NoError(t, err)

	err = w.Write([]byte("Server error"))
	assert.ErrorIs(t, err, ErrInvalidJSON)
	require.NoError(t, w.Close())

	assert.Equal(t, 0, w.Lines())
	assert.Empty(t, readFile(t, path))
}

func TestWriter_RawKeepsBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.txt")
	w, err := NewWriter(path, config.FormatRaw, false)
	require.NoError(t, err)

	require.NoError(t, w.Write([]byte("not json at all\r\n")))
	require.NoError(t, w.Write([]byte(`{"a": 1}`)))
	require.NoError(t, w.Close())

	assert.Equal(t, "not json at all\n{\"a\": 1}\n", readFile(t, path))
}

func TestWriter_TruncateAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.txt")
	require.NoError(t, os.WriteFile(path, []byte("{\"old\":true}\n"), 0o644))

	w, err := NewWriter(path, config.FormatJSON, true)
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte(`{"new":true}`)))
	require.NoError(t, w.Close())
	assert.Equal(t, "{\"old\":true}\n{\"new\":true}\n", readFile(t, path))

	w, err = NewWriter(path, config.FormatJSON, false)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Empty(t, readFile(t, path), "a non-append run starts from an empty file")
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "out"), "csv", false)
	assert.Error(t, err)
}

// shortFile writes only the first half of the next record and then fails.
type shortFile struct {
	*os.File
	failNext bool
}

func (f *shortFile) Write(p []byte) (int, error) {
	if !f.failNext {
		return f.File.Write(p)
	}
	f.failNext = false
	n, _ := f.File.Write(p[:len(p)/2])
	return n, errors.New("disk full")
}

func TestWriter_PartialWriteIsRolledBack(t *testing.T) {
	for _, appendMode := range []bool{false, true} {
		name := "truncate"
		if appendMode {
			name = "append"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "responses.txt")
			require.NoError(t, os.WriteFile(path, []byte("{\"old\":true}\n"), 0o644))

			flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
			expectedPrefix := ""
			if appendMode {
				flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
				expectedPrefix = "{\"old\":true}\n"
			}
			osFile, err := os.OpenFile(path, flags, 0o644)
			require.NoError(t, err)
			f := &shortFile{File: osFile}
			w, err := newWriter(f, config.FormatJSON)
			require.NoError(t, err)

			require.NoError(t, w.Write([]byte(`{"gameId":"101"}`)))

			f.failNext = true
			err = w.Write([]byte(`{"gameId":"102","players":["a long enough body to split"]}`))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "disk full")
			assert.Equal(t, expectedPrefix+"{\"gameId\":\"101\"}\n", readFile(t, path), "the partial line must not stay in the file")

			require.NoError(t, w.Write([]byte(`{"gameId":"103"}`)))
			require.NoError(t, w.Close())

			assert.Equal(t, 2, w.Lines())
			assert.Equal(t, expectedPrefix+"{\"gameId\":\"101\"}\n{\"gameId\":\"103\"}\n", readFile(t, path))
		})
	}
}
