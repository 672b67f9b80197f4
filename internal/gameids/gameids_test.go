package gameids

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []string
	}{
		{name: "empty file", content: "", expected: nil},
		{name: "one per line", content: "101\n102\n103", expected: []string{"101", "102", "103"}},
		{name: "trailing whitespace and CRLF", content: "101  \r\n102\t\r\n", expected: []string{"101", "102"}},
		{name: "blank lines dropped", content: "\n101\n\n   \n102\n", expected: []string{"101", "102"}},
		{name: "duplicates kept", content: "a\nb\na", expected: []string{"a", "b", "a"}},
		{
			name:     "sportradar uuids",
			content:  "0b3c3c4e-4b1f-4f8b-9d7a-2f3d8d1c9e11\n6c8f9a1b-2d3e-4f5a-8b9c-0d1e2f3a4b5c\n",
			expected: []string{"0b3c3c4e-4b1f-4f8b-9d7a-2f3d8d1c9e11", "6c8f9a1b-2d3e-4f5a-8b9c-0d1e2f3a4b5c"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "gameIds.txt")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			ids, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gameIds.txt")
	require.NoError(t, os.WriteFile(path, []byte("101\n102\n103\n"), 0o600))

	require.NoError(t, Save(path, []string{"102", "103"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "102\n103", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm(), "existing permissions should survive the rewrite")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestSave_EmptyRemainder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameIds.txt")
	require.NoError(t, os.WriteFile(path, []byte("101\n"), 0o644))

	require.NoError(t, Save(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	ids, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSave_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	require.NoError(t, Save(path, []string{"a"}))

	ids, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestSave_MissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "nope", "gameIds.txt"), []string{"a"})
	assert.Error(t, err)
}
