package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StrUniqueWithMaxLen(t *testing.T) {
	t.Run("returns the original string when it fits", func(t *testing.T) {
		out := StrUniqueWithMaxLen("totoro", 6)
		assert.Equal(t, "totoro", out)
	})

	t.Run("truncates and appends a short hash when too long", func(t *testing.T) {
		out := StrUniqueWithMaxLen("totoro", 5)
		assert.Len(t, out, 5)
		assert.Equal(t, "t-8bd", out)
	})

	t.Run("keeps a readable prefix for long resource names", func(t *testing.T) {
		s := "flagdemo-prod-very-long-stack-name-with-suffixes"
		out := StrUniqueWithMaxLen(s, 32)
		assert.Len(t, out, 32)
		assert.Equal(t, s[:28], out[:28])
	})

	t.Run("degrades to hash only for tiny limits", func(t *testing.T) {
		out := StrUniqueWithMaxLen("flagdemo-cluster", 4)
		assert.Len(t, out, 4)
	})
}

func Test_FileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(path, []byte("totoro"), 0o644))

	hash, err := FileHash(path)
	require.NoError(t, err)
	assert.Equal(t, "8bdfbef6654809e6", hash)

	_, err = FileHash(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func Test_StrHashStable(t *testing.T) {
	assert.Equal(t, StrHash("a", "b"), StrHash("a", "b"))
	assert.NotEqual(t, StrHash("a", "b"), StrHash("b", "a"))
}
