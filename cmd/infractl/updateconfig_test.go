package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changedSet(names ...string) func(string) bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestBuildDocument(t *testing.T) {
	t.Run("flags over defaults", func(t *testing.T) {
		flags := &updateConfigFlags{featureX: true, maxUsers: 3}

		doc, err := buildDocument(flags, changedSet("feature-x", "max-users"))
		require.NoError(t, err)

		assert.True(t, doc.FeatureXEnabled)
		assert.Equal(t, 3, doc.MaxUsers)
		// Untouched keys keep the defaults.
		assert.Equal(t, "https://api.example.com", doc.APIURL)
		assert.False(t, doc.DebugMode)
	})

	t.Run("unset flags never override", func(t *testing.T) {
		flags := &updateConfigFlags{featureX: false, apiURL: ""}

		doc, err := buildDocument(flags, changedSet())
		require.NoError(t, err)

		assert.Equal(t, "https://api.example.com", doc.APIURL)
		assert.Equal(t, 100, doc.MaxUsers)
	})

	t.Run("explicit false wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "flags.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"featureXEnabled": true, "debugMode": true}`), 0o644))

		flags := &updateConfigFlags{fromFile: path, debug: false}

		doc, err := buildDocument(flags, changedSet("debug"))
		require.NoError(t, err)

		assert.True(t, doc.FeatureXEnabled, "file value kept")
		assert.False(t, doc.DebugMode, "explicit flag overrides the file")
	})

	t.Run("file plus flag overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "flags.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"featureXEnabled": true, "maxUsers": 50}`), 0o644))

		flags := &updateConfigFlags{fromFile: path, maxUsers: 10}

		doc, err := buildDocument(flags, changedSet("max-users"))
		require.NoError(t, err)

		assert.True(t, doc.FeatureXEnabled)
		assert.Equal(t, 10, doc.MaxUsers)
	})

	t.Run("rejects malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "flags.json")
		require.NoError(t, os.WriteFile(path, []byte(`["nope"]`), 0o644))

		_, err := buildDocument(&updateConfigFlags{fromFile: path}, changedSet())
		assert.Error(t, err)
	})
}
