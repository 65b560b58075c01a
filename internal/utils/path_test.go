package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "empty path", input: "", wantError: true},
		{name: "relative path", input: "./test", wantError: false},
		{name: "absolute path", input: "/tmp/test", wantError: false},
		{name: "home path", input: "~/talentbase", wantError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolvePath(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(result))
			assert.NotContains(t, result, "~")
		})
	}
}

func TestEnsureParent(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "a", "b", "state.db")

	require.NoError(t, EnsureParent(target))
	assert.DirExists(t, filepath.Join(tmp, "a", "b"))

	// idempotent
	require.NoError(t, EnsureParent(target))

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}
