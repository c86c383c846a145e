// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "springer-api-key", "  sk_abc123  \n")
				writeFile(t, dir, "wiley-api-key", "wk_xyz789")
				writeFile(t, dir, "crossref-mailto", "user@example.com\n")
				return dir
			},
			want: map[string]string{
				"springer-api-key": "sk_abc123",
				"wiley-api-key":    "wk_xyz789",
				"crossref-mailto":  "user@example.com",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "pubmed-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"pubmed-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "springer-api-key", "pk_real")
				return dir
			},
			want: map[string]string{
				"springer-api-key": "pk_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "pubmed-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"pubmed-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStoreLookup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "springer-api-key", "from-file")
	writeFile(t, dir, "wiley-api-key", "wiley-file")

	env := map[string]string{"SPRINGER_API_KEY": "from-env", "PUBMED_API_KEY": "  "}
	files, err := Load(dir)
	require.NoError(t, err)
	s := &Store{files: files, getenv: func(k string) string { return env[k] }}

	v, ok := s.Lookup(SpringerAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "from-env", v, "environment wins over the secrets directory")

	assert.Equal(t, "wiley-file", s.Get(WileyAPIKey))

	_, ok = s.Lookup(PubMedAPIKey)
	assert.False(t, ok, "blank environment value is not a credential")

	var nilStore *Store
	_, ok = nilStore.Lookup(CrossrefMailto)
	assert.False(t, ok)
}

func TestOpenLoadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, dir, ".env", "LITHARVEST_TEST_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("LITHARVEST_TEST_KEY") })

	s, err := Open(envFile, filepath.Join(dir, "secrets"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", s.Get("LITHARVEST_TEST_KEY"))
}

func TestOpenDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "LITHARVEST_TEST_KEY=from-dotenv\n")
	t.Setenv("LITHARVEST_TEST_KEY", "from-shell")

	s, err := Open(filepath.Join(dir, ".env"), dir)
	require.NoError(t, err)
	assert.Equal(t, "from-shell", s.Get("LITHARVEST_TEST_KEY"))
}

func TestOpenMissingDotEnv(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), ".env"), t.TempDir())
	require.NoError(t, err)
	_, ok := s.Lookup("LITHARVEST_UNSET_KEY")
	assert.False(t, ok)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "springer-api-key", FileName(SpringerAPIKey))
	assert.Equal(t, "crossref-mailto", FileName(CrossrefMailto))
}
