package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".postsync", "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("github.token", "ghp_abc"))

	val, ok := store.Get("github.token")
	assert.True(t, ok)
	assert.Equal(t, "ghp_abc", val)
	assert.Equal(t, "ghp_abc", store.GetString("github.token"))
	assert.Empty(t, store.GetString("github.missing"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("github.webhook_secret", "s3cret"))
	require.NoError(t, store.Set("server.addr", ":9000"))
	require.NoError(t, store.Set("server.max_body_bytes", int64(2048)))

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[github]")
	assert.Contains(t, string(content), "[server]")
	assert.Contains(t, string(content), "webhook_secret")
	assert.Contains(t, string(content), "s3cret")
	assert.NotContains(t, string(content), "server.addr")
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "ghp_abc"))
	require.NoError(t, store.Set("server.max_body_bytes", int64(2048)))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_abc", reloaded.GetString("github.token"))
	assert.Equal(t, 2048, reloaded.GetInt("server.max_body_bytes"))
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[github]
token = "ghp_file"
commit_message = "Sync from blog"

[server]
addr = "0.0.0.0:8080"
max_body_bytes = 4096
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ghp_file", store.GetString("github.token"))
	assert.Equal(t, "Sync from blog", store.GetString("github.commit_message"))
	assert.Equal(t, "0.0.0.0:8080", store.GetString("server.addr"))
	assert.Equal(t, 4096, store.GetInt("server.max_body_bytes"))
}

func TestConfigStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "ghp_abc"))

	require.NoError(t, store.Delete("github.token"))
	require.NoError(t, store.Delete("github.token"))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := reloaded.Get("github.token")
	assert.False(t, ok)
}

func TestConfigStore_GetInt_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("server.addr", ":9000"))

	assert.Zero(t, store.GetInt("server.addr"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestConfigStore_Set_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("github", "flat"))

	err = store.Set("github.token", "ghp_abc")
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "ghp_abc"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Set_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("github.token", "ghp_abc"))

	// Replace the file with a directory to cause a write error.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("server.addr", ":9000"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("server.max_body_bytes", int64(n+1))
			_ = store.GetInt("server.max_body_bytes")
		}(i)
	}
	wg.Wait()

	assert.Positive(t, store.GetInt("server.max_body_bytes"))
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{
		"github.token": "t",
		"server.addr":  ":1",
		"top":          true,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"github": map[string]any{"token": "t"},
		"server": map[string]any{"addr": ":1"},
		"top":    true,
	}, nested)
	assert.Equal(t, map[string]any{"github.token": "t", "server.addr": ":1", "top": true}, flattenMap(nested, ""))
}
