package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	out := make(map[string]KV)
	for _, name := range []string{BackendFile, BackendSQLite} {
		kv, err := Open(name, t.TempDir())
		require.NoError(t, err, "opening %s backend", name)
		t.Cleanup(func() { kv.Close() })
		out[name] = kv
	}
	return out
}

func TestKV_GetPut(t *testing.T) {
	for name, kv := range backends(t) {
		_, err := kv.Get(KeyBudget)
		assert.ErrorIs(t, err, ErrNotFound, name)

		require.NoError(t, kv.Put(KeyBudget, []byte("1500")), name)
		got, err := kv.Get(KeyBudget)
		require.NoError(t, err, name)
		assert.Equal(t, "1500", string(got), name)

		require.NoError(t, kv.Put(KeyBudget, []byte("1750.25")), name)
		got, err = kv.Get(KeyBudget)
		require.NoError(t, err, name)
		assert.Equal(t, "1750.25", string(got), "%s: put replaces the value", name)
	}
}

func TestKV_KeysIndependent(t *testing.T) {
	for name, kv := range backends(t) {
		require.NoError(t, kv.Put(KeyTransactions, []byte("[]")), name)
		_, err := kv.Get(KeySubscriptions)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestFileKV_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Put(KeyTransactions, []byte(`[{"id":"a"}]`)))
	require.NoError(t, kv.Put(KeyTransactions, []byte(`[]`)))

	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyTransactions+".json", entries[0].Name())
}

func TestSQLiteKV_Reopen(t *testing.T) {
	dir := t.TempDir()
	kv, err := Open(BackendSQLite, dir)
	require.NoError(t, err)
	require.NoError(t, kv.Put(KeyBudget, []byte("900")))
	require.NoError(t, kv.Close())

	kv, err = Open(BackendSQLite, dir)
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get(KeyBudget)
	require.NoError(t, err)
	assert.Equal(t, "900", string(got))
	assert.FileExists(t, filepath.Join(dir, DatabaseFile))
}
