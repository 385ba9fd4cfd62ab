package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	file, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sqlite, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		DriverFile:   file,
		DriverSQLite: sqlite,
		DriverMemory: NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "jobsight_compare_v1", []byte(`[1]`)))
			require.NoError(t, s.Set(ctx, "jobsight_compare_v1", []byte(`[1,2]`)))

			got, err := s.Get(ctx, "jobsight_compare_v1")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, s.Delete(ctx, "jobsight_compare_v1"))
			require.NoError(t, s.Delete(ctx, "jobsight_compare_v1"), "deleting twice is fine")

			_, err = s.Get(ctx, "jobsight_compare_v1")
			require.ErrorIs(t, err, ErrNotFound)

			assert.Error(t, s.Set(ctx, "../escape", []byte(`{}`)))
		})
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	first, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", []byte("v")))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

type profile struct {
	Name string `json:"name"`
}

func TestLoadJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	def := profile{Name: "default"}

	got, err := LoadJSON(ctx, s, "profile", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	require.NoError(t, s.Set(ctx, "profile", []byte("{not json")))
	got, err = LoadJSON(ctx, s, "profile", def)
	require.NoError(t, err, "malformed values read as the default")
	assert.Equal(t, def, got)

	require.NoError(t, SaveJSON(ctx, s, "profile", profile{Name: "Ada"}))
	got, err = LoadJSON(ctx, s, "profile", def)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverSQLite, Path: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Config{Path: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Driver: "etcd"})
	require.Error(t, err)
}
