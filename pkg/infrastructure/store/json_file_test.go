package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railbook/pkg/application"
)

type record struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

func TestJSONFileStore_LoadAllCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "users.json")
	s := NewJSONFileStore[record](path, application.NopLogger{})

	records, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONFileStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trains.json")
	s := NewJSONFileStore[record](path, application.NopLogger{})
	ctx := context.Background()

	want := []record{
		{ID: "b", Tags: []string{"x"}},
		{ID: "a", Tags: []string{"y", "z"}},
	}
	require.NoError(t, s.SaveAll(ctx, want))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestJSONFileStore_SaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	s := NewJSONFileStore[record](path, application.NopLogger{})

	require.NoError(t, s.SaveAll(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONFileStore_LoadAllCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trains.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewJSONFileStore[record](path, application.NopLogger{})
	_, err := s.LoadAll(context.Background())
	assert.Error(t, err)
}

func TestJSONFileStore_CanceledContext(t *testing.T) {
	s := NewJSONFileStore[record](filepath.Join(t.TempDir(), "x.json"), application.NopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.SaveAll(ctx, nil), context.Canceled)
}
