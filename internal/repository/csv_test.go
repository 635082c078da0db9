package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCSVSourceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.csv")
	src := NewCSVSource(path, zap.NewNop())

	rows := [][]string{
		{"id", "parent", "text", "data", "type", "extra"},
		{"root1", "", "Клиника", "", "menu", ""},
		{"c1", "root1", "Контакты", "+7 999 123 4567", "phone", "круглосуточно"},
	}

	require.NoError(t, src.ReplaceRows(context.Background(), rows))

	got, err := src.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), zap.NewNop())

	_, err := src.FetchRows(context.Background())
	assert.Error(t, err)
}

func TestCSVSourceRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.csv")
	src := NewCSVSource(path, zap.NewNop())

	rows := [][]string{
		{"id", "parent", "text"},
		{"root1", "", "Клиника", "", "menu"},
		{"x", "root1"},
	}
	require.NoError(t, src.ReplaceRows(context.Background(), rows))

	got, err := src.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Len(t, got[2], 2)
}
