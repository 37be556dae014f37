package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Invoice Indexes")

	require.NoError(t, err)
	assert.Contains(t, filepath.Base(mf.UpPath), "add_invoice_indexes.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_invoice_indexes.down.sql")

	for _, p := range []string{mf.UpPath, mf.DownPath} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Add Invoice Indexes")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"create units", "create_units"},
		{"Create--Units", "create_units"},
		{"trailing dash-", "trailing_dash"},
		{"MiXeD42", "mixed42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in))
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "first")
	require.NoError(t, err)

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Contains(t, names[0], "first")

	empty, err := ListMigrations(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
