package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_games.sql": {Data: []byte("SELECT 1;")},
		"0001_init.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("notes")},
		"nested/x.sql":   {Data: []byte("SELECT 1;")},
	}

	files, err := PendingOrder(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_games.sql"}, files)
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := PendingOrder(Migrations())
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_init.sql", files[0])
}
