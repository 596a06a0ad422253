package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxcert/migrations"
)

func TestUpMigrationsOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_b.up.sql":   {Data: []byte("select 2")},
		"000001_a.up.sql":   {Data: []byte("select 1")},
		"000001_a.down.sql": {Data: []byte("drop")},
		"README.md":         {Data: []byte("x")},
	}
	files, err := upMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a.up.sql", "000002_b.up.sql"}, files)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := upMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Contains(t, files, "000001_registry.up.sql")
	assert.Contains(t, files, "000002_call_nonces.up.sql")
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)

	var p *Pool
	assert.Error(t, p.Health(context.Background()))
	assert.NoError(t, p.Close())
}
