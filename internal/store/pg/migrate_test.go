package pg

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	migrations "github.com/dropDatabas3/castingagency/migrations/postgres"
)

func TestMigrator_ParseEmbedded(t *testing.T) {
	migs, err := NewMigrator(migrations.FS, ".").Parse()
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, 1, migs[0].Version)
	assert.Equal(t, "initial", migs[0].Name)
	assert.Contains(t, migs[0].Up, "CREATE TABLE IF NOT EXISTS casting")
	assert.Contains(t, migs[0].Down, "DROP TABLE IF EXISTS casting")
}

func TestMigrator_ParseOrdersAndPairs(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_more_up.sql":      {Data: []byte("B")},
		"0001_initial_up.sql":   {Data: []byte("A")},
		"0001_initial_down.sql": {Data: []byte("a")},
		"README.md":             {Data: []byte("ignored")},
	}
	migs, err := NewMigrator(fsys, ".").Parse()
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, Migration{Version: 1, Name: "initial", Up: "A", Down: "a"}, migs[0])
	assert.Equal(t, Migration{Version: 2, Name: "more", Up: "B"}, migs[1])
}

func TestMigrator_ParseRejectsDownWithoutUp(t *testing.T) {
	fsys := fstest.MapFS{"0003_x_down.sql": {Data: []byte("x")}}
	_, err := NewMigrator(fsys, ".").Parse()
	require.Error(t, err)
}
