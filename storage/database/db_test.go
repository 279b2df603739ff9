package database

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
)

func sqliteConfig(dir string) *core.Config {
	return &core.Config{
		WorkDir: dir,
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   filepath.Join("nested", "dir", "results.db"),
		},
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(sqliteConfig(dir))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.FileExists(t, filepath.Join(dir, "nested", "dir", "results.db"))
	assert.Equal(t, core.EngineSQLite, db.DriverName())

	var fk int
	require.NoError(t, db.Get(&fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestOpen_unknownEngine(t *testing.T) {
	conf := sqliteConfig(t.TempDir())
	conf.Database.Engine = "oracle"
	_, err := Open(conf)
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestMigrateAndReset(t *testing.T) {
	db, err := Open(sqliteConfig(t.TempDir()))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db)) // idempotent

	_, err = db.Exec(`INSERT INTO students (roll, name) VALUES ('R1', 'Ada')`)
	require.NoError(t, err)

	require.NoError(t, Reset(db))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM students`))
	assert.Equal(t, 0, count)
}

func TestRun(t *testing.T) {
	db, err := Open(sqliteConfig(t.TempDir()))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	orig := gooseRunFunc
	defer func() { gooseRunFunc = orig }()

	var gotCmd, gotDir string
	var gotArgs []string
	gooseRunFunc = func(command string, _ *sql.DB, _ fs.FS, dir string, args ...string) error {
		gotCmd, gotDir, gotArgs = command, dir, args
		return nil
	}

	require.NoError(t, Run(db, "up-to", "1"))
	assert.Equal(t, "up-to", gotCmd)
	assert.Equal(t, "migrations/sqlite3", gotDir)
	assert.Equal(t, []string{"1"}, gotArgs)
}

func TestPostgresURL(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{
		Engine:     core.EnginePostgres,
		Host:       "db",
		Port:       5432,
		User:       "app",
		Password:   "s3cret",
		DisableTLS: true,
	}}
	assert.Equal(t, "postgres://app:s3cret@db:5432/gradebook?sslmode=disable&timezone=utc", postgresURL("gradebook", conf))
}
