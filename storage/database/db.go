package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/fs"
)

var (
	gooseRunFunc = goose.RunFS // mockable

	ErrUnknownEngine = errors.New("unknown database engine")
)

func postgresURL(dbName string, conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func sqliteDSN(path string) string {
	q := make(url.Values)
	q.Set("_foreign_keys", "on")
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", "5000")
	return "file:" + path + "?" + q.Encode()
}

// Open connects to the configured database and waits for it to be ready.
// The directory of a SQLite database file is created when missing.
func Open(conf *core.Config) (*sqlx.DB, error) {
	var dsn string
	switch conf.Database.Engine {
	case core.EngineSQLite:
		path := conf.Database.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(conf.WorkDir, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
		dsn = sqliteDSN(path)
	case core.EnginePostgres:
		dsn = postgresURL(conf.Database.Name, conf)
	default:
		return nil, errors.Wrapf(ErrUnknownEngine, "%q", conf.Database.Engine)
	}

	db, err := sqlx.Open(conf.Database.Engine, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// CreateIfNotExist creates the configured Postgres database. It is a no-op for SQLite.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Database.Engine != core.EnginePostgres {
		return nil
	}

	db, err := sql.Open(conf.Database.Engine, postgresURL("postgres", conf))
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}

	var exists bool
	row := db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", conf.Database.Name)
	if err = row.Scan(&exists); err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !exists {
		if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE %q", conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// Run runs a goose command (up, down, status, reset...) against the migrations of the DB's engine.
func Run(db *sqlx.DB, command string, args ...string) error {
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	return gooseRunFunc(command, db.DB, appfs.FS, appfs.MigrationsDir(db.DriverName()), args...)
}

// Migrate brings the schema up to date. It is safe to call on every start.
func Migrate(db *sqlx.DB) error {
	if err := Run(db, "up"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// Reset rolls every migration back, dropping all data, then migrates up again.
func Reset(db *sqlx.DB) error {
	if err := Run(db, "reset"); err != nil {
		return errors.Wrap(err, "resetting database")
	}
	return Migrate(db)
}
