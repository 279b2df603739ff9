package testutil

import (
	"context"
	"path/filepath"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/record"
	"github.com/trezcool/gradebook/storage/database"
)

// NewConfig returns a TEST config pointing at a SQLite file inside dir.
func NewConfig(dir string) *core.Config {
	return &core.Config{
		AppName:  "Gradebook",
		Env:      "TEST",
		Build:    "test",
		TestMode: true,
		WorkDir:  dir,
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   filepath.Join("data", "results.db"),
		},
	}
}

// PrepareDB opens a migrated SQLite database in a fresh temp dir, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return OpenDB(t, NewConfig(t.TempDir()))
}

// OpenDB opens and migrates the database described by conf, closed when the test ends.
func OpenDB(t *testing.T, conf *core.Config) *sqlx.DB {
	t.Helper()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

// NewValidate returns a validator with the app's rules, and the translator its messages are registered on.
func NewValidate() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

func CreateStudent(t *testing.T, repo record.Repository, roll, name string) record.Student {
	t.Helper()
	std, err := repo.CreateStudent(context.Background(), record.Student{Roll: roll, Name: name})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func CreateSubject(t *testing.T, repo record.Repository, code, title string, credits float64) record.Subject {
	t.Helper()
	sub, err := repo.CreateSubject(context.Background(), record.Subject{Code: code, Title: title, Credits: credits})
	if err != nil {
		t.Fatalf("createSubject() failed: %v", err)
	}
	return sub
}

func SetMarks(t *testing.T, repo record.Repository, roll, code string, marks, maxMarks float64) record.Mark {
	t.Helper()
	mark, err := repo.UpsertMark(context.Background(), record.MarkEntry{Roll: roll, SubjectCode: code, Marks: marks, MaxMarks: maxMarks})
	if err != nil {
		t.Fatalf("setMarks() failed: %v", err)
	}
	return mark
}
