package sqlxrepos

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/record"
	"github.com/trezcool/gradebook/storage/database"
)

const pqUniqueViolation = "23505"

type (
	studentRow struct {
		ID      int         `db:"student_id"`
		Roll    string      `db:"roll"`
		Name    string      `db:"name"`
		Program null.String `db:"program"`
	}

	subjectRow struct {
		ID      int     `db:"subject_id"`
		Code    string  `db:"code"`
		Title   string  `db:"title"`
		Credits float64 `db:"credits"`
	}

	markRow struct {
		ID        int     `db:"mark_id"`
		StudentID int     `db:"student_id"`
		SubjectID int     `db:"subject_id"`
		Marks     float64 `db:"marks"`
		MaxMarks  float64 `db:"max_marks"`
	}

	markDetailRow struct {
		StudentID    int     `db:"student_id"`
		Roll         string  `db:"roll"`
		Name         string  `db:"name"`
		SubjectCode  string  `db:"subject_code"`
		SubjectTitle string  `db:"subject_title"`
		Credits      float64 `db:"credits"`
		Marks        float64 `db:"marks"`
		MaxMarks     float64 `db:"max_marks"`
	}
)

// recordRepository serializes writers with an RWMutex so SQLite never sees two concurrent write transactions.
// Every mutation runs in its own transaction, committed before returning.
type recordRepository struct {
	mu sync.RWMutex
	db *sqlx.DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *sqlx.DB) record.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) unboilStudent(row studentRow) record.Student {
	return record.Student{
		ID:      row.ID,
		Roll:    row.Roll,
		Name:    row.Name,
		Program: row.Program.String,
	}
}

func (repo *recordRepository) unboilSubject(row subjectRow) record.Subject {
	return record.Subject{
		ID:      row.ID,
		Code:    row.Code,
		Title:   row.Title,
		Credits: row.Credits,
	}
}

// trapNoRowsErr maps "no rows" err to `notFound`
func (repo *recordRepository) trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// trapUniqueErr maps unique constraint violations of both engines to `exists`
func (repo *recordRepository) trapUniqueErr(err error, exists error, msg string) error {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return exists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return exists
	}
	return errors.Wrap(err, msg)
}

// inTx runs fn in a transaction, committing on success and rolling back otherwise.
func (repo *recordRepository) inTx(ctx context.Context, fn func(tx core.DBTransactor) error) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (repo *recordRepository) CreateStudent(ctx context.Context, std record.Student) (record.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var row studentRow
	err := repo.inTx(ctx, func(tx core.DBTransactor) error {
		q := repo.db.Rebind(`INSERT INTO students (roll, name, program) VALUES (?, ?, ?)
			RETURNING student_id, roll, name, program`)
		program := null.NewString(std.Program, std.Program != "")
		if err := tx.GetContext(ctx, &row, q, std.Roll, std.Name, program); err != nil {
			return repo.trapUniqueErr(err, record.ErrStudentExists, "inserting student")
		}
		return nil
	})
	if err != nil {
		return record.Student{}, err
	}
	return repo.unboilStudent(row), nil
}

func (repo *recordRepository) CreateSubject(ctx context.Context, sub record.Subject) (record.Subject, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var row subjectRow
	err := repo.inTx(ctx, func(tx core.DBTransactor) error {
		q := repo.db.Rebind(`INSERT INTO subjects (code, title, credits) VALUES (?, ?, ?)
			RETURNING subject_id, code, title, credits`)
		if err := tx.GetContext(ctx, &row, q, sub.Code, sub.Title, sub.Credits); err != nil {
			return repo.trapUniqueErr(err, record.ErrSubjectExists, "inserting subject")
		}
		return nil
	})
	if err != nil {
		return record.Subject{}, err
	}
	return repo.unboilSubject(row), nil
}

func (repo *recordRepository) UpsertMark(ctx context.Context, entry record.MarkEntry) (record.Mark, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var row markRow
	err := repo.inTx(ctx, func(tx core.DBTransactor) error {
		var studentID, subjectID int
		q := repo.db.Rebind(`SELECT student_id FROM students WHERE roll = ?`)
		if err := tx.GetContext(ctx, &studentID, q, entry.Roll); err != nil {
			return repo.trapNoRowsErr(err, record.ErrStudentNotFound, "resolving student")
		}
		q = repo.db.Rebind(`SELECT subject_id FROM subjects WHERE code = ?`)
		if err := tx.GetContext(ctx, &subjectID, q, entry.SubjectCode); err != nil {
			return repo.trapNoRowsErr(err, record.ErrSubjectNotFound, "resolving subject")
		}

		q = repo.db.Rebind(`INSERT INTO marks (student_id, subject_id, marks, max_marks) VALUES (?, ?, ?, ?)
			ON CONFLICT (student_id, subject_id) DO UPDATE SET marks = excluded.marks, max_marks = excluded.max_marks
			RETURNING mark_id, student_id, subject_id, marks, max_marks`)
		return errors.Wrap(
			tx.GetContext(ctx, &row, q, studentID, subjectID, entry.Marks, entry.MaxMarks),
			"upserting mark",
		)
	})
	if err != nil {
		return record.Mark{}, err
	}
	return record.Mark{
		ID:        row.ID,
		StudentID: row.StudentID,
		SubjectID: row.SubjectID,
		Marks:     row.Marks,
		MaxMarks:  row.MaxMarks,
	}, nil
}

func (repo *recordRepository) GetStudent(ctx context.Context, filter record.StudentFilter) (record.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var row studentRow
	var err error
	switch {
	case filter.ID != 0:
		q := repo.db.Rebind(`SELECT student_id, roll, name, program FROM students WHERE student_id = ?`)
		err = repo.db.GetContext(ctx, &row, q, filter.ID)
	case filter.Roll != "":
		q := repo.db.Rebind(`SELECT student_id, roll, name, program FROM students WHERE roll = ?`)
		err = repo.db.GetContext(ctx, &row, q, filter.Roll)
	default:
		return record.Student{}, record.ErrStudentNotFound
	}
	if err != nil {
		return record.Student{}, repo.trapNoRowsErr(err, record.ErrStudentNotFound, "getting student")
	}
	return repo.unboilStudent(row), nil
}

func (repo *recordRepository) QueryStudents(ctx context.Context) ([]record.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT student_id, roll, name, program FROM students ORDER BY roll`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]record.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, repo.unboilStudent(row))
	}
	return students, nil
}

func (repo *recordRepository) QuerySubjects(ctx context.Context) ([]record.Subject, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var rows []subjectRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT subject_id, code, title, credits FROM subjects ORDER BY code`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]record.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, repo.unboilSubject(row))
	}
	return subjects, nil
}

func (repo *recordRepository) QueryMarkDetails(ctx context.Context, filter record.MarkFilter) ([]record.MarkDetail, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	q := `SELECT s.student_id, s.roll, s.name, sub.code AS subject_code, sub.title AS subject_title,
			sub.credits, m.marks, m.max_marks
		FROM marks m
		JOIN students s ON s.student_id = m.student_id
		JOIN subjects sub ON sub.subject_id = m.subject_id`
	var args []interface{}
	if filter.StudentID != 0 {
		q += ` WHERE m.student_id = ?`
		args = append(args, filter.StudentID)
	}
	q += ` ORDER BY s.roll, sub.code`

	var rows []markDetailRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	details := make([]record.MarkDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, record.MarkDetail(row))
	}
	return details, nil
}

// Reset fails with a core shutdown error: a half-applied reset leaves the schema in an unknown state.
func (repo *recordRepository) Reset(_ context.Context) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := database.Reset(repo.db); err != nil {
		return core.NewShutdownError(err.Error())
	}
	return nil
}
