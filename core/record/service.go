package record

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrStudentNotFound   = errors.New("student not found")
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrStudentExists     = errors.New("a student with this roll already exists")
	ErrSubjectExists     = errors.New("a subject with this code already exists")
	ErrResetNotConfirmed = errors.New("reset must be explicitly confirmed")
)

type (
	// Repository persists students, subjects and marks.
	// Every mutating method must commit before returning a nil error.
	Repository interface {
		// CreateStudent returns ErrStudentExists when the roll is taken.
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// CreateSubject returns ErrSubjectExists when the code is taken.
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		// UpsertMark inserts the Mark for (roll, subject code) or overwrites the existing one.
		// It returns ErrStudentNotFound or ErrSubjectNotFound when a reference does not resolve.
		UpsertMark(ctx context.Context, entry MarkEntry) (Mark, error)
		GetStudent(ctx context.Context, filter StudentFilter) (Student, error)
		// QueryStudents returns every Student ordered by roll.
		QueryStudents(ctx context.Context) ([]Student, error)
		// QuerySubjects returns every Subject ordered by code.
		QuerySubjects(ctx context.Context) ([]Subject, error)
		// QueryMarkDetails returns the matching marks ordered by roll, then subject code.
		QueryMarkDetails(ctx context.Context, filter MarkFilter) ([]MarkDetail, error)
		// Reset drops every record and recreates empty storage.
		Reset(ctx context.Context) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		logger   core.Logger
	}

	Counts struct {
		Students int `json:"students"`
		Subjects int `json:"subjects"`
	}
)

func NewService(repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validate,
		logger:   logger,
	}
}

// fieldErr wraps known sentinels into a core.ValidationError pointing at `field`.
func fieldErr(err error, field string, sentinels ...error) error {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return core.NewValidationError(sentinel, core.FieldError{Field: field, Error: sentinel.Error()})
		}
	}
	return err
}

func (svc *Service) AddStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	std, err := svc.repo.CreateStudent(ctx, Student{Roll: ns.Roll, Name: ns.Name, Program: ns.Program})
	if err != nil {
		return Student{}, fieldErr(err, "roll", ErrStudentExists)
	}
	svc.logger.Info("student added", map[string]interface{}{"id": std.ID, "roll": std.Roll})
	return std, nil
}

func (svc *Service) AddSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Subject{}, err
	}
	sub, err := svc.repo.CreateSubject(ctx, Subject{Code: ns.Code, Title: ns.Title, Credits: ns.Credits})
	if err != nil {
		return Subject{}, fieldErr(err, "code", ErrSubjectExists)
	}
	svc.logger.Info("subject added", map[string]interface{}{"id": sub.ID, "code": sub.Code})
	return sub, nil
}

func (svc *Service) UpsertMarks(ctx context.Context, me MarkEntry) (Mark, error) {
	if err := me.Validate(svc.validate); err != nil {
		return Mark{}, err
	}
	mark, err := svc.repo.UpsertMark(ctx, me)
	if err != nil {
		if errors.Is(err, ErrSubjectNotFound) {
			return Mark{}, fieldErr(err, "subject_code", ErrSubjectNotFound)
		}
		return Mark{}, fieldErr(err, "roll", ErrStudentNotFound)
	}
	return mark, nil
}

func (svc *Service) GetStudent(ctx context.Context, id int) (Student, error) {
	if id <= 0 {
		return Student{}, ErrStudentNotFound
	}
	return svc.repo.GetStudent(ctx, StudentFilter{ID: id})
}

func (svc *Service) GetStudentByRoll(ctx context.Context, roll string) (Student, error) {
	roll = core.CleanString(roll)
	if roll == "" {
		return Student{}, ErrStudentNotFound
	}
	return svc.repo.GetStudent(ctx, StudentFilter{Roll: roll})
}

func (svc *Service) ListStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) ListSubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) ListMarkSheet(ctx context.Context) ([]MarkDetail, error) {
	return svc.repo.QueryMarkDetails(ctx, MarkFilter{})
}

func (svc *Service) Counts(ctx context.Context) (Counts, error) {
	students, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return Counts{}, err
	}
	subjects, err := svc.repo.QuerySubjects(ctx)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Students: len(students), Subjects: len(subjects)}, nil
}

// Reset irreversibly erases all students, subjects and marks.
func (svc *Service) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}
	if err := svc.repo.Reset(ctx); err != nil {
		return err
	}
	svc.logger.Warn("all records erased")
	return nil
}
