package report

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/record"
)

var NowFunc = time.Now // mockable

// Store is the read side of record.Repository the Engine needs.
type Store interface {
	GetStudent(ctx context.Context, filter record.StudentFilter) (record.Student, error)
	QueryStudents(ctx context.Context) ([]record.Student, error)
	QueryMarkDetails(ctx context.Context, filter record.MarkFilter) ([]record.MarkDetail, error)
}

// Engine recomputes reports from the Store on every call; nothing is cached.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Compute returns the report of the Student with the given ID.
// ok is false when the Student exists but has no marks yet.
// record.ErrStudentNotFound is returned when the Student does not exist.
func (e *Engine) Compute(ctx context.Context, studentID int) (rep Report, ok bool, err error) {
	if studentID <= 0 {
		return Report{}, false, record.ErrStudentNotFound
	}
	std, err := e.store.GetStudent(ctx, record.StudentFilter{ID: studentID})
	if err != nil {
		return Report{}, false, err
	}
	return e.compute(ctx, std)
}

// ComputeByRoll is Compute keyed by the Student's roll. Surrounding whitespace is ignored.
func (e *Engine) ComputeByRoll(ctx context.Context, roll string) (rep Report, ok bool, err error) {
	if roll = core.CleanString(roll); roll == "" {
		return Report{}, false, record.ErrStudentNotFound
	}
	std, err := e.store.GetStudent(ctx, record.StudentFilter{Roll: roll})
	if err != nil {
		return Report{}, false, err
	}
	return e.compute(ctx, std)
}

func (e *Engine) compute(ctx context.Context, std record.Student) (Report, bool, error) {
	details, err := e.store.QueryMarkDetails(ctx, record.MarkFilter{StudentID: std.ID})
	if err != nil {
		return Report{}, false, errors.Wrap(err, "querying student marks")
	}
	if len(details) == 0 {
		return Report{}, false, nil
	}
	return build(std, details, NowFunc()), true, nil
}

// RankAll returns the summary of every Student with marks, best CGPA first.
// Students with equal CGPA keep the Store order (by roll).
func (e *Engine) RankAll(ctx context.Context) ([]Summary, error) {
	students, err := e.store.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	details, err := e.store.QueryMarkDetails(ctx, record.MarkFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}

	byStudent := make(map[int][]record.MarkDetail, len(students))
	for _, d := range details {
		byStudent[d.StudentID] = append(byStudent[d.StudentID], d)
	}

	now := NowFunc()
	summaries := make([]Summary, 0, len(byStudent))
	for _, std := range students {
		stdDetails, ok := byStudent[std.ID]
		if !ok {
			continue
		}
		summaries = append(summaries, build(std, stdDetails, now).Summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].CGPA > summaries[j].CGPA })
	return summaries, nil
}
