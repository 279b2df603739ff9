package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core/record"
)

type recordRepository struct {
	db *DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *DB) record.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) studentByRoll(roll string) (*record.Student, bool) {
	for _, std := range repo.db.students {
		if std.Roll == roll {
			return std, true
		}
	}
	return nil, false
}

func (repo *recordRepository) subjectByCode(code string) (*record.Subject, bool) {
	for _, sub := range repo.db.subjects {
		if sub.Code == code {
			return sub, true
		}
	}
	return nil, false
}

func (repo *recordRepository) CreateStudent(_ context.Context, std record.Student) (record.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, exists := repo.studentByRoll(std.Roll); exists {
		return record.Student{}, record.ErrStudentExists
	}
	repo.db.studentPK++
	std.ID = repo.db.studentPK
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *recordRepository) CreateSubject(_ context.Context, sub record.Subject) (record.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, exists := repo.subjectByCode(sub.Code); exists {
		return record.Subject{}, record.ErrSubjectExists
	}
	repo.db.subjectPK++
	sub.ID = repo.db.subjectPK
	repo.db.subjects[sub.ID] = &sub
	return sub, nil
}

func (repo *recordRepository) UpsertMark(_ context.Context, entry record.MarkEntry) (record.Mark, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std, ok := repo.studentByRoll(entry.Roll)
	if !ok {
		return record.Mark{}, record.ErrStudentNotFound
	}
	sub, ok := repo.subjectByCode(entry.SubjectCode)
	if !ok {
		return record.Mark{}, record.ErrSubjectNotFound
	}

	for _, mark := range repo.db.marks {
		if mark.StudentID == std.ID && mark.SubjectID == sub.ID {
			mark.Marks = entry.Marks
			mark.MaxMarks = entry.MaxMarks
			return *mark, nil
		}
	}

	repo.db.markPK++
	mark := record.Mark{
		ID:        repo.db.markPK,
		StudentID: std.ID,
		SubjectID: sub.ID,
		Marks:     entry.Marks,
		MaxMarks:  entry.MaxMarks,
	}
	repo.db.marks[mark.ID] = &mark
	return mark, nil
}

func (repo *recordRepository) GetStudent(_ context.Context, filter record.StudentFilter) (record.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != 0 {
		if std, ok := repo.db.students[filter.ID]; ok {
			return *std, nil
		}
	} else if filter.Roll != "" {
		if std, ok := repo.studentByRoll(filter.Roll); ok {
			return *std, nil
		}
	}
	return record.Student{}, record.ErrStudentNotFound
}

func (repo *recordRepository) QueryStudents(_ context.Context) ([]record.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]record.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Roll < students[j].Roll })
	return students, nil
}

func (repo *recordRepository) QuerySubjects(_ context.Context) ([]record.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]record.Subject, 0, len(repo.db.subjects))
	for _, sub := range repo.db.subjects {
		subjects = append(subjects, *sub)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Code < subjects[j].Code })
	return subjects, nil
}

func (repo *recordRepository) QueryMarkDetails(_ context.Context, filter record.MarkFilter) ([]record.MarkDetail, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	details := make([]record.MarkDetail, 0, len(repo.db.marks))
	for _, mark := range repo.db.marks {
		if filter.StudentID != 0 && mark.StudentID != filter.StudentID {
			continue
		}
		std, sub := repo.db.students[mark.StudentID], repo.db.subjects[mark.SubjectID]
		if std == nil || sub == nil {
			continue
		}
		details = append(details, record.MarkDetail{
			StudentID:    std.ID,
			Roll:         std.Roll,
			Name:         std.Name,
			SubjectCode:  sub.Code,
			SubjectTitle: sub.Title,
			Credits:      sub.Credits,
			Marks:        mark.Marks,
			MaxMarks:     mark.MaxMarks,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].Roll != details[j].Roll {
			return details[i].Roll < details[j].Roll
		}
		return details[i].SubjectCode < details[j].SubjectCode
	})
	return details, nil
}

func (repo *recordRepository) Reset(_ context.Context) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.init()
	return nil
}
