package record

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

// DefaultMaxMarks is used by callers when no max marks are supplied.
const DefaultMaxMarks = 100.0

type Student struct {
	ID      int    `json:"id"`
	Roll    string `json:"roll"`
	Name    string `json:"name"`
	Program string `json:"program"`
}

type Subject struct {
	ID      int     `json:"id"`
	Code    string  `json:"code"`
	Title   string  `json:"title"`
	Credits float64 `json:"credits"`
}

type Mark struct {
	ID        int     `json:"id"`
	StudentID int     `json:"student_id"`
	SubjectID int     `json:"subject_id"`
	Marks     float64 `json:"marks"`
	MaxMarks  float64 `json:"max_marks"`
}

// MarkDetail is a Mark joined with its Student and Subject.
type MarkDetail struct {
	StudentID    int     `json:"-"`
	Roll         string  `json:"roll"`
	Name         string  `json:"name"`
	SubjectCode  string  `json:"subject_code"`
	SubjectTitle string  `json:"subject_title"`
	Credits      float64 `json:"credits"`
	Marks        float64 `json:"marks"`
	MaxMarks     float64 `json:"max_marks"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Roll    string `json:"roll" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Program string `json:"program"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Roll = core.CleanString(ns.Roll)
	ns.Name = core.CleanString(ns.Name)
	ns.Program = core.CleanString(ns.Program)
	return validate.Struct(ns)
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Code    string  `json:"code" validate:"required"`
	Title   string  `json:"title" validate:"required"`
	Credits float64 `json:"credits" validate:"finite,gt=0"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Code = core.CleanString(ns.Code)
	ns.Title = core.CleanString(ns.Title)
	return validate.Struct(ns)
}

// MarkEntry records the marks a Student obtained in a Subject.
type MarkEntry struct {
	Roll        string  `json:"roll" validate:"required"`
	SubjectCode string  `json:"subject_code" validate:"required"`
	Marks       float64 `json:"marks" validate:"finite"`
	MaxMarks    float64 `json:"max_marks" validate:"finite,gt=0"`
}

func (me *MarkEntry) Validate(validate *validator.Validate) error {
	me.Roll = core.CleanString(me.Roll)
	me.SubjectCode = core.CleanString(me.SubjectCode)
	return validate.Struct(me)
}

// StudentFilter selects a single Student by ID or Roll; ID takes precedence.
type StudentFilter struct {
	ID   int
	Roll string
}

// MarkFilter narrows QueryMarkDetails; the zero value matches every Mark.
type MarkFilter struct {
	StudentID int
}
