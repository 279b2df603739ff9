// Package report computes grade reports and class rankings from stored marks.
package report

import (
	"time"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/core/record"
)

// Row is one graded subject of a Report.
type Row struct {
	Code         string  `json:"code"`
	Title        string  `json:"title"`
	Credits      float64 `json:"credits"`
	Marks        float64 `json:"marks"`
	MaxMarks     float64 `json:"max_marks"`
	Percent      float64 `json:"percent"`
	Grade        string  `json:"grade"`
	GradePoint   float64 `json:"grade_point"`
	CreditPoints float64 `json:"credit_points"`
}

type Summary struct {
	Roll              string    `json:"roll"`
	Name              string    `json:"name"`
	TotalCredits      float64   `json:"total_credits"`
	TotalCreditPoints float64   `json:"total_credit_points"`
	CGPA              float64   `json:"cgpa"`
	GeneratedAt       time.Time `json:"generated_at"` // UTC
}

type Report struct {
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// percent guards against non-positive max marks instead of dividing by them.
func percent(marks, maxMarks float64) float64 {
	if maxMarks <= 0 {
		return 0
	}
	return marks / maxMarks * 100
}

// build grades `details`, which must all belong to `std`, and aggregates them.
func build(std record.Student, details []record.MarkDetail, now time.Time) Report {
	rep := Report{
		Rows: make([]Row, 0, len(details)),
		Summary: Summary{
			Roll:        std.Roll,
			Name:        std.Name,
			GeneratedAt: now.UTC(),
		},
	}

	var totalCredits, totalCreditPoints float64
	for _, d := range details {
		p := percent(d.Marks, d.MaxMarks)
		band := grade.FromPercent(p)
		row := Row{
			Code:         d.SubjectCode,
			Title:        d.SubjectTitle,
			Credits:      d.Credits,
			Marks:        d.Marks,
			MaxMarks:     d.MaxMarks,
			Percent:      p,
			Grade:        band.Letter,
			GradePoint:   band.Point,
			CreditPoints: d.Credits * band.Point,
		}
		totalCredits += row.Credits
		totalCreditPoints += row.CreditPoints
		rep.Rows = append(rep.Rows, row)
	}

	rep.Summary.TotalCredits = totalCredits
	rep.Summary.TotalCreditPoints = totalCreditPoints
	if totalCredits > 0 {
		rep.Summary.CGPA = core.Round(totalCreditPoints/totalCredits, 2)
	}
	return rep
}
