package report

import "github.com/trezcool/gradebook/core"

// DetailTable lays out a Report's rows the way they are displayed and downloaded.
func DetailTable(rep Report) core.Table {
	t := core.Table{
		Name:    "report",
		Columns: []string{"code", "title", "credits", "marks", "max_marks", "percent", "grade", "grade_point"},
		Rows:    make([][]interface{}, 0, len(rep.Rows)),
	}
	for _, r := range rep.Rows {
		t.AddRow(r.Code, r.Title, r.Credits, r.Marks, r.MaxMarks, r.Percent, r.Grade, r.GradePoint)
	}
	return t
}

// SummaryTable is a single-row table of a Report's summary.
func SummaryTable(s Summary) core.Table {
	t := core.Table{
		Name:    "summary",
		Columns: []string{"roll", "name", "total_credits", "total_credit_points", "cgpa", "generated_at"},
	}
	t.AddRow(s.Roll, s.Name, s.TotalCredits, s.TotalCreditPoints, s.CGPA, s.GeneratedAt)
	return t
}

func RankingTable(summaries []Summary) core.Table {
	t := core.Table{
		Name:    "ranking",
		Columns: []string{"rank", "roll", "name", "cgpa", "total_credits"},
		Rows:    make([][]interface{}, 0, len(summaries)),
	}
	for i, s := range summaries {
		t.AddRow(i+1, s.Roll, s.Name, s.CGPA, s.TotalCredits)
	}
	return t
}
