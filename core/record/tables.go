package record

import "github.com/trezcool/gradebook/core"

func StudentsTable(students []Student) core.Table {
	t := core.Table{
		Name:    "students",
		Columns: []string{"student_id", "roll", "name", "program"},
		Rows:    make([][]interface{}, 0, len(students)),
	}
	for _, s := range students {
		t.AddRow(s.ID, s.Roll, s.Name, s.Program)
	}
	return t
}

func SubjectsTable(subjects []Subject) core.Table {
	t := core.Table{
		Name:    "subjects",
		Columns: []string{"subject_id", "code", "title", "credits"},
		Rows:    make([][]interface{}, 0, len(subjects)),
	}
	for _, s := range subjects {
		t.AddRow(s.ID, s.Code, s.Title, s.Credits)
	}
	return t
}

func MarkSheetTable(details []MarkDetail) core.Table {
	t := core.Table{
		Name:    "marks",
		Columns: []string{"roll", "name", "subject_code", "subject_title", "credits", "marks", "max_marks"},
		Rows:    make([][]interface{}, 0, len(details)),
	}
	for _, d := range details {
		t.AddRow(d.Roll, d.Name, d.SubjectCode, d.SubjectTitle, d.Credits, d.Marks, d.MaxMarks)
	}
	return t
}
