package core

import "io"

// maxTableNameLen is the longest sheet name spreadsheet applications accept.
const maxTableNameLen = 31

type (
	// Table is a named, ordered set of rows ready to be exported.
	Table struct {
		Name    string
		Columns []string
		Rows    [][]interface{}
	}

	// Exporter is any service that can turn tables into a downloadable file.
	Exporter interface {
		ContentType() string
		Extension() string // with leading dot
		Export(w io.Writer, tables ...Table) error
	}
)

// SheetName returns the table name truncated to what spreadsheets accept.
func (t Table) SheetName() string {
	name := []rune(t.Name)
	if len(name) > maxTableNameLen {
		name = name[:maxTableNameLen]
	}
	return string(name)
}

func (t *Table) AddRow(cells ...interface{}) {
	t.Rows = append(t.Rows, cells)
}
