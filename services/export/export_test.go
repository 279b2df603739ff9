package exportsvc

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gradebook/core"
)

func sampleTables() []core.Table {
	students := core.Table{Name: "students", Columns: []string{"roll", "name"}}
	students.AddRow("R1", "Ada")
	students.AddRow("R2", "Grace, Hopper")

	marks := core.Table{Name: "marks", Columns: []string{"roll", "marks", "max_marks", "at"}}
	marks.AddRow("R1", 95.5, 100, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	return []core.Table{students, marks}
}

func TestCSVExporter_singleTable(t *testing.T) {
	var buf bytes.Buffer
	tables := sampleTables()

	require.NoError(t, NewCSVExporter().Export(&buf, tables[0]))
	assert.Equal(t, "roll,name\nR1,Ada\nR2,\"Grace, Hopper\"\n", buf.String())
}

func TestCSVExporter_sections(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewCSVExporter().Export(&buf, sampleTables()...))
	want := strings.Join([]string{
		"# students",
		"roll,name",
		"R1,Ada",
		"R2,\"Grace, Hopper\"",
		"",
		"# marks",
		"roll,marks,max_marks,at",
		"R1,95.5,100,2024-05-01T10:00:00Z",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestXLSXExporter(t *testing.T) {
	var buf bytes.Buffer
	long := core.Table{Name: strings.Repeat("x", 40), Columns: []string{"a"}}
	tables := append(sampleTables(), long)

	require.NoError(t, NewXLSXExporter().Export(&buf, tables...))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"students", "marks", strings.Repeat("x", 31)}, f.GetSheetList())

	rows, err := f.GetRows("students")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"roll", "name"}, {"R1", "Ada"}, {"R2", "Grace, Hopper"}}, rows)

	at, err := f.GetCellValue("marks", "D2")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", at)
}

func TestExporters_metadata(t *testing.T) {
	assert.Equal(t, ".csv", NewCSVExporter().Extension())
	assert.Equal(t, "text/csv", NewCSVExporter().ContentType())
	assert.Equal(t, ".xlsx", NewXLSXExporter().Extension())
	assert.Contains(t, NewXLSXExporter().ContentType(), "spreadsheetml")
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr error
	}{
		{format: "csv", wantExt: ".csv"},
		{format: " XLSX ", wantExt: ".xlsx"},
		{format: "pdf", wantErr: ErrUnknownFormat},
		{format: "", wantErr: ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := ForFormat(tt.format)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, exp.Extension())
		})
	}
}
