package exportsvc

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gradebook/core"
)

const defaultSheet = "Sheet1"

// XLSXExporter writes every table to its own worksheet.
type XLSXExporter struct{}

var _ core.Exporter = XLSXExporter{}

func NewXLSXExporter() XLSXExporter { return XLSXExporter{} }

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Extension() string { return ".xlsx" }

func (XLSXExporter) Export(w io.Writer, tables ...core.Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = errors.Wrap(cErr, "closing workbook")
		}
	}()

	for i, t := range tables {
		sheet := t.SheetName()
		if i == 0 {
			if err = f.SetSheetName(defaultSheet, sheet); err != nil {
				return errors.Wrapf(err, "naming sheet %q", sheet)
			}
		} else if _, err = f.NewSheet(sheet); err != nil {
			return errors.Wrapf(err, "creating sheet %q", sheet)
		}

		header := make([]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			header[j] = col
		}
		if err = writeRow(f, sheet, 1, header); err != nil {
			return err
		}
		for j, row := range t.Rows {
			if err = writeRow(f, sheet, j+2, row); err != nil {
				return err
			}
		}
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrap(err, "computing cell name")
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		if ts, ok := v.(time.Time); ok {
			values[i] = formatCell(ts) // keep timestamps as ISO-8601 text
			continue
		}
		values[i] = v
	}
	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "writing row %d of sheet %q", rowNum, sheet)
	}
	return nil
}
