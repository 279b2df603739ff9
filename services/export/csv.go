package exportsvc

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

// CSVExporter writes tables as CSV. When more than one table is given,
// each one is preceded by a "# name" line and followed by an empty line.
type CSVExporter struct{}

var _ core.Exporter = CSVExporter{}

func NewCSVExporter() CSVExporter { return CSVExporter{} }

func (CSVExporter) ContentType() string { return "text/csv" }
func (CSVExporter) Extension() string   { return ".csv" }

func (CSVExporter) Export(w io.Writer, tables ...core.Table) error {
	cw := csv.NewWriter(w)
	sections := len(tables) > 1

	for i, t := range tables {
		if sections {
			if i > 0 {
				if err := cw.Write(nil); err != nil {
					return errors.Wrap(err, "writing csv separator")
				}
			}
			if err := cw.Write([]string{"# " + t.Name}); err != nil {
				return errors.Wrapf(err, "writing csv section %q", t.Name)
			}
		}
		if err := cw.Write(t.Columns); err != nil {
			return errors.Wrapf(err, "writing csv header of %q", t.Name)
		}
		for _, row := range t.Rows {
			if err := cw.Write(formatRow(row)); err != nil {
				return errors.Wrapf(err, "writing csv row of %q", t.Name)
			}
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
