package exportsvc

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format; expected csv or xlsx")

// ForFormat returns the Exporter of the given format, case-insensitively.
func ForFormat(format string) (core.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatXLSX:
		return NewXLSXExporter(), nil
	default:
		return nil, ErrUnknownFormat
	}
}
