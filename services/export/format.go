package exportsvc

import (
	"fmt"
	"strconv"
	"time"
)

func formatCell(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func formatRow(row []interface{}) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = formatCell(cell)
	}
	return cells
}
