package google

import (
	"fmt"
	"strings"

	"keuangan/internal/core"
)

// parseTable converts a values matrix (as returned by Sheets API) into rows
// keyed by the header row. Short rows are padded with empty strings and rows
// with no content at all are dropped.
func parseTable(values [][]interface{}) []core.RawRow {
	if len(values) == 0 {
		return nil
	}
	headers := toStrings(values[0])
	out := make([]core.RawRow, 0, len(values)-1)
	for _, cells := range values[1:] {
		if isBlank(cells) {
			continue
		}
		row := make(core.RawRow, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

func isBlank(cells []interface{}) bool {
	for _, v := range cells {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
