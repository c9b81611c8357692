package export

import "strings"

// ToCSV renders a header line followed by one line per row. Values are written as is:
// embedded commas or newlines are not quoted.
func ToCSV(rows [][]string, headers []string) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
