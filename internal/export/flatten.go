package export

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Column is one CSV column: its header and the dotted path of the value inside a record.
type Column struct {
	Name string
	Path string
}

// Flatten maps record onto columns. A missing key, a non-object along the path or a
// non-scalar leaf all yield "".
func Flatten(record map[string]any, columns []Column) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = scalar(lookup(record, c.Path))
	}
	return row
}

func lookup(v any, path string) any {
	for _, key := range strings.Split(path, ".") {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
