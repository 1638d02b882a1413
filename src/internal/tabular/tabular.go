// FILE: jsonsieve/src/internal/tabular/tabular.go
package tabular

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type is the JSON kind of a row's value
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Row is one node of a flattened JSON value
type Row struct {
	Path  string `json:"path"`
	Value string `json:"value"`
	Type  Type   `json:"type"`
	Size  *int   `json:"size,omitempty"` // containers only
}

// Flatten walks data depth-first and returns one row per node.
// Containers emit a summary row before their children. Object keys are
// visited in sorted order so output is stable across runs.
func Flatten(data any) []Row {
	var rows []Row
	walk(data, "", &rows)
	return rows
}

func walk(value any, path string, rows *[]Row) {
	switch v := value.(type) {
	case nil:
		*rows = append(*rows, Row{Path: path, Value: "null", Type: TypeNull})

	case []any:
		size := len(v)
		*rows = append(*rows, Row{
			Path:  path,
			Value: fmt.Sprintf("[Array(%d)]", size),
			Type:  TypeArray,
			Size:  &size,
		})
		for i, item := range v {
			walk(item, fmt.Sprintf("%s[%d]", path, i), rows)
		}

	case map[string]any:
		size := len(v)
		*rows = append(*rows, Row{
			Path:  path,
			Value: "[Object]",
			Type:  TypeObject,
			Size:  &size,
		})

		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			walk(v[k], child, rows)
		}

	case string:
		*rows = append(*rows, Row{Path: path, Value: v, Type: TypeString})

	case bool:
		*rows = append(*rows, Row{Path: path, Value: strconv.FormatBool(v), Type: TypeBoolean})

	case json.Number:
		*rows = append(*rows, Row{Path: path, Value: v.String(), Type: TypeNumber})

	case float64:
		*rows = append(*rows, Row{Path: path, Value: strconv.FormatFloat(v, 'f', -1, 64), Type: TypeNumber})

	case int, int64, float32:
		*rows = append(*rows, Row{Path: path, Value: fmt.Sprint(v), Type: TypeNumber})

	default:
		*rows = append(*rows, Row{Path: path, Value: fmt.Sprint(v), Type: TypeString})
	}
}

// Search keeps rows whose path, value or type contains term, ignoring case.
// A blank term returns rows unchanged.
func Search(rows []Row, term string) []Row {
	if strings.TrimSpace(term) == "" {
		return rows
	}

	needle := strings.ToLower(term)
	var matched []Row
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Path), needle) ||
			strings.Contains(strings.ToLower(row.Value), needle) ||
			strings.Contains(string(row.Type), needle) {
			matched = append(matched, row)
		}
	}
	return matched
}

// SortField names a sortable column
type SortField string

const (
	SortByPath  SortField = "path"
	SortByValue SortField = "value"
	SortByType  SortField = "type"
)

// Sort returns a copy of rows ordered case-insensitively by field
func Sort(rows []Row, field SortField, descending bool) ([]Row, error) {
	var key func(Row) string
	switch field {
	case SortByPath:
		key = func(r Row) string { return r.Path }
	case SortByValue:
		key = func(r Row) string { return r.Value }
	case SortByType:
		key = func(r Row) string { return string(r.Type) }
	default:
		return nil, fmt.Errorf("unknown sort field: %s", field)
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(key(sorted[i])), strings.ToLower(key(sorted[j]))
		if descending {
			return a > b
		}
		return a < b
	})
	return sorted, nil
}

// CountByType tallies rows per JSON kind
func CountByType(rows []Row) map[Type]int {
	counts := make(map[Type]int)
	for _, row := range rows {
		counts[row.Type]++
	}
	return counts
}
