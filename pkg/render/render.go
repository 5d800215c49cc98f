// Package render formats command output as table, JSON, or YAML, with an
// optional JMESPath query applied first (§6 "-o/--output", "-q/--query").
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jmespath/go-jmespath"
	"gopkg.in/yaml.v3"

	"github.com/redis-developer/redisctl/pkg/rctlerr"
)

// Format selects the output encoding.
type Format string

const (
	Auto  Format = "auto"
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// Render writes value to w in format, after applying query (if non-empty)
// via JMESPath. Auto renders table for slices-of-maps and JSON otherwise.
func Render(w io.Writer, value any, format Format, query string) error {
	if query != "" {
		filtered, err := jmespath.Search(query, toGeneric(value))
		if err != nil {
			return rctlerr.InvalidInput{Field: "query", Reason: err.Error()}
		}

		value = filtered
	}

	switch format {
	case JSON:
		return renderJSON(w, value)
	case YAML:
		return renderYAML(w, value)
	case Table, Auto, "":
		if rows, ok := asRows(value); ok {
			return renderTable(w, rows)
		}

		return renderJSON(w, value)
	default:
		return rctlerr.InvalidInput{Field: "output", Reason: fmt.Sprintf("unknown format %q", format)}
	}
}

// toGeneric round-trips value through JSON so JMESPath (which expects
// map[string]any/[]any/primitives) can search arbitrary struct values.
func toGeneric(value any) any {
	encoded, err := json.Marshal(value)
	if err != nil {
		return value
	}

	var generic any

	if err := json.Unmarshal(encoded, &generic); err != nil {
		return value
	}

	return generic
}

func renderJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}

func renderYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	defer func() { _ = encoder.Close() }()

	return encoder.Encode(value)
}

// asRows reports whether value can be rendered as a table: a slice of
// JSON objects with uniform-ish string keys.
func asRows(value any) ([]map[string]any, bool) {
	generic := toGeneric(value)

	items, ok := generic.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}

	rows := make([]map[string]any, 0, len(items))

	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}

		rows = append(rows, row)
	}

	return rows, true
}

func renderTable(w io.Writer, rows []map[string]any) error {
	columns := collectColumns(rows)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	_, err := fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	if err != nil {
		return err
	}

	for _, row := range rows {
		cells := make([]string, len(columns))

		for i, col := range columns {
			cells[i] = fmt.Sprint(row[col])
		}

		_, err := fmt.Fprintln(tw, strings.Join(cells, "\t"))
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

func collectColumns(rows []map[string]any) []string {
	seen := map[string]bool{}

	var columns []string

	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true

				columns = append(columns, key)
			}
		}
	}

	sort.Strings(columns)

	return columns
}
