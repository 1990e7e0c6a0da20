package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// Common static errors used throughout the commands package.
var (
	ErrInvalidJSONData   = errors.New("--data must be a JSON object")
	ErrInvalidMethod     = errors.New("unsupported HTTP method")
)

// table is the tabular rendering of a value.
type table struct {
	headers []string
	rows    [][]string
}

// writeOutput renders value in the given format. Table output uses tbl and
// falls back to JSON when tbl is nil.
func writeOutput(w io.Writer, format string, value any, tbl *table) error {
	switch format {
	case OutputFormatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(value)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(constants.JSONIndentSize)

		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	case OutputFormatTable:
		if tbl == nil {
			return writeOutput(w, OutputFormatJSON, value, nil)
		}

		return renderTable(w, tbl)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, format)
	}
}

func renderTable(w io.Writer, tbl *table) error {
	tw := tablewriter.NewWriter(w)

	headers := make([]any, len(tbl.headers))
	for i, h := range tbl.headers {
		headers[i] = h
	}

	tw.Header(headers...)

	for _, row := range tbl.rows {
		_ = tw.Append(row)
	}

	if err := tw.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// recordsTable lays records out with one column per key seen in any record,
// in sorted order.
func recordsTable(records []proposify.Record) *table {
	var headers []string

	for _, record := range records {
		for key := range record {
			if !slices.Contains(headers, key) {
				headers = append(headers, key)
			}
		}
	}

	slices.Sort(headers)

	tbl := &table{headers: headers}

	for _, record := range records {
		row := make([]string, len(headers))
		for i, key := range headers {
			row[i] = cell(record[key])
		}

		tbl.rows = append(tbl.rows, row)
	}

	return tbl
}

// propertyTable shows a single record as key/value rows.
func propertyTable(record proposify.Record) *table {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	tbl := &table{headers: []string{"Property", "Value"}}
	for _, key := range keys {
		tbl.rows = append(tbl.rows, []string{key, cell(record[key])})
	}

	return tbl
}

// responseTable picks a records table for list responses and a property table
// for everything else.
func responseTable(response proposify.Record) *table {
	if data, ok := response[constants.DataField].([]any); ok {
		records := make([]proposify.Record, 0, len(data))
		for _, entry := range data {
			if record, ok := entry.(proposify.Record); ok {
				records = append(records, record)
			}
		}

		return recordsTable(records)
	}

	return propertyTable(response)
}

func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// parseParams turns key=value pairs into a record. Values that look like
// JSON objects, arrays or booleans are decoded; everything else stays a
// string.
func parseParams(pairs []string) (proposify.Record, error) {
	params := proposify.Record{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidParam, pair)
		}

		params[key] = paramValue(value)
	}

	return params, nil
}

func paramValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "true" || trimmed == "false" || strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}

	return raw
}

// parseItems reads a JSON object or a JSON array of objects.
func parseItems(data []byte) ([]proposify.Record, error) {
	trimmed := strings.TrimSpace(string(data))

	if strings.HasPrefix(trimmed, "{") {
		var item proposify.Record
		if err := json.Unmarshal([]byte(trimmed), &item); err != nil {
			return nil, fmt.Errorf("%w: %w", constants.ErrInvalidItems, err)
		}

		return []proposify.Record{item}, nil
	}

	var items []proposify.Record
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidItems, err)
	}

	for _, item := range items {
		if item == nil {
			return nil, constants.ErrInvalidItems
		}
	}

	return items, nil
}
