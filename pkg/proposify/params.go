package proposify

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ISOTimestamp is the layout used for dates sent to the provider.
const ISOTimestamp = "2006-01-02T15:04:05.000Z"

// KeyCase selects the direction of TransformKeys.
type KeyCase int

// Key cases.
const (
	CamelCase KeyCase = iota
	SnakeCase
)

var (
	ErrInvalidDate = errors.New("invalid date")

	dateLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		time.DateOnly,
	}
)

// CamelToSnake converts "prospectId" to "prospect_id".
func CamelToSnake(s string) string {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// SnakeToCamel converts "prospect_id" to "prospectId". Only an underscore
// followed by a lowercase letter is folded.
func SnakeToCamel(s string) string {
	runes := []rune(s)

	var b strings.Builder

	for i := 0; i < len(runes); i++ {
		if runes[i] == '_' && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++

			continue
		}

		b.WriteRune(runes[i])
	}

	return b.String()
}

// TransformKeys rewrites every key of obj, recursing into nested objects and
// objects inside lists.
func TransformKeys(obj Record, to KeyCase) Record {
	convert := CamelToSnake
	if to == CamelCase {
		convert = SnakeToCamel
	}

	result := make(Record, len(obj))

	for key, value := range obj {
		result[convert(key)] = transformValue(value, to)
	}

	return result
}

func transformValue(value any, to KeyCase) any {
	switch typed := value.(type) {
	case map[string]any:
		return TransformKeys(typed, to)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = transformValue(item, to)
		}

		return out
	default:
		return value
	}
}

// isEmpty reports the values a parameter collection treats as "not set".
func isEmpty(value any) bool {
	if value == nil {
		return true
	}

	s, ok := value.(string)

	return ok && s == ""
}

// ProcessAdditionalFields drops unset values and unwraps fixed collections of
// the form {"values": [...]} into their list.
func ProcessAdditionalFields(fields Record) Record {
	processed := make(Record, len(fields))

	for key, value := range fields {
		if isEmpty(value) {
			continue
		}

		if nested, ok := value.(map[string]any); ok {
			if values, ok := nested["values"].([]any); ok {
				processed[key] = values

				continue
			}
		}

		processed[key] = value
	}

	return processed
}

// ParseFilters converts a filter collection into provider query parameters.
// A status list is joined with commas, dateFrom/dateTo become ISO timestamps
// under date_from/date_to and every other key is converted to snake_case.
func ParseFilters(filters Record) (Record, error) {
	query := make(Record, len(filters))

	for key, value := range filters {
		if isEmpty(value) {
			continue
		}

		switch key {
		case "status":
			query["status"] = joinStatus(value)
		case "dateFrom", "dateTo":
			formatted, err := FormatDate(value)
			if err != nil {
				return nil, fmt.Errorf("filter %s: %w", key, err)
			}

			query[CamelToSnake(key)] = formatted
		default:
			query[CamelToSnake(key)] = value
		}
	}

	return query, nil
}

func joinStatus(value any) any {
	switch typed := value.(type) {
	case []string:
		return strings.Join(typed, ",")
	case []any:
		parts := make([]string, len(typed))
		for i, item := range typed {
			parts[i] = fmt.Sprint(item)
		}

		return strings.Join(parts, ",")
	default:
		return value
	}
}

// FormatDate normalises a date parameter to the provider's ISO layout in UTC.
func FormatDate(value any) (string, error) {
	switch typed := value.(type) {
	case time.Time:
		return typed.UTC().Format(ISOTimestamp), nil
	case string:
		for _, layout := range dateLayouts {
			parsed, err := time.Parse(layout, typed)
			if err == nil {
				return parsed.UTC().Format(ISOTimestamp), nil
			}
		}

		return "", fmt.Errorf("%w: %q", ErrInvalidDate, typed)
	default:
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, value)
	}
}

// SimplifyOutput keeps only the named fields of each item. An empty field
// list returns the items unchanged.
func SimplifyOutput(items []Record, fields []string) []Record {
	if len(fields) == 0 {
		return items
	}

	simplified := make([]Record, len(items))

	for i, item := range items {
		out := make(Record, len(fields))

		for _, field := range fields {
			if value, ok := item[field]; ok {
				out[field] = value
			}
		}

		simplified[i] = out
	}

	return simplified
}
