package node

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// present reports whether a parameter carries a usable value.
func present(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return typed != ""
	default:
		return true
	}
}

// stringParam returns the parameter as text, or "" when unset.
func stringParam(p Params, name string) string {
	value, ok := p[name]
	if !ok || value == nil {
		return ""
	}

	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func requiredString(p Params, name string) (string, error) {
	value := stringParam(p, name)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}

	return value, nil
}

// boolParam accepts booleans and their string forms; unset is false.
func boolParam(p Params, name string) (bool, error) {
	switch typed := p[name].(type) {
	case nil:
		return false, nil
	case bool:
		return typed, nil
	case string:
		if typed == "" {
			return false, nil
		}

		parsed, err := strconv.ParseBool(typed)
		if err != nil {
			return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidParam, name)
		}

		return parsed, nil
	default:
		return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidParam, name)
	}
}

// intParam accepts JSON numbers and numeric strings; unset returns def.
func intParam(p Params, name string, def int) (int, error) {
	switch typed := p[name].(type) {
	case nil:
		return def, nil
	case int:
		return typed, nil
	case float64:
		return int(typed), nil
	case string:
		if typed == "" {
			return def, nil
		}

		parsed, err := strconv.Atoi(typed)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidParam, name)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidParam, name)
	}
}

// collection returns a nested parameter object such as additionalFields.
func collection(p Params, name string) proposify.Record {
	if name == "" {
		return nil
	}

	nested, _ := p[name].(map[string]any)

	return nested
}

// splitList turns "a, b,c" into ["a", "b", "c"]. Lists pass through.
func splitList(value any) any {
	text, ok := value.(string)
	if !ok {
		return value
	}

	parts := strings.Split(text, ",")
	out := make([]any, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
