package lint

import (
	"strconv"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts core.RuleOptions, key string, defaultVal T) T {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetIntOption extracts an int option, handling float64 from JSON and
// strings from environment variables.
func GetIntOption(opts core.RuleOptions, key string, defaultVal int) int {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolOption extracts a bool option. Strings such as "true" are accepted.
func GetBoolOption(opts core.RuleOptions, key string, defaultVal bool) bool {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(opts core.RuleOptions, key string, defaultVal []string) []string {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return defaultVal
	}
}
