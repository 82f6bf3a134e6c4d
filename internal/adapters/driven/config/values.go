// Package config holds the value conversions shared by ConfigStore implementations.
// TOML decodes integers as int64 and arrays as []any; these helpers accept
// both the decoded and the natively typed forms.
package config

// String returns val as a string, or "" if it is not one.
func String(val any) string {
	str, _ := val.(string)
	return str
}

// Int returns val as an int, or 0 if it is not numeric.
func Int(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Bool returns val as a bool, or false if it is not one.
func Bool(val any) bool {
	b, _ := val.(bool)
	return b
}

// Tables returns val as an array of tables, or nil if it is not one.
// Non-table elements are skipped.
func Tables(val any) []map[string]any {
	switch v := val.(type) {
	case []map[string]any:
		return v
	case []any:
		result := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if table, ok := item.(map[string]any); ok {
				result = append(result, table)
			}
		}
		return result
	default:
		return nil
	}
}
