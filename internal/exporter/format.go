package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// cellValue normalizes a table value for a spreadsheet cell. Non-finite
// floats become empty cells.
func cellValue(v any) any {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return ""
		}
		return n
	case float32:
		return cellValue(float64(n))
	case nil:
		return ""
	}
	return v
}

// FormatValue renders a table value for terminal output: floats with four
// decimals, everything else as is.
func FormatValue(v any) string {
	switch n := v.(type) {
	case float64:
		return formatFloat(n)
	case float32:
		return formatFloat(float64(n))
	case int:
		return strconv.Itoa(n)
	case int64:
		return formatInt(n)
	case string:
		return n
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// formatFloat formats a float64 with four decimals, trailing zeros removed
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = trimZeros(s)
	if s == "-0" {
		return "0"
	}
	return s
}

// formatInt formats an int64 value
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func trimZeros(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			end := len(s)
			for end > i+1 && s[end-1] == '0' {
				end--
			}
			if end == i+1 {
				end = i
			}
			return s[:end]
		}
	}
	return s
}
