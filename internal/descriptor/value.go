package descriptor

import (
	"strconv"
	"strings"
)

// ParseValue converts a raw [info] value into the most specific type that
// accepts it: int64, float64, bool, []float64 (for "[a, b, ...]"), nil (for
// "null"), or the string itself.
func ParseValue(raw string) any {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if arr, ok := parseFloatArray(raw); ok {
		return arr
	}
	return raw
}

func parseFloatArray(raw string) ([]float64, bool) {
	if len(raw) < 2 || raw[0] != '[' || raw[len(raw)-1] != ']' {
		return nil, false
	}
	body := strings.TrimSpace(raw[1 : len(raw)-1])
	if body == "" {
		return []float64{}, true
	}
	parts := strings.Split(body, ",")
	arr := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		arr[i] = v
	}
	return arr, true
}
