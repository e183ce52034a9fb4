package lang

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// formatValue renders a payload for output. Strings print bare, numbers
// minimally, sequences as "[a, b, c]", and mappings as "{k: v}" in key
// order. Rendering never fails; unknown kinds fall back to fmt.
func formatValue(v any) string {
	switch p := v.(type) {
	case nil:
		return "nil"

	case bool:
		return strconv.FormatBool(p)

	case string:
		return p

	case int:
		return strconv.Itoa(p)

	case int64:
		return strconv.FormatInt(p, 10)

	case float64:
		return strconv.FormatFloat(p, 'g', -1, 64)

	case float32:
		return strconv.FormatFloat(float64(p), 'g', -1, 32)

	case map[string]any:
		return formatMap(p)

	default:
		if seq, ok := asSlice(v); ok {
			return formatSeq(seq)
		}

		return fmt.Sprintf("%v", v)
	}
}

func formatSeq(seq []any) string {
	parts := make([]string, len(seq))
	for i, el := range seq {
		parts[i] = formatValue(el)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func formatMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + formatValue(m[k])
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
