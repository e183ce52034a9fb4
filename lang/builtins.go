package lang

// Payload helpers shared by the member probe, the conversion builtins, and
// the builtin namespaces. Payloads are limited to a small closed set of
// kinds: string, integer, float, boolean, sequence, and mapping.

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/builtin"
)

// conversions returns the function values injected into every combined
// environment so a bare word can evaluate to a callable (which the
// evaluator then invokes with the current payload).
//
// Names that collide with the expression engine's own builtin functions are
// excluded: the engine already serves those in call position, and the member
// probe serves them in bare-word position.
func conversions() map[string]any {
	env := map[string]any{
		"str":      func(v any) any { return formatValue(v) },
		"lines":    splitLines,
		"fields":   splitFields,
		"range":    intRange,
		"reversed": seqReversed,
	}

	for name := range env {
		if _, ok := builtin.Index[name]; ok {
			delete(env, name)
		}
	}

	return env
}

// asInt64 reports v as an int64 when it has an integral kind.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

// asFloat reports v as a float64 when it has any numeric kind.
func asFloat(v any) (float64, bool) {
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}

	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// isFloat reports whether v has a floating-point kind.
func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

// convInt converts v to an int64 payload.
func convInt(v any) (any, error) {
	if n, ok := asInt64(v); ok {
		return n, nil
	}

	switch n := v.(type) {
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, Errorf("cannot convert %q to int", n)
		}

		return i, nil
	default:
		return nil, Errorf("cannot convert %T to int", v)
	}
}

// convFloat converts v to a float64 payload.
func convFloat(v any) (any, error) {
	if f, ok := asFloat(v); ok {
		return f, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, Errorf("cannot convert %T to float", v)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, Errorf("cannot convert %q to float", s)
	}

	return f, nil
}

// splitFields splits s around runs of whitespace.
func splitFields(s string) []any {
	fields := strings.Fields(s)
	seq := make([]any, len(fields))

	for i, f := range fields {
		seq[i] = f
	}

	return seq
}

// splitLines splits s on newlines, dropping a single trailing terminator.
func splitLines(s string) []any {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}

	lines := strings.Split(s, "\n")
	seq := make([]any, len(lines))

	for i, l := range lines {
		seq[i] = l
	}

	return seq
}

// intRange returns the sequence [0, n).
func intRange(v any) (any, error) {
	n, ok := asInt64(v)
	if !ok {
		return nil, Errorf("range requires an integer, got %T", v)
	}

	seq := make([]any, 0, int(max(n, 0)))
	for i := int64(0); i < n; i++ {
		seq = append(seq, i)
	}

	return seq, nil
}

// asSlice reports v as a []any when it has a sequence kind.
func asSlice(v any) ([]any, bool) {
	if seq, ok := v.([]any); ok {
		return seq, true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() ||
		(rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}

	seq := make([]any, rv.Len())
	for i := range seq {
		seq[i] = rv.Index(i).Interface()
	}

	return seq, true
}

// seqSum folds a numeric sequence, producing int64 unless any element is a
// float.
func seqSum(v any) (any, error) {
	seq, ok := asSlice(v)
	if !ok {
		return nil, Errorf("sum requires a sequence, got %T", v)
	}

	var (
		total float64
		whole = true
	)

	for _, el := range seq {
		f, ok := asFloat(el)
		if !ok {
			return nil, Errorf("sum requires numbers, got %T", el)
		}

		whole = whole && !isFloat(el)
		total += f
	}

	if whole {
		return int64(total), nil
	}

	return total, nil
}

// lessValue orders payloads numerically when both sides are numbers and
// lexically by rendered form otherwise.
func lessValue(a, b any) bool {
	fa, aok := asFloat(a)
	fb, bok := asFloat(b)

	if aok && bok {
		return fa < fb
	}

	return formatValue(a) < formatValue(b)
}

// seqSorted returns an ordered copy of the sequence.
func seqSorted(v any) (any, error) {
	seq, ok := asSlice(v)
	if !ok {
		return nil, Errorf("sorted requires a sequence, got %T", v)
	}

	out := slices.Clone(seq)
	slices.SortStableFunc(out, func(a, b any) int {
		switch {
		case lessValue(a, b):
			return -1
		case lessValue(b, a):
			return 1
		default:
			return 0
		}
	})

	return out, nil
}

// seqReversed returns a reversed copy of the sequence.
func seqReversed(v any) (any, error) {
	seq, ok := asSlice(v)
	if !ok {
		return nil, Errorf("reversed requires a sequence, got %T", v)
	}

	out := slices.Clone(seq)
	slices.Reverse(out)

	return out, nil
}

// seqExtreme returns the minimum or maximum element of the sequence.
func seqExtreme(v any, most bool) (any, error) {
	seq, ok := asSlice(v)
	if !ok || len(seq) == 0 {
		return nil, Errorf("min/max requires a non-empty sequence, got %T", v)
	}

	best := seq[0]

	for _, el := range seq[1:] {
		replace := lessValue(el, best)
		if most {
			replace = lessValue(best, el)
		}

		if replace {
			best = el
		}
	}

	return best, nil
}

// seqJoin renders every element and joins them with sep.
func seqJoin(v any, sep string) (any, error) {
	seq, ok := asSlice(v)
	if !ok {
		return nil, Errorf("join requires a sequence, got %T", v)
	}

	parts := make([]string, len(seq))
	for i, el := range seq {
		parts[i] = formatValue(el)
	}

	return strings.Join(parts, sep), nil
}

// mapKeys returns the sorted keys of a mapping payload.
func mapKeys(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Errorf("keys requires a mapping, got %T", v)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	seq := make([]any, len(keys))
	for i, k := range keys {
		seq[i] = k
	}

	return seq, nil
}

// mapValues returns the values of a mapping payload in key order.
func mapValues(v any) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Errorf("values requires a mapping, got %T", v)
	}

	keysSeq, err := mapKeys(v)
	if err != nil {
		return nil, err
	}

	keys, _ := keysSeq.([]any)

	seq := make([]any, len(keys))
	for i, k := range keys {
		seq[i] = m[k.(string)]
	}

	return seq, nil
}

// payloadLen returns the length of a string, sequence, or mapping payload.
func payloadLen(v any) (any, error) {
	switch p := v.(type) {
	case string:
		return int64(len(p)), nil
	case map[string]any:
		return int64(len(p)), nil
	default:
		if seq, ok := asSlice(v); ok {
			return int64(len(seq)), nil
		}

		return nil, Errorf("len is undefined for %T", v)
	}
}

// absNumber returns the absolute value of a numeric payload.
func absNumber(v any) (any, error) {
	if n, ok := asInt64(v); ok {
		if n < 0 {
			return -n, nil
		}

		return n, nil
	}

	if f, ok := asFloat(v); ok {
		if f < 0 {
			return -f, nil
		}

		return f, nil
	}

	return nil, Errorf("abs requires a number, got %T", v)
}
