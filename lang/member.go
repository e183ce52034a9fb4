package lang

// The member strategy: a stage consisting of a single bare word is first
// probed against a closed capability table for the current payload kind.
// A hit applies the operation directly, so "split" means "split the current
// string" without an explicit call or payload prefix. Only when the probe
// misses does the stage fall through to the expression engine.

import "strings"

// memberOp applies one well-known operation to a payload.
type memberOp func(v any) (any, error)

// probeMember looks up name in the capability table for payload's kind.
// The second return reports whether the member exists; an existing member
// may still fail (for example, int on a non-numeric string).
func probeMember(payload any, name string) (any, bool, error) {
	table, ok := memberTable(payload)
	if !ok {
		return nil, false, nil
	}

	op, ok := table[name]
	if !ok {
		return nil, false, nil
	}

	out, err := op(payload)

	return out, true, err
}

// isMemberWord reports whether code could name a member: a single
// identifier-shaped word with no operators or calls.
func isMemberWord(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	for i, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// memberTable selects the capability table for payload's kind.
func memberTable(payload any) (map[string]memberOp, bool) {
	switch payload.(type) {
	case string:
		return stringMembers, true
	case map[string]any:
		return mapMembers, true
	default:
		if _, ok := asFloat(payload); ok {
			return numberMembers, true
		}

		if _, ok := asSlice(payload); ok {
			return seqMembers, true
		}

		return nil, false
	}
}

//nolint:gochecknoglobals
var stringMembers = map[string]memberOp{
	"split":  func(v any) (any, error) { return splitFields(v.(string)), nil },
	"fields": func(v any) (any, error) { return splitFields(v.(string)), nil },
	"lines":  func(v any) (any, error) { return splitLines(v.(string)), nil },
	"upper":  func(v any) (any, error) { return strings.ToUpper(v.(string)), nil },
	"lower":  func(v any) (any, error) { return strings.ToLower(v.(string)), nil },
	"trim":   func(v any) (any, error) { return strings.TrimSpace(v.(string)), nil },
	"len":    payloadLen,
	"int":    convInt,
	"float":  convFloat,
}

//nolint:gochecknoglobals
var numberMembers = map[string]memberOp{
	"int":   convInt,
	"float": convFloat,
	"abs":   absNumber,
	"range": intRange,
	"str":   func(v any) (any, error) { return formatValue(v), nil },
}

//nolint:gochecknoglobals
var seqMembers = map[string]memberOp{
	"len":      payloadLen,
	"sum":      seqSum,
	"sorted":   seqSorted,
	"sort":     seqSorted,
	"reversed": seqReversed,
	"min":      func(v any) (any, error) { return seqExtreme(v, false) },
	"max":      func(v any) (any, error) { return seqExtreme(v, true) },
	"join":     func(v any) (any, error) { return seqJoin(v, "") },
	"first": func(v any) (any, error) {
		seq, _ := asSlice(v)
		if len(seq) == 0 {
			return nil, nil
		}

		return seq[0], nil
	},
	"last": func(v any) (any, error) {
		seq, _ := asSlice(v)
		if len(seq) == 0 {
			return nil, nil
		}

		return seq[len(seq)-1], nil
	},
}

//nolint:gochecknoglobals
var mapMembers = map[string]memberOp{
	"keys":   mapKeys,
	"values": mapValues,
	"len":    payloadLen,
}
