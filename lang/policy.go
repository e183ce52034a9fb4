package lang

// Policy controls how evaluation results are filtered into output.
// All three switches default to off: failures and nil results are
// invisible, and booleans act as filters.
type Policy struct {
	// ShowErrors prints failed evaluations instead of dropping them.
	ShowErrors bool
	// ShowBool prints boolean results instead of filtering on them.
	ShowBool bool
	// ShowNone prints nil results instead of passing the input through.
	ShowNone bool
}

// resolve decides the fate of one element after evaluation. prev is the
// pre-evaluation Value, res the evaluation result positioned at prev.
// It returns the surviving Value, whether the element survives, and
// whether the evaluation failed terminally.
//
//   - error result: failure is recorded; the error is the output candidate
//     under ShowErrors, otherwise the element is dropped (single-value
//     callers pass the previous value through instead, see resolveSingle)
//   - nil result: transparent pass-through of prev, unless ShowNone
//   - boolean result: filter on truth, unless ShowBool
//   - anything else replaces the element outright
func (p Policy) resolve(prev, res Value) (out Value, keep, failed bool) {
	if res.IsErr() {
		if p.ShowErrors {
			return res, true, true
		}

		return prev, false, true
	}

	if res.IsAbsent() {
		if p.ShowNone {
			return res, true, false
		}

		return prev, true, false
	}

	if b, ok := res.Payload.(bool); ok && !p.ShowBool {
		return prev, b, false
	}

	return res, true, false
}

// resolveSingle applies the policy for the Single state, where a dropped
// error keeps the pre-evaluation value in place of removing the element.
func (p Policy) resolveSingle(prev, res Value) (out Value, keep, failed bool) {
	out, keep, failed = p.resolve(prev, res)
	if failed && !keep {
		return prev, true, true
	}

	return out, keep, failed
}
