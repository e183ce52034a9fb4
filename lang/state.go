package lang

// The cardinality state machine. A pipeline is always in exactly one of
// three states — Empty (no input), Single (one aggregate value), or Many
// (an ordered sequence) — and every stage application returns a fresh
// state, never mutating in place. The two shape-changing stages move
// between Many and Single; everything else evaluates within the current
// state.

import (
	"errors"
	"io"
	"reflect"

	"github.com/expr-lang/expr/file"
)

// State is the sealed interface over the three cardinality states.
type State interface {
	// Apply applies one stage and returns the successor state and whether
	// any evaluation failed terminally.
	Apply(ev *Evaluator, st stage, pol Policy) (State, bool)

	// Render writes the state's surviving output, one value per line, in
	// original input order.
	Render(w io.Writer, pol Policy) error

	state()
}

// Empty is the state of a run with no input stream.
type Empty struct{}

// Single holds exactly one aggregate value. A Single whose value has been
// filtered out renders nothing but remains Single.
type Single struct {
	val  Value
	live bool
}

// Many holds an ordered sequence of values, each optionally paired with
// its original input index.
type Many struct {
	elems []Value
}

func (Empty) state()  {}
func (Single) state() {}
func (Many) state()   {}

// EmptyState returns the state seeded from an interactive or absent input
// stream.
func EmptyState() State { return Empty{} }

// SingleOf returns the state seeded with one aggregate payload.
func SingleOf(payload any) State {
	return Single{val: MakeValue(payload), live: true}
}

// FromArgs returns the state seeded with a pre-split collection supplied
// as positional values, bypassing the input stream.
func FromArgs(args []string) State {
	return SingleOf(toSeq(args))
}

// ManyOf returns the state seeded from the ordered input lines, with each
// element tracking its original position.
func ManyOf(lines []string) State {
	elems := make([]Value, len(lines))
	for i, line := range lines {
		elems[i] = MakeIndexed(line, i)
	}

	return Many{elems: elems}
}

// Apply on Empty: shape changes are no-ops, and any other stage evaluates
// once with no payload, producing a Single.
func (s Empty) Apply(ev *Evaluator, st stage, pol Policy) (State, bool) {
	switch st.kind {
	case stageCollect, stageSpread:
		return s, false

	case stageAssign:
		return s, define(ev, st, Binding{})

	default:
		res := ev.Evaluate(st.code, Binding{})

		switch {
		case res.IsErr():
			return Single{val: res, live: pol.ShowErrors}, true

		case res.IsAbsent():
			return Single{val: res, live: pol.ShowNone}, false

		default:
			// With no prior element there is nothing to filter against;
			// the result stands on its own, booleans included.
			return Single{val: res, live: true}, false
		}
	}
}

func (s Single) Apply(ev *Evaluator, st stage, pol Policy) (State, bool) {
	if !s.live {
		return s, false
	}

	switch st.kind {
	case stageCollect:
		return s, false

	case stageSpread:
		seq, ok := asSlice(s.val.Payload)
		if !ok {
			// A non-collection payload passes through unchanged.
			return s, false
		}

		elems := make([]Value, len(seq))
		for i, el := range seq {
			elems[i] = MakeValue(el)
		}

		return Many{elems: elems}, false

	case stageAssign:
		return s, define(ev, st, bindValue(s.val))

	default:
		if s.val.IsErr() {
			// Error candidates ride through later stages untouched.
			return s, false
		}

		res := ev.Evaluate(st.code, bindValue(s.val))
		out, keep, failed := pol.resolveSingle(s.val, res)

		return Single{val: out, live: keep}, failed
	}
}

func (s Many) Apply(ev *Evaluator, st stage, pol Policy) (State, bool) {
	switch st.kind {
	case stageCollect:
		seq := make([]any, 0, len(s.elems))

		for _, el := range s.elems {
			if el.IsErr() {
				continue
			}

			seq = append(seq, el.Payload)
		}

		return Single{val: MakeValue(seq), live: true}, false

	case stageSpread:
		return s, false

	case stageAssign:
		return s.assign(ev, st)

	default:
		var (
			out    = make([]Value, 0, len(s.elems))
			failed bool
		)

		for _, el := range s.elems {
			if el.IsErr() {
				out = append(out, el)

				continue
			}

			res := ev.Evaluate(st.code, bindValue(el))

			kept, keep, fail := pol.resolve(el, res.at(el))
			failed = failed || fail

			if keep {
				out = append(out, kept)
			}
		}

		return Many{elems: out}, failed
	}
}

// assign evaluates the right-hand side once per element and binds the
// result into each element's local symbols; payloads are never altered.
// Only when every element agreed on the value is the binding promoted to
// the shared assignment layer, so it can outlive a collapse; a divergent
// assignment is withdrawn from that layer instead.
func (s Many) assign(ev *Evaluator, st stage) (State, bool) {
	var (
		out    = make([]Value, len(s.elems))
		agreed any
		first  = true
		same   = true
		failed bool
	)

	for i, el := range s.elems {
		out[i] = el

		if el.IsErr() {
			continue
		}

		res := ev.Evaluate(st.code, bindValue(el))
		if res.IsErr() {
			failed = true

			continue
		}

		out[i] = el.withLocal(st.name, res.Payload)

		switch {
		case first:
			agreed, first = res.Payload, false
		case !reflect.DeepEqual(agreed, res.Payload):
			same = false
		}
	}

	if !first && same {
		ev.Environment().Define(st.name, agreed)
	} else {
		ev.Environment().Undefine(st.name)
	}

	return Many{elems: out}, failed
}

// define evaluates an assignment stage's right-hand side and binds the
// result. The stream value is never altered by an assignment.
func define(ev *Evaluator, st stage, b Binding) (failed bool) {
	res := ev.Evaluate(st.code, b)
	if res.IsErr() {
		return true
	}

	ev.Environment().Define(st.name, res.Payload)

	return false
}

func (Empty) Render(io.Writer, Policy) error { return nil }

func (s Single) Render(w io.Writer, pol Policy) error {
	if !s.live {
		return nil
	}

	return renderValue(w, s.val, pol)
}

func (s Many) Render(w io.Writer, pol Policy) error {
	for _, el := range s.elems {
		err := renderValue(w, el, pol)
		if err != nil {
			return err
		}
	}

	return nil
}

// renderValue prints one surviving value on its own line, applying the
// error and absence switches one final time.
func renderValue(w io.Writer, v Value, pol Policy) error {
	var line string

	switch {
	case v.IsErr():
		if !pol.ShowErrors {
			return nil
		}

		line = rootMessage(v.Err)

	case v.IsAbsent():
		if !pol.ShowNone {
			return nil
		}

		line = formatValue(nil)

	default:
		line = formatValue(v.Payload)
	}

	_, err := io.WriteString(w, line+"\n")

	return err
}

// rootMessage unwraps to the innermost cause so failures print as a single
// terse line. Engine errors print their bare message without the source
// snippet and location the engine normally attaches.
func rootMessage(err error) string {
	fe := &file.Error{}
	if errors.As(err, &fe) {
		return fe.Message
	}

	for {
		cause := errors.Unwrap(err)
		if cause == nil {
			return err.Error()
		}

		err = cause
	}
}
