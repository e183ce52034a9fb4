package lang

import "maps"

// Value is the atomic unit that flows through the pipeline: one payload,
// optionally paired with its ordinal position in the original input.
//
// A Value with a non-nil Err marks a failed evaluation. A Value with a nil
// payload and nil Err is the absence marker. Shape changes that destroy
// positional meaning clear Indexed.
//
// locals holds assignment bindings scoped to this element. They shadow the
// shared assignment layer during evaluation and do not survive a collapse.
type Value struct {
	Payload any
	Err     error
	Index   int
	Indexed bool

	locals map[string]any
}

// MakeValue returns a Value holding payload with no index.
func MakeValue(payload any) Value {
	return Value{Payload: payload}
}

// MakeIndexed returns a Value holding payload at ordinal position index.
func MakeIndexed(payload any, index int) Value {
	return Value{Payload: payload, Index: index, Indexed: true}
}

// errValue returns an error-marked Value carrying err as its payload.
func errValue(err error) Value {
	return Value{Err: err}
}

// IsErr reports whether the Value marks a failed evaluation.
func (v Value) IsErr() bool { return v.Err != nil }

// IsAbsent reports whether the Value is the absence marker.
func (v Value) IsAbsent() bool { return v.Err == nil && v.Payload == nil }

// at returns a copy of v positioned at the index of prev, preserving the
// (payload, index, locals) grouping across a per-element evaluation.
func (v Value) at(prev Value) Value {
	v.Index = prev.Index
	v.Indexed = prev.Indexed
	v.locals = prev.locals

	return v
}

// withLocal returns a copy of v with name bound in its element-local
// symbols. The receiver's map is never mutated.
func (v Value) withLocal(name string, val any) Value {
	locals := make(map[string]any, len(v.locals)+1)
	maps.Copy(locals, v.locals)
	locals[name] = val

	v.locals = locals

	return v
}
