// Package lang implements the expression pipeline at the heart of pype:
// a chain of expressions applied to a stream of input values, threading a
// single value through successive stages.
//
// Each stage is evaluated by [Evaluator] against a layered [Environment]
// of builtin conversions, dynamically loaded namespaces, user symbols, and
// the conventional bindings "x" (current payload) and "i" (input index).
// Unresolved identifiers are offered to a [Registry] of lazily-loaded
// namespaces and the evaluation retried, so "math.sqrt(x)" works without
// any explicit import.
//
// The stream itself is modeled by the sealed [State] interface with three
// cardinality states — [Empty], [Single], and [Many] — and two reserved
// stage words: "xargs" collapses Many into a Single collection, and
// "unxargs" explodes a Single collection into Many.
//
// Failed or filtered elements never abort a run. A [Policy] decides
// whether errors, booleans, and nil results are printed, filtered, or
// passed through, and [Pipeline.Run] reports whether anything failed so
// the process exit status can reflect it.
package lang
