package lang

// This file defines the layered symbol environment visible to every
// expression. Each evaluation attempt composes a fresh map so a namespace
// loaded mid-run is visible to all subsequent evaluations. Layers are merged
// in increasing precedence:
//
//	conversion builtins < loaded namespaces < user symbols < assignments < element locals < call bindings
//
// The conventional call bindings are "x" (current payload) and "i" (ordinal
// index of the payload in the original input, when tracked).

import "maps"

// PayloadName is the conventional binding for the current payload.
const PayloadName = "x"

// IndexName is the conventional binding for the current input index.
const IndexName = "i"

// Environment assembles the symbol mapping for expression evaluation.
// It is a read-only view over its layers; Combined never mutates them.
type Environment struct {
	reg     *Registry
	symbols map[string]any // user-supplied symbols, loaded once at startup
	defines map[string]any // bindings created by assignment stages
}

// NewEnvironment creates an Environment over the given namespace registry
// and user symbol table. Either argument may be nil.
func NewEnvironment(reg *Registry, symbols map[string]any) *Environment {
	if reg == nil {
		reg = NewRegistry()
	}

	return &Environment{
		reg:     reg,
		symbols: symbols,
		defines: map[string]any{},
	}
}

// Registry returns the namespace registry consulted for dynamic resolution.
func (e *Environment) Registry() *Registry { return e.reg }

// Define binds name to value for all subsequent evaluations.
// Assignment stages are the only writers.
func (e *Environment) Define(name string, value any) {
	e.defines[name] = value
}

// Undefine removes an assignment-layer binding. An assignment whose value
// diverges across elements is withdrawn from the shared layer so the name
// does not outlive the elements that disagreed on it.
func (e *Environment) Undefine(name string) {
	delete(e.defines, name)
}

// Combined merges all layers with extra bound at the highest precedence.
// The returned map is owned by the caller.
func (e *Environment) Combined(extra map[string]any) map[string]any {
	env := conversions()

	for name, ns := range e.reg.Snapshot() {
		env[name] = ns
	}

	maps.Copy(env, e.symbols)
	maps.Copy(env, e.defines)
	maps.Copy(env, extra)

	return env
}

// Binding carries the call-local values bound during one evaluation.
type Binding struct {
	Payload    any
	Index      int
	HasPayload bool
	HasIndex   bool
	Locals     map[string]any
}

// extra converts the binding into its environment layer. Element locals
// sit below the x and i bindings.
func (b Binding) extra() map[string]any {
	m := make(map[string]any, len(b.Locals)+2)

	maps.Copy(m, b.Locals)

	if b.HasPayload {
		m[PayloadName] = b.Payload
	}

	if b.HasIndex {
		m[IndexName] = b.Index
	}

	return m
}

// bindValue returns the Binding for evaluating against v.
func bindValue(v Value) Binding {
	return Binding{
		Payload:    v.Payload,
		Index:      v.Index,
		HasPayload: true,
		HasIndex:   v.Indexed,
		Locals:     v.locals,
	}
}
