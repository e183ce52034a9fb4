package lang

// The evaluator resolves one expression against one payload using a fixed
// strategy order:
//
//  1. Member strategy: a bare word naming a capability of the current
//     payload applies that capability directly.
//  2. Expression strategy: the stage is compiled and run by expr-lang
//     against the combined environment. A callable result is invoked with
//     the payload as its sole argument (no arguments when no payload).
//
// Before compiling, the parsed expression is scanned for identifiers with
// no binding, and each one is offered to the namespace registry. Every
// successful load re-runs the scan, so a chain of distinct resolvable names
// settles in finitely many passes. Names that remain unresolved classify
// the stage as a terminal failure.
//
// Every outcome is a Value; evaluation never panics out of this component.

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Evaluator applies expressions to payloads against an Environment.
type Evaluator struct {
	env *Environment
}

// NewEvaluator creates an Evaluator over env.
func NewEvaluator(env *Environment) *Evaluator {
	if env == nil {
		env = NewEnvironment(nil, nil)
	}

	return &Evaluator{env: env}
}

// Environment returns the evaluator's symbol environment.
func (e *Evaluator) Environment() *Environment { return e.env }

// Evaluate applies code to the bound payload and returns the outcome as a
// Value. The result carries no index; callers re-attach positions.
func (e *Evaluator) Evaluate(code string, b Binding) Value {
	if b.HasPayload && isMemberWord(code) {
		out, found, err := probeMember(b.Payload, strings.TrimSpace(code))
		if found {
			if err != nil {
				return errValue(err)
			}

			return MakeValue(out)
		}
	}

	out, err := e.evalExpr(code, b)
	if err != nil {
		return errValue(err)
	}

	return MakeValue(out)
}

// evalExpr runs the expression strategy with resolve-and-retry.
func (e *Evaluator) evalExpr(code string, b Binding) (any, error) {
	tree, err := parser.Parse(code)
	if err != nil {
		return nil, ErrExprParse.Wrap(err)
	}

	env := e.env.Combined(b.extra())

	// Resolve-and-retry: offer unresolved names to the registry and
	// recompose the environment after each successful load. The loop ends
	// when nothing is missing or nothing more resolves.
	reg := e.env.Registry()

	for {
		missing := unresolvedNames(tree, env, loadedSet(reg))
		if len(missing) == 0 {
			break
		}

		loaded := false
		for _, name := range missing {
			loaded = reg.Load(name) || loaded
		}

		if !loaded {
			return nil, undefinedError(missing[0], reg, env)
		}

		env = e.env.Combined(b.extra())
	}

	prog, err := expr.Compile(code, expr.Env(env))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err)
	}

	out, err := vm.Run(prog, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err)
	}

	return e.callResult(out, b)
}

// callResult invokes a callable result with the payload, or with no
// arguments when no payload is bound. Non-callable results pass through.
func (e *Evaluator) callResult(out any, b Binding) (result any, err error) {
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return out, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = ErrExprEvaluate.Wrap(fmt.Errorf("%v", r))
		}
	}()

	var args []reflect.Value

	if b.HasPayload && rv.Type().NumIn() > 0 {
		arg, err := coerceArg(b.Payload, rv.Type().In(0))
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return unpackResults(rv.Call(args))
}

// coerceArg adapts a payload to the parameter type of a callable result.
func coerceArg(payload any, want reflect.Type) (reflect.Value, error) {
	if payload == nil {
		return reflect.Zero(want), nil
	}

	av := reflect.ValueOf(payload)

	switch {
	case av.Type().AssignableTo(want):
		return av, nil
	case av.Type().ConvertibleTo(want):
		return av.Convert(want), nil
	default:
		return reflect.Value{}, ErrBadArgument.
			With(
				slog.String("have", av.Type().String()),
				slog.String("want", want.String()),
			).
			Wrap(fmt.Errorf("cannot pass %T as %s", payload, want))
	}
}

// unpackResults maps a reflective call result onto (value, error).
func unpackResults(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		if err, ok := out[1].Interface().(error); ok && err != nil {
			return nil, err
		}

		return out[0].Interface(), nil
	}
}

// unresolvedNames walks the parsed expression and collects, in source
// order, names with no binding in env: bare identifiers missing outright,
// and member accesses naming an absent key of a loaded namespace (the
// compound "os.path" shape). Only true namespaces participate in the
// member scan — a mapping payload with a missing key is the engine's
// business, not a resolution failure. Engine builtins are never reported.
func unresolvedNames(
	tree *parser.Tree,
	env map[string]any,
	namespaces map[string]bool,
) []string {
	scan := &nameScan{env: env, namespaces: namespaces}
	ast.Walk(&tree.Node, scan)

	return scan.missing
}

// loadedSet returns the names of currently loaded top-level namespaces.
func loadedSet(reg *Registry) map[string]bool {
	loaded := reg.Snapshot()

	set := make(map[string]bool, len(loaded))
	for name := range loaded {
		set[name] = true
	}

	return set
}

// nameScan implements ast.Visitor.
type nameScan struct {
	env        map[string]any
	namespaces map[string]bool
	missing    []string
	seen       map[string]bool
}

func (s *nameScan) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if _, ok := s.env[n.Value]; ok {
			return
		}

		if _, ok := builtin.Index[n.Value]; ok {
			return
		}

		s.add(n.Value)

	case *ast.MemberNode:
		ident, iok := n.Node.(*ast.IdentifierNode)

		prop, pok := n.Property.(*ast.StringNode)
		if !iok || !pok || !s.namespaces[ident.Value] {
			return
		}

		ns, ok := s.env[ident.Value].(map[string]any)
		if !ok {
			return
		}

		if _, ok := ns[prop.Value]; !ok {
			s.add(ident.Value + "." + prop.Value)
		}
	}
}

func (s *nameScan) add(name string) {
	if s.seen == nil {
		s.seen = map[string]bool{}
	}

	if s.seen[name] {
		return
	}

	s.seen[name] = true
	s.missing = append(s.missing, name)
}

// undefinedError builds the terminal failure for an unresolvable name,
// with fuzzy-ranked suggestions when any are close.
func undefinedError(name string, reg *Registry, env map[string]any) error {
	msg := fmt.Sprintf("name %q is not defined", name)

	if hints := reg.suggest(name, env); len(hints) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
	}

	return ErrUndefinedName.Wrap(NewError(msg)).
		With(slog.String("name", name))
}
