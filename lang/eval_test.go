package lang

import (
	"strings"
	"testing"
)

func newTestEvaluator(symbols map[string]any) *Evaluator {
	return NewEvaluator(NewEnvironment(NewRegistry(), symbols))
}

func TestEvaluate_Literal(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("5 + 5", Binding{})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if formatValue(res.Payload) != "10" {
		t.Errorf("expected 10, got %v", res.Payload)
	}
}

func TestEvaluate_PayloadBinding(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate(`"[[" + x + "]]"`, Binding{
		Payload:    "foo",
		HasPayload: true,
	})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if res.Payload != "[[foo]]" {
		t.Errorf("expected [[foo]], got %v", res.Payload)
	}
}

func TestEvaluate_IndexBinding(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("i * 2", Binding{
		Payload:    "ignored",
		Index:      3,
		HasPayload: true,
		HasIndex:   true,
	})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if formatValue(res.Payload) != "6" {
		t.Errorf("expected 6, got %v", res.Payload)
	}
}

func TestEvaluate_MemberBeforeExpression(t *testing.T) {
	// A bare word naming a payload capability must resolve as a member,
	// not as a free identifier.
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("split", Binding{Payload: "a b", HasPayload: true})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if got := formatValue(res.Payload); got != "[a, b]" {
		t.Errorf("expected [a, b], got %s", got)
	}
}

func TestEvaluate_MemberFailureIsTerminal(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("int", Binding{Payload: "a", HasPayload: true})
	if !res.IsErr() {
		t.Fatalf("expected error, got %v", res.Payload)
	}

	if msg := rootMessage(res.Err); !strings.Contains(msg, "cannot convert") {
		t.Errorf("unexpected error message: %s", msg)
	}
}

func TestEvaluate_CallableResultInvoked(t *testing.T) {
	// A bare expression evaluating to a callable is invoked with the
	// payload as its sole argument.
	ev := newTestEvaluator(map[string]any{
		"double": func(v any) (any, error) { return convInt(v) },
	})

	res := ev.Evaluate("double", Binding{Payload: "21", HasPayload: true})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if res.Payload != int64(21) {
		t.Errorf("expected 21, got %v (%T)", res.Payload, res.Payload)
	}
}

func TestEvaluate_CallableNoPayload(t *testing.T) {
	ev := newTestEvaluator(map[string]any{
		"answer": func() any { return 42 },
	})

	res := ev.Evaluate("answer", Binding{})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if res.Payload != 42 {
		t.Errorf("expected 42, got %v", res.Payload)
	}
}

func TestEvaluate_DynamicResolution(t *testing.T) {
	// math is not pre-loaded; the first unresolved-identifier result must
	// load it and retry.
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("math.sqrt(x)", Binding{Payload: "9", HasPayload: true})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if res.Payload != 3.0 {
		t.Errorf("expected 3.0, got %v (%T)", res.Payload, res.Payload)
	}

	if _, ok := ev.Environment().Registry().Snapshot()["math"]; !ok {
		t.Error("math namespace was not recorded as loaded")
	}
}

func TestEvaluate_CompoundResolution(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate(`os.path.ext(x)`, Binding{
		Payload:    "dir/file.txt",
		HasPayload: true,
	})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if res.Payload != ".txt" {
		t.Errorf("expected .txt, got %v", res.Payload)
	}
}

func TestEvaluate_UndefinedName(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("foo", Binding{})
	if !res.IsErr() {
		t.Fatalf("expected error, got %v", res.Payload)
	}

	msg := rootMessage(res.Err)
	if !strings.Contains(msg, `name "foo" is not defined`) {
		t.Errorf("unexpected error message: %s", msg)
	}
}

func TestEvaluate_UndefinedNameSuggestion(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("mat.sqrt(2)", Binding{})
	if !res.IsErr() {
		t.Fatalf("expected error, got %v", res.Payload)
	}

	if msg := rootMessage(res.Err); !strings.Contains(msg, "math") {
		t.Errorf("expected a suggestion naming math, got: %s", msg)
	}
}

func TestEvaluate_PayloadMapIsNotANamespace(t *testing.T) {
	// A missing key of a mapping payload must be left to the engine, not
	// treated as a loadable namespace.
	ev := newTestEvaluator(nil)

	res := ev.Evaluate(`x["missing"]`, Binding{
		Payload:    map[string]any{"present": 1},
		HasPayload: true,
	})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if !res.IsAbsent() {
		t.Errorf("expected absent result, got %v", res.Payload)
	}
}

func TestEvaluate_UserSymbols(t *testing.T) {
	ev := newTestEvaluator(map[string]any{"greeting": "bar"})

	res := ev.Evaluate("greeting", Binding{})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	if res.Payload != "bar" {
		t.Errorf("expected bar, got %v", res.Payload)
	}
}

func TestEvaluate_BindingShadowsSymbols(t *testing.T) {
	ev := newTestEvaluator(map[string]any{PayloadName: "shadowed"})

	res := ev.Evaluate("x", Binding{Payload: "current", HasPayload: true})
	if res.Payload != "current" {
		t.Errorf("call binding must win, got %v", res.Payload)
	}
}

func TestEvaluate_JSONNamespace(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("json.loads", Binding{
		Payload:    `{"a": 3}`,
		HasPayload: true,
	})
	if res.IsErr() {
		t.Fatalf("evaluate error: %v", res.Err)
	}

	m, ok := res.Payload.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", res.Payload)
	}

	if formatValue(m["a"]) != "3" {
		t.Errorf(`expected a: 3, got %v`, m["a"])
	}
}

func TestEvaluate_ParseFailure(t *testing.T) {
	ev := newTestEvaluator(nil)

	res := ev.Evaluate("x +", Binding{Payload: 1, HasPayload: true})
	if !res.IsErr() {
		t.Fatalf("expected parse error, got %v", res.Payload)
	}
}
