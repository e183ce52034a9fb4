package lang

import "testing"

func TestPolicyResolve(t *testing.T) {
	prev := MakeIndexed("in", 4)

	tests := []struct {
		name   string
		pol    Policy
		res    Value
		out    any
		keep   bool
		failed bool
	}{
		{
			name: "value replaces",
			res:  MakeValue("out"), out: "out", keep: true,
		},
		{
			name: "error drops",
			res:  errValue(NewError("boom")), out: "in", failed: true,
		},
		{
			name: "error shown",
			pol:  Policy{ShowErrors: true},
			res:  errValue(NewError("boom")), keep: true, failed: true,
		},
		{
			name: "nil passes through",
			res:  MakeValue(nil), out: "in", keep: true,
		},
		{
			name: "nil shown",
			pol:  Policy{ShowNone: true},
			res:  MakeValue(nil), keep: true,
		},
		{
			name: "true keeps input",
			res:  MakeValue(true), out: "in", keep: true,
		},
		{
			name: "false drops input",
			res:  MakeValue(false), out: "in",
		},
		{
			name: "bool shown",
			pol:  Policy{ShowBool: true},
			res:  MakeValue(false), out: false, keep: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, keep, failed := tt.pol.resolve(prev, tt.res.at(prev))

			if keep != tt.keep {
				t.Errorf("keep = %v, want %v", keep, tt.keep)
			}

			if failed != tt.failed {
				t.Errorf("failed = %v, want %v", failed, tt.failed)
			}

			if keep && !out.IsErr() && out.Payload != tt.out {
				t.Errorf("payload = %v, want %v", out.Payload, tt.out)
			}
		})
	}
}

func TestPolicyResolveSingle(t *testing.T) {
	prev := MakeValue("in")
	res := errValue(NewError("boom"))

	out, keep, failed := Policy{}.resolveSingle(prev, res)
	if !keep || !failed {
		t.Fatalf("keep=%v failed=%v, want true/true", keep, failed)
	}

	if out.Payload != "in" {
		t.Errorf("a dropped failure must keep the prior value, got %v",
			out.Payload)
	}
}

func TestValueAt(t *testing.T) {
	prev := MakeIndexed("a", 7)

	got := MakeValue("b").at(prev)
	if !got.Indexed || got.Index != 7 {
		t.Errorf("index not preserved: %+v", got)
	}

	if got.Payload != "b" {
		t.Errorf("payload clobbered: %+v", got)
	}
}

func TestValueMarkers(t *testing.T) {
	if !MakeValue(nil).IsAbsent() {
		t.Error("nil payload must be absent")
	}

	if MakeValue(false).IsAbsent() {
		t.Error("false is a value, not absence")
	}

	ev := errValue(NewError("boom"))
	if !ev.IsErr() || ev.IsAbsent() {
		t.Error("error values must not be absent")
	}
}
