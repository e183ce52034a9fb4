package lang

// The pipeline driver. Input is consumed eagerly into an ordered sequence
// before the first stage runs; each stage application replaces the current
// state; the final state renders to the output writer. Failure is an
// accumulator threaded through the run and returned to the caller — one
// failed element anywhere makes the whole run failed, without aborting it.

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// stageKind classifies one expression in the chain.
type stageKind int

const (
	stageExpr    stageKind = iota // evaluate within the current state
	stageCollect                  // collapse Many into Single ("xargs")
	stageSpread                   // explode Single into Many ("unxargs")
	stageAssign                   // bind a name, pass the stream through
)

// CollectWord and SpreadWord are the reserved stage words for the two
// shape-changing operations.
const (
	CollectWord = "xargs"
	SpreadWord  = "unxargs"
)

// stage is one parsed expression of the chain.
type stage struct {
	kind stageKind
	name string // assignment target, for stageAssign
	code string // expression source, for stageExpr and stageAssign
}

// assignPattern matches "name = expr". The right-hand side must not begin
// with "=" so comparisons like "x == 0" remain expressions.
var assignPattern = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*=\s*([^=].*)$`)

// parseStage classifies one expression of the chain.
func parseStage(code string) stage {
	switch strings.TrimSpace(code) {
	case CollectWord:
		return stage{kind: stageCollect}
	case SpreadWord:
		return stage{kind: stageSpread}
	}

	if m := assignPattern.FindStringSubmatch(code); m != nil {
		return stage{kind: stageAssign, name: m[1], code: m[2]}
	}

	return stage{kind: stageExpr, code: code}
}

// Pipeline threads a cardinality state through a chain of expressions.
type Pipeline struct {
	ev     *Evaluator
	state  State
	policy Policy
}

// NewPipeline creates a Pipeline over the given evaluator, seeded with the
// initial state.
func NewPipeline(ev *Evaluator, initial State, pol Policy) *Pipeline {
	if ev == nil {
		ev = NewEvaluator(nil)
	}

	if initial == nil {
		initial = EmptyState()
	}

	return &Pipeline{ev: ev, state: initial, policy: pol}
}

// Run applies each expression in order and renders the final state to w.
// It reports whether any evaluation failed terminally; failures never
// abort the run. The context is consulted between stages only.
func (p *Pipeline) Run(
	ctx context.Context,
	exprs []string,
	w io.Writer,
) (failed bool, err error) {
	for _, code := range exprs {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		st := parseStage(code)

		next, fail := p.state.Apply(p.ev, st, p.policy)
		failed = failed || fail

		slog.Debug("stage applied",
			slog.String("expr", code),
			slog.Bool("failed", fail),
		)

		p.state = next
	}

	return failed, p.state.Render(w, p.policy)
}

// ReadLines eagerly consumes r into the ordered input sequence, with line
// terminators stripped.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err := scanner.Err()
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return lines, nil
}
