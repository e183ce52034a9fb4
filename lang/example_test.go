package lang_test

import (
	"context"
	"os"

	"github.com/ardnew/pype/lang"
)

func newPipeline(lines []string, pol lang.Policy) *lang.Pipeline {
	env := lang.NewEnvironment(lang.NewRegistry(), nil)

	return lang.NewPipeline(lang.NewEvaluator(env), lang.ManyOf(lines), pol)
}

func Example() {
	pipe := newPipeline([]string{"1", "2", "3", "4"}, lang.Policy{})

	_, _ = pipe.Run(context.Background(),
		[]string{"int", "x % 2 == 0"}, os.Stdout)
	// Output:
	// 2
	// 4
}

func Example_collect() {
	pipe := newPipeline([]string{"5", "7", "3", "4"}, lang.Policy{})

	_, _ = pipe.Run(context.Background(),
		[]string{"int", "xargs", "sorted"}, os.Stdout)
	// Output:
	// [3, 4, 5, 7]
}

func Example_namespaces() {
	pipe := newPipeline([]string{"9", "16"}, lang.Policy{})

	_, _ = pipe.Run(context.Background(),
		[]string{"float", "math.sqrt(x)"}, os.Stdout)
	// Output:
	// 3
	// 4
}

func Example_showErrors() {
	pipe := newPipeline([]string{"1", "a", "3"},
		lang.Policy{ShowErrors: true})

	_, _ = pipe.Run(context.Background(), []string{"int"}, os.Stdout)
	// Output:
	// 1
	// cannot convert "a" to int
	// 3
}
