// Package profile provides optional runtime profiling via
// [github.com/pkg/profile], enabled at build time with the "pprof" build
// tag. Without the tag every operation is a no-op with zero overhead.
package profile

// Config functions return all supported profiling parameters.
type Config func() (mode, path string)

// Start initializes the profiler and returns a handle for stopping it.
// Start returns a no-op handle when the mode is empty or the binary was
// built without the pprof tag. Both Start and Stop are always safely
// callable.
func (c Config) Start() interface{ Stop() } {
	mode, path := c()
	if mode == "" {
		return ignore{}
	}

	return start(mode, path)
}

// WithMode returns a functional option setting the profiler mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path := c()

		return func() (string, string) { return mode, path }
	}
}

// WithPath returns a functional option setting the output directory.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _ := c()

		return func() (string, string) { return mode, path }
	}
}

// Make creates a Config with the given options applied.
func Make(opts ...func(Config) Config) Config {
	var c Config = func() (string, string) { return "", "" }

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

type ignore struct{}

func (ignore) Stop() {}
