package lang

// The registry is the sole authority for resolving free identifiers against
// lazily-instantiable namespaces. The evaluator consults it reactively, only
// after the structural scan of an expression finds a name with no binding.
// Resolution never inspects error text.
//
// Loading is memoized, and only successful loads are recorded; a failed load
// is reported as false and may be retried by a later expression.

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

// loaderFunc instantiates the symbols of one namespace.
type loaderFunc func() map[string]any

// Registry maps namespace names to loader functions and tracks which
// namespaces have been brought into scope.
//
// Compound names ("os.path") load into a key of their parent namespace, so
// an expression can reach them with ordinary member access. Loads are
// serialized so concurrent first-loads of the same namespace cannot race.
type Registry struct {
	mu      sync.Mutex
	loaders map[string]loaderFunc
	loaded  map[string]map[string]any
}

// NewRegistry creates a Registry populated with the builtin namespaces.
func NewRegistry() *Registry {
	return &Registry{
		loaders: builtinLoaders(),
		loaded:  map[string]map[string]any{},
	}
}

// Load attempts to bring the namespace called name into scope and reports
// whether it is available. Loading an already-loaded namespace is a no-op
// returning true. Unknown names return false; Load never panics.
func (r *Registry) Load(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(name)
}

func (r *Registry) load(name string) bool {
	if _, ok := r.loaded[name]; ok {
		return true
	}

	loader, ok := r.loaders[name]
	if !ok {
		return false
	}

	// A compound namespace requires its parent: loading "os.path" first
	// loads "os", then grafts the child under the parent's key.
	parent, child, compound := strings.Cut(name, ".")
	if compound {
		if !r.load(parent) {
			return false
		}

		ns := loader()
		r.loaded[parent][child] = ns
		r.loaded[name] = ns

		return true
	}

	r.loaded[name] = loader()

	return true
}

// Snapshot returns the top-level loaded namespaces keyed by name.
// The outer map is owned by the caller; namespace maps are shared and
// must be treated as read-only.
func (r *Registry) Snapshot() map[string]map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(map[string]map[string]any, len(r.loaded))

	for name, ns := range r.loaded {
		if !strings.Contains(name, ".") {
			snap[name] = ns
		}
	}

	return snap
}

// Names returns every loadable namespace name, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Sorted(maps.Keys(r.loaders))
}

// maxSuggestions bounds the "did you mean" candidates attached to an
// unresolved-name error.
const maxSuggestions = 3

// suggest ranks loadable namespaces and visible environment keys by fuzzy
// similarity to name.
func (r *Registry) suggest(name string, env map[string]any) []string {
	pool := r.Names()
	for key := range env {
		pool = append(pool, key)
	}

	slices.Sort(pool)
	pool = slices.Compact(pool)

	matches := fuzzy.Find(name, pool)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	found := make([]string, len(matches))
	for i, m := range matches {
		found[i] = m.Str
	}

	return found
}
