package lang

// Builtin namespaces. Each loader instantiates one namespace as a plain
// map[string]any of function and constant symbols; the registry grafts
// compound namespaces ("os.path") under their parent's key.
//
// Loaders run at most once per process. They must not fail: a namespace
// either exists in this table or it does not resolve.

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

func builtinLoaders() map[string]loaderFunc {
	return map[string]loaderFunc{
		"math":    mathNamespace,
		"strings": stringsNamespace,
		"json":    jsonNamespace,
		"re":      reNamespace,
		"base64":  base64Namespace,
		"hex":     hexNamespace,
		"rand":    randNamespace,
		"time":    timeNamespace,
		"os":      osNamespace,
		"os.path": osPathNamespace,
		"url":     urlNamespace,
	}
}

func mathNamespace() map[string]any {
	return map[string]any{
		"sqrt":  func(v any) (any, error) { return applyFloat(v, math.Sqrt) },
		"floor": func(v any) (any, error) { return applyFloat(v, math.Floor) },
		"ceil":  func(v any) (any, error) { return applyFloat(v, math.Ceil) },
		"round": func(v any) (any, error) { return applyFloat(v, math.Round) },
		"abs":   absNumber,
		"pow": func(a, b any) (any, error) {
			x, xok := asFloat(a)
			y, yok := asFloat(b)

			if !xok || !yok {
				return nil, Errorf("pow requires numbers, got %T and %T", a, b)
			}

			return math.Pow(x, y), nil
		},
		"min": func(v any) (any, error) { return seqExtreme(v, false) },
		"max": func(v any) (any, error) { return seqExtreme(v, true) },
		"pi":  math.Pi,
		"e":   math.E,
	}
}

// applyFloat lifts a float64 function over any numeric payload.
func applyFloat(v any, fn func(float64) float64) (any, error) {
	f, ok := asFloat(v)
	if !ok {
		s, sok := v.(string)
		if !sok {
			return nil, Errorf("expected a number, got %T", v)
		}

		conv, err := convFloat(s)
		if err != nil {
			return nil, err
		}

		f = conv.(float64)
	}

	return fn(f), nil
}

func stringsNamespace() map[string]any {
	return map[string]any{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"split":     func(s, sep string) []any { return toSeq(strings.Split(s, sep)) },
		"fields":    splitFields,
		"join":      seqJoin,
		"replace":   func(s, old, new string) string { return strings.ReplaceAll(s, old, new) },
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"repeat":    strings.Repeat,
	}
}

func jsonNamespace() map[string]any {
	return map[string]any{
		"loads": func(s string) (any, error) {
			var v any

			err := json.Unmarshal([]byte(s), &v)
			if err != nil {
				return nil, WrapError(err)
			}

			return v, nil
		},
		"dumps": func(v any) (any, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, WrapError(err)
			}

			return string(b), nil
		},
	}
}

func reNamespace() map[string]any {
	return map[string]any{
		"match": func(pattern, s string) (any, error) {
			return regexp.MatchString(pattern, s)
		},
		"find": func(pattern, s string) (any, error) {
			rx, err := regexp.Compile(pattern)
			if err != nil {
				return nil, WrapError(err)
			}

			return rx.FindString(s), nil
		},
		"findAll": func(pattern, s string) (any, error) {
			rx, err := regexp.Compile(pattern)
			if err != nil {
				return nil, WrapError(err)
			}

			return toSeq(rx.FindAllString(s, -1)), nil
		},
		"replace": func(pattern, s, repl string) (any, error) {
			rx, err := regexp.Compile(pattern)
			if err != nil {
				return nil, WrapError(err)
			}

			return rx.ReplaceAllString(s, repl), nil
		},
	}
}

func base64Namespace() map[string]any {
	return map[string]any{
		"encode": func(s string) string {
			return base64.StdEncoding.EncodeToString([]byte(s))
		},
		"decode": func(s string) (any, error) {
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, WrapError(err)
			}

			return string(b), nil
		},
	}
}

func hexNamespace() map[string]any {
	return map[string]any{
		"encode": func(s string) string { return hex.EncodeToString([]byte(s)) },
		"decode": func(s string) (any, error) {
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, WrapError(err)
			}

			return string(b), nil
		},
	}
}

func randNamespace() map[string]any {
	return map[string]any{
		"int":   func(n int) int64 { return rand.Int63n(int64(max(n, 1))) },
		"float": rand.Float64,
		"choice": func(v any) (any, error) {
			seq, ok := asSlice(v)
			if !ok || len(seq) == 0 {
				return nil, Errorf("choice requires a non-empty sequence, got %T", v)
			}

			return seq[rand.Intn(len(seq))], nil
		},
	}
}

func timeNamespace() map[string]any {
	return map[string]any{
		"now":  func() string { return time.Now().Format(time.RFC3339) },
		"unix": func() int64 { return time.Now().Unix() },
		"format": func(unix int64, layout string) string {
			return time.Unix(unix, 0).UTC().Format(layout)
		},
		"parse": func(layout, s string) (any, error) {
			t, err := time.Parse(layout, s)
			if err != nil {
				return nil, WrapError(err)
			}

			return t.Unix(), nil
		},
	}
}

func osNamespace() map[string]any {
	return map[string]any{
		"getenv": os.Getenv,
		"hostname": func() string {
			name, err := os.Hostname()
			if err != nil {
				return ""
			}

			return name
		},
		"args": func() []any { return toSeq(os.Args) },
	}
}

func osPathNamespace() map[string]any {
	return map[string]any{
		"base": filepath.Base,
		"dir":  filepath.Dir,
		"ext":  filepath.Ext,
		"join": func(elem ...string) string { return filepath.Join(elem...) },
		"abs": func(path string) string {
			p, err := filepath.Abs(path)
			if err != nil {
				return path
			}

			return p
		},
	}
}

func urlNamespace() map[string]any {
	return map[string]any{
		"encode": url.QueryEscape,
		"decode": func(s string) (any, error) {
			out, err := url.QueryUnescape(s)
			if err != nil {
				return nil, WrapError(err)
			}

			return out, nil
		},
		"parse": func(s string) (any, error) {
			u, err := url.Parse(s)
			if err != nil {
				return nil, WrapError(err)
			}

			return map[string]any{
				"scheme": u.Scheme,
				"host":   u.Host,
				"path":   u.Path,
				"query":  u.RawQuery,
			}, nil
		},
	}
}

// toSeq converts a string slice to the sequence payload kind.
func toSeq(ss []string) []any {
	seq := make([]any, len(ss))
	for i, s := range ss {
		seq[i] = s
	}

	return seq
}
