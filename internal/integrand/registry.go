package integrand

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Named is an Integrand resolved from the function library, carrying the
// key used on the command line and the label shown to users.
type Named struct {
	// Key is the command-line identifier (e.g. "square").
	Key string
	// Label is the mathematical notation shown in output (e.g. "x^2").
	Label string
	Integrand
}

// Registry maps keys and labels to named integrands.
type Registry struct {
	byKey   map[string]Named
	aliases map[string]string
}

// NewRegistry returns a registry holding the given functions.
func NewRegistry(functions ...Named) *Registry {
	r := &Registry{
		byKey:   make(map[string]Named, len(functions)),
		aliases: make(map[string]string, len(functions)),
	}
	for _, fn := range functions {
		r.Register(fn)
	}
	return r
}

// Register adds fn, replacing any function with the same key. Its label is
// accepted as an alias on lookup.
func (r *Registry) Register(fn Named) {
	key := strings.ToLower(fn.Key)
	r.byKey[key] = fn
	r.aliases[normalize(fn.Label)] = key
}

// Get resolves a key or a label (case and whitespace insensitive).
func (r *Registry) Get(name string) (Named, error) {
	k := strings.ToLower(strings.TrimSpace(name))
	if fn, ok := r.byKey[k]; ok {
		return fn, nil
	}
	if key, ok := r.aliases[normalize(name)]; ok {
		return r.byKey[key], nil
	}
	return Named{}, fmt.Errorf("unknown function %q (available: %s)", name, strings.Join(r.List(), ", "))
}

// List returns the registered keys in sorted order.
func (r *Registry) List() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns the registered functions sorted by key.
func (r *Registry) All() []Named {
	keys := r.List()
	out := make([]Named, len(keys))
	for i, k := range keys {
		out[i] = r.byKey[k]
	}
	return out
}

func normalize(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), ""))
}

// Library returns the built-in function set.
func Library() []Named {
	return []Named{
		{Key: "sin", Label: "sin(x)", Integrand: Func(math.Sin)},
		{Key: "cos", Label: "cos(x)", Integrand: Func(math.Cos)},
		{Key: "square", Label: "x^2", Integrand: Func(func(x float64) float64 { return x * x })},
		{Key: "gauss", Label: "e^(-x^2)", Integrand: Func(func(x float64) float64 { return math.Exp(-x * x) })},
		{Key: "log1p", Label: "log(x + 1)", Integrand: CheckedFunc(func(x float64) (float64, error) {
			if x <= -1 {
				return 0, ErrDomain
			}
			return math.Log1p(x), nil
		})},
		{Key: "sqrt", Label: "sqrt(x)", Integrand: CheckedFunc(func(x float64) (float64, error) {
			if x < 0 {
				return 0, ErrDomain
			}
			return math.Sqrt(x), nil
		})},
	}
}

// DefaultRegistry returns a registry populated with Library.
func DefaultRegistry() *Registry {
	return NewRegistry(Library()...)
}
