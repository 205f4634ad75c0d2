// Package builtins implements the §4.10 built-in function library: a
// case-insensitive name registry plus the Math/String/Date/Financial/
// Validation/List/Logging/JSON/REST function families.
package builtins

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// Env carries the per-evaluation dependencies a builtin may need: a
// cancellable context for REST calls, a logger for the Logging family,
// and the injected JSON-path/REST providers (§4.6, §4.11).
type Env struct {
	Context     context.Context
	Logger      *logrus.Entry
	JSONPath    JSONPathProvider
	Rest        RestProvider
	OperationID string
}

// Func is a builtin's implementation. Builtins never return a Go error —
// per §4.6/§4.10 they are forgiving: malformed input yields value.Null
// (after logging a warning), matching the expression evaluator's
// never-throws design.
type Func func(env *Env, args []value.Value) value.Value

// Registry is a case-insensitive name -> Func table.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds fn under name, case-insensitively.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[strings.ToLower(name)] = fn
}

// Get looks up a builtin by name, case-insensitively.
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.funcs[strings.ToLower(name)]
	return fn, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[strings.ToLower(name)]
	return ok
}

// NewDefaultRegistry builds the registry populated with every family from
// §4.10, wired to the given providers.
func NewDefaultRegistry(rest RestProvider, jsonPath JSONPathProvider) *Registry {
	r := NewRegistry()
	registerMathBuiltins(r)
	registerStringBuiltins(r)
	registerDateBuiltins(r)
	registerFinancialBuiltins(r)
	registerValidationBuiltins(r)
	registerListBuiltins(r)
	registerLoggingBuiltins(r)
	registerJSONBuiltins(r, jsonPath)
	registerRestBuiltins(r, rest)
	return r
}
