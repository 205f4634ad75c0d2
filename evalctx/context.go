// Package evalctx implements the three-tier evaluation context (§4.5):
// inputs, constants and computed values, plus the circuit-breaker flag
// the action executor and orchestrator both watch.
package evalctx

import "github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"

// Source identifies which tier a name resolved from, for diagnostics
// (§4.5 source_of).
type Source string

const (
	SourceComputed Source = "computed"
	SourceInput    Source = "input"
	SourceConstant Source = "constant"
	SourceNotFound Source = "not_found"
)

// Context is a single evaluation's variable scope. Lookup priority is
// computed > input > constant (§4.5). A Context is single-threaded per
// evaluation; the engine is safe for concurrent evaluations provided each
// has its own Context (§4.5).
type Context struct {
	inputs    map[string]value.Value
	constants map[string]value.Value
	computed  map[string]value.Value

	circuitBreakerTriggered bool
	circuitBreakerMessage   string
}

// New builds a Context from caller-supplied inputs and resolved constants.
// Both maps are copied defensively; computed starts empty.
func New(inputs, constants map[string]value.Value) *Context {
	c := &Context{
		inputs:    make(map[string]value.Value, len(inputs)),
		constants: make(map[string]value.Value, len(constants)),
		computed:  make(map[string]value.Value),
	}
	for k, v := range inputs {
		c.inputs[k] = v
	}
	for k, v := range constants {
		c.constants[k] = v
	}
	return c
}

// Get resolves name in priority order computed > input > constant,
// returning value.Null if the name isn't bound anywhere (§4.5).
func (c *Context) Get(name string) value.Value {
	if v, ok := c.computed[name]; ok {
		return v
	}
	if v, ok := c.inputs[name]; ok {
		return v
	}
	if v, ok := c.constants[name]; ok {
		return v
	}
	return value.Null
}

// SetComputed writes a computed variable. Null/empty names are rejected
// (§4.5) and silently ignored — callers that need to surface this as a
// user-visible error should check name themselves before calling.
func (c *Context) SetComputed(name string, v value.Value) {
	if name == "" {
		return
	}
	c.computed[name] = v
}

// SourceOf reports which tier name currently resolves from (§4.5), for
// diagnostics.
func (c *Context) SourceOf(name string) Source {
	if _, ok := c.computed[name]; ok {
		return SourceComputed
	}
	if _, ok := c.inputs[name]; ok {
		return SourceInput
	}
	if _, ok := c.constants[name]; ok {
		return SourceConstant
	}
	return SourceNotFound
}

// TriggerCircuitBreaker sets the circuit-breaker flag and message. The
// action executor checks CircuitBreakerTriggered between actions and the
// orchestrator checks it between sub-rules (§4.8, §4.9).
func (c *Context) TriggerCircuitBreaker(message string) {
	c.circuitBreakerTriggered = true
	c.circuitBreakerMessage = message
}

// CircuitBreakerTriggered reports whether a prior action tripped the
// breaker.
func (c *Context) CircuitBreakerTriggered() bool {
	return c.circuitBreakerTriggered
}

// CircuitBreakerMessage returns the message passed to the triggering
// call, or "" if the breaker has not tripped.
func (c *Context) CircuitBreakerMessage() string {
	return c.circuitBreakerMessage
}

// Computed returns a defensive copy of the computed tier. The
// orchestrator's output projection (§4.9 step 9) reads through Get instead.
func (c *Context) Computed() map[string]value.Value {
	cp := make(map[string]value.Value, len(c.computed))
	for k, v := range c.computed {
		cp[k] = v
	}
	return cp
}

// Copy deep-clones the context, including the circuit-breaker state. Used
// for speculative evaluation and forEach isolation (§4.5: "part of the
// contract for forEach isolation", currently unused by ForEach itself
// since bindings are deliberately non-isolated accumulators, but kept
// available for components that do need a detached snapshot).
func (c *Context) Copy() *Context {
	cp := &Context{
		inputs:                  make(map[string]value.Value, len(c.inputs)),
		constants:               make(map[string]value.Value, len(c.constants)),
		computed:                make(map[string]value.Value, len(c.computed)),
		circuitBreakerTriggered: c.circuitBreakerTriggered,
		circuitBreakerMessage:   c.circuitBreakerMessage,
	}
	for k, v := range c.inputs {
		cp.inputs[k] = v.Clone()
	}
	for k, v := range c.constants {
		cp.constants[k] = v.Clone()
	}
	for k, v := range c.computed {
		cp.computed[k] = v.Clone()
	}
	return cp
}
