// Package constants implements the constant scanner and loader (§4.9
// steps 2-5, §4.11): it walks a parsed rule document's AST for referenced
// UPPER_SNAKE_CASE identifiers, merges them with the document's declared
// constants, requests values from an injected ConstantProvider, and
// resolves each against an inline default when the provider has nothing.
package constants

import (
	"context"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// StoredConstant is one entry returned by a ConstantProvider (§6: "async
// stream of {code, value_type, current_value, required, default?}").
type StoredConstant struct {
	Code         string
	ValueType    string
	CurrentValue value.Value
	Required     bool
	Default      value.Value
	HasDefault   bool
}

// Provider fetches constants by code from an external store. The
// contract never throws: a provider that cannot reach its backend should
// return an error only for transport-level failures, not for individual
// missing codes — codes it has nothing for are simply absent from the
// returned stream (§6).
type Provider interface {
	GetConstantsByCodes(ctx context.Context, codes []string) (<-chan StoredConstant, error)
}

// StaticProvider is an in-memory stand-in for the external constant
// store (§4.11): a fixed map consulted synchronously, wrapped in the same
// channel-based contract every other provider uses.
type StaticProvider struct {
	values map[string]StoredConstant
}

// NewStaticProvider builds a StaticProvider from a fixed set of constants.
func NewStaticProvider(values map[string]StoredConstant) *StaticProvider {
	clone := make(map[string]StoredConstant, len(values))
	for k, v := range values {
		clone[k] = v
	}
	return &StaticProvider{values: clone}
}

// GetConstantsByCodes returns a closed, pre-filled channel containing
// every requested code this provider holds. Unknown codes are simply
// omitted from the stream, matching the "empty stream is legal" contract.
func (p *StaticProvider) GetConstantsByCodes(ctx context.Context, codes []string) (<-chan StoredConstant, error) {
	out := make(chan StoredConstant, len(codes))
	defer close(out)
	for _, code := range codes {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		if sc, ok := p.values[code]; ok {
			out <- sc
		}
	}
	return out, nil
}
