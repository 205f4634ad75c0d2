package builtins

import (
	"context"
	"strings"
	"time"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// registerRestBuiltins wires the REST family (§4.10). The parser lowers
// rest_get/post/put/patch/delete call syntax directly to ast.RestCall
// nodes (§4.3), so the evaluator normally never reaches these through the
// registry — they're registered anyway so the family is complete for any
// caller that dispatches by name directly (e.g. a future `call` action
// referencing a REST builtin by string).
func registerRestBuiltins(r *Registry, provider RestProvider) {
	if provider == nil {
		provider = NewNetHTTPRestProvider()
	}
	r.Register("rest_get", restMethodBuiltin(provider, "GET"))
	r.Register("rest_post", restMethodBuiltin(provider, "POST"))
	r.Register("rest_put", restMethodBuiltin(provider, "PUT"))
	r.Register("rest_patch", restMethodBuiltin(provider, "PATCH"))
	r.Register("rest_delete", restMethodBuiltin(provider, "DELETE"))
	r.Register("rest_call", restCallBuiltin(provider))
}

func restMethodBuiltin(provider RestProvider, method string) Func {
	return func(env *Env, args []value.Value) value.Value {
		if len(args) < 1 {
			warnArgCount(env, "rest_"+strings.ToLower(method), 1, len(args))
			return restFailure("missing url argument")
		}
		url := args[0].String()
		var body, headers value.Value
		timeout := DefaultRestTimeout
		if len(args) > 1 {
			body = args[1]
		}
		if len(args) > 2 {
			headers = args[2]
		}
		if len(args) > 3 {
			timeout = time.Duration(value.AsDecimal(args[3]).Int64()) * time.Millisecond
		}
		return provider.Call(callerContext(env), method, url, body, headers, timeout)
	}
}

// restCallBuiltin implements the generic rest_call(method, url, ...) form
// (§4.10).
func restCallBuiltin(provider RestProvider) Func {
	return func(env *Env, args []value.Value) value.Value {
		if len(args) < 2 {
			warnArgCount(env, "rest_call", 2, len(args))
			return restFailure("missing method or url argument")
		}
		method := strings.ToUpper(args[0].String())
		url := args[1].String()
		var body, headers value.Value
		timeout := DefaultRestTimeout
		if len(args) > 2 {
			body = args[2]
		}
		if len(args) > 3 {
			headers = args[3]
		}
		if len(args) > 4 {
			timeout = time.Duration(value.AsDecimal(args[4]).Int64()) * time.Millisecond
		}
		return provider.Call(callerContext(env), method, url, body, headers, timeout)
	}
}

func callerContext(env *Env) context.Context {
	if env != nil && env.Context != nil {
		return env.Context
	}
	return context.Background()
}
