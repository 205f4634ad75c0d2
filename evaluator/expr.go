// Package evaluator implements the expression (§4.6), condition (§4.7)
// and action (§4.8) visitors that walk the AST against an evaluation
// context.
package evaluator

import (
	"strings"
	"time"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/builtins"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/evalctx"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// Evaluator walks expression, condition and action ASTs against a single
// evalctx.Context, dispatching function calls through a builtins.Registry
// and REST/JSON-path nodes through the injected providers (§4.6).
type Evaluator struct {
	ctx                *evalctx.Context
	registry           *builtins.Registry
	env                *builtins.Env
	rest               builtins.RestProvider
	jsonPath           builtins.JSONPathProvider
	defaultRestTimeout time.Duration
}

// New builds an Evaluator bound to a single evaluation context. restTimeout
// is the default per-call REST timeout (§5) applied when a rest_* call
// carries no inline timeout_ms argument; zero falls back to
// builtins.DefaultRestTimeout.
func New(ctx *evalctx.Context, registry *builtins.Registry, env *builtins.Env, rest builtins.RestProvider, jsonPath builtins.JSONPathProvider, restTimeout time.Duration) *Evaluator {
	if restTimeout <= 0 {
		restTimeout = builtins.DefaultRestTimeout
	}
	return &Evaluator{ctx: ctx, registry: registry, env: env, rest: rest, jsonPath: jsonPath, defaultRestTimeout: restTimeout}
}

// EvalExpr evaluates e to a Value. The expression evaluator never returns
// a Go error — malformed input degrades to value.Null with a logged
// warning, per §4.6's forgiving-evaluation design.
func (ev *Evaluator) EvalExpr(e ast.Expr) value.Value {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Val
	case *ast.Variable:
		return ev.ctx.Get(strings.TrimSpace(n.Name))
	case *ast.Unary:
		return ev.evalUnary(n)
	case *ast.Binary:
		return ev.evalBinary(n)
	case *ast.ListLiteral:
		items := make([]value.Value, len(n.Elements))
		for i, el := range n.Elements {
			items[i] = ev.EvalExpr(el)
		}
		return value.List(items)
	case *ast.Index:
		return ev.evalIndex(n)
	case *ast.FunctionCall:
		return ev.evalFunctionCall(n)
	case *ast.JsonPath:
		return ev.evalJsonPath(n)
	case *ast.RestCall:
		return ev.evalRestCall(n)
	default:
		ev.warn("unsupported expression node")
		return value.Null
	}
}

func (ev *Evaluator) evalUnary(n *ast.Unary) value.Value {
	operand := value.AsDecimal(ev.EvalExpr(n.Operand))
	if n.Op == ast.UnaryNeg {
		return value.Number(operand.Neg())
	}
	return value.Number(operand)
}

func (ev *Evaluator) evalBinary(n *ast.Binary) value.Value {
	left := ev.EvalExpr(n.Left)
	right := ev.EvalExpr(n.Right)

	switch n.Op {
	case ast.OpAdd:
		return value.Add(left, right)
	case ast.OpSub:
		return value.Sub(left, right)
	case ast.OpMul:
		return value.Mul(left, right)
	case ast.OpDiv:
		result := value.Quo(left, right)
		if result.DivByZero {
			ev.warn("division by zero in expression: " + exprText(n))
			return value.Text(exprText(n.Right))
		}
		return result.Value
	case ast.OpMod:
		result := value.Mod(left, right)
		if result.DivByZero {
			ev.warn("modulo by zero in expression: " + exprText(n))
			return value.Text(exprText(n.Right))
		}
		return result.Value
	case ast.OpPow:
		return value.Pow(left, right)
	case ast.OpEq:
		return value.Bool(left.Equal(right))
	case ast.OpNe:
		return value.Bool(!left.Equal(right))
	case ast.OpLt:
		return value.Bool(value.Compare(left, right) < 0)
	case ast.OpLe:
		return value.Bool(value.Compare(left, right) <= 0)
	case ast.OpGt:
		return value.Bool(value.Compare(left, right) > 0)
	case ast.OpGe:
		return value.Bool(value.Compare(left, right) >= 0)
	case ast.OpContains:
		return value.Bool(strings.Contains(left.String(), right.String()))
	case ast.OpStartsWith:
		return value.Bool(strings.HasPrefix(left.String(), right.String()))
	case ast.OpEndsWith:
		return value.Bool(strings.HasSuffix(left.String(), right.String()))
	case ast.OpMatches:
		return value.Bool(matchesPattern(left.String(), right.String()))
	default:
		ev.warn("unknown binary operator")
		return value.Null
	}
}

func (ev *Evaluator) evalIndex(n *ast.Index) value.Value {
	base := ev.EvalExpr(n.Expr)
	idx := ev.EvalExpr(n.Index)
	if base.Type() != value.KindList {
		ev.warn("index target is not a list")
		return value.Null
	}
	items := base.AsList()
	i := int(value.AsDecimal(idx).Int64())
	if i < 0 || i >= len(items) {
		return value.Null
	}
	return items[i]
}

// evalFunctionCall dispatches case-insensitively to the builtin registry;
// an unknown function returns Null with a warning and the original
// expression text preserved for debugging (§4.6).
func (ev *Evaluator) evalFunctionCall(n *ast.FunctionCall) value.Value {
	fn, ok := ev.registry.Get(n.Name)
	if !ok {
		ev.warn("unknown function: " + exprText(n))
		return value.Null
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = ev.EvalExpr(a)
	}
	return fn(ev.env, args)
}

func (ev *Evaluator) evalJsonPath(n *ast.JsonPath) value.Value {
	source := ev.EvalExpr(n.Source)
	path := ev.EvalExpr(n.Path).String()
	if ev.jsonPath == nil {
		return value.Null
	}
	return ev.jsonPath.Get(source, path)
}

// evalRestCall delegates to the injected REST provider; it always returns
// a result map and never produces a Go error — network failures surface
// as {success:false, error:true, message:...} (§4.6).
func (ev *Evaluator) evalRestCall(n *ast.RestCall) value.Value {
	url := ev.EvalExpr(n.URL).String()
	var body, headers value.Value
	timeout := ev.defaultRestTimeout
	if n.Body != nil {
		body = ev.EvalExpr(n.Body)
	}
	if n.Headers != nil {
		headers = ev.EvalExpr(n.Headers)
	}
	if n.Timeout != nil {
		timeout = time.Duration(value.AsDecimal(ev.EvalExpr(n.Timeout)).Int64()) * time.Millisecond
	}
	if ev.rest == nil {
		return value.Null
	}
	ctx := callContext(ev.env)
	return ev.rest.Call(ctx, n.Method, url, body, headers, timeout)
}

func (ev *Evaluator) warn(message string) {
	if ev.env != nil && ev.env.Logger != nil {
		ev.env.Logger.Warn(message)
	}
}

// matchesPattern implements the `matches` string predicate using Go's
// regexp package; an invalid pattern never panics, it just fails to match
// (consistent with the engine's forgiving-evaluation design).
func matchesPattern(text, pattern string) bool {
	re, err := compileRegexCached(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
