package evaluator

import (
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// ExecuteActions runs actions in declaration order (§4.8). Each action is
// best-effort: a runtime failure in one action is logged and the rest of
// the list continues, except circuit_breaker which stops the list (and,
// via the shared context, every subsequent list in the orchestrator).
func (ev *Evaluator) ExecuteActions(actions []ast.Action) {
	for _, action := range actions {
		if ev.ctx.CircuitBreakerTriggered() {
			return
		}
		ev.executeAction(action)
	}
}

func (ev *Evaluator) executeAction(action ast.Action) {
	switch n := action.(type) {
	case *ast.Set:
		ev.ctx.SetComputed(n.Name, ev.EvalExpr(n.Expr))
	case *ast.Assignment:
		ev.executeAssignment(n)
	case *ast.Arithmetic:
		ev.executeArithmetic(n)
	case *ast.Calculate:
		// ast.ContainsCall is enforced at parse time (§3, §4.8); evaluation
		// here is identical to Run's.
		ev.ctx.SetComputed(n.Name, ev.EvalExpr(n.Expr))
	case *ast.Run:
		ev.ctx.SetComputed(n.Name, ev.EvalExpr(n.Expr))
	case *ast.Call:
		ev.executeCall(n)
	case *ast.Conditional:
		if ev.EvalCondition(n.Cond) {
			ev.ExecuteActions(n.Then)
		} else {
			ev.ExecuteActions(n.Else)
		}
	case *ast.ForEach:
		ev.executeForEach(n)
	case *ast.ListMutation:
		ev.executeListMutation(n)
	case *ast.CircuitBreaker:
		message := ev.EvalExpr(n.MessageExpr).String()
		ev.ctx.TriggerCircuitBreaker(message)
	default:
		ev.warn("unsupported action node")
	}
}

// executeAssignment implements Set/Assignment(+=/-=/*=//=): numeric when
// both sides are numeric, string concatenation for `+=` otherwise (§4.8).
func (ev *Evaluator) executeAssignment(n *ast.Assignment) {
	rhs := ev.EvalExpr(n.Expr)
	if n.Op == ast.CompoundAssign {
		ev.ctx.SetComputed(n.Name, rhs)
		return
	}
	current := ev.ctx.Get(n.Name)
	switch n.Op {
	case ast.CompoundAdd:
		ev.ctx.SetComputed(n.Name, value.Add(current, rhs))
	case ast.CompoundSub:
		ev.ctx.SetComputed(n.Name, value.Sub(current, rhs))
	case ast.CompoundMul:
		ev.ctx.SetComputed(n.Name, value.Mul(current, rhs))
	case ast.CompoundDiv:
		result := value.Quo(current, rhs)
		if result.DivByZero {
			ev.warn("division by zero assigning to " + n.Name + ": skipped")
			return
		}
		ev.ctx.SetComputed(n.Name, result.Value)
	}
}

// executeArithmetic implements the natural-language arithmetic actions
// (§3, §4.8): "add X to Y" etc. Non-numeric operands produce a warning
// and skip rather than corrupting the variable.
func (ev *Evaluator) executeArithmetic(n *ast.Arithmetic) {
	current := ev.ctx.Get(n.Name)
	operand := ev.EvalExpr(n.Expr)
	if !isNumericValue(current) && !current.IsNull() {
		ev.warn("arithmetic action on non-numeric variable " + n.Name + ": skipped")
		return
	}
	if !isNumericValue(operand) {
		ev.warn("arithmetic action with non-numeric operand for " + n.Name + ": skipped")
		return
	}
	switch n.Op {
	case ast.ArithAdd:
		ev.ctx.SetComputed(n.Name, value.Add(current, operand))
	case ast.ArithSubtract:
		ev.ctx.SetComputed(n.Name, value.Sub(current, operand))
	case ast.ArithMultiply:
		ev.ctx.SetComputed(n.Name, value.Mul(current, operand))
	case ast.ArithDivide:
		result := value.Quo(current, operand)
		if result.DivByZero {
			ev.warn("division by zero in arithmetic action on " + n.Name + ": skipped")
			return
		}
		ev.ctx.SetComputed(n.Name, result.Value)
	}
}

func isNumericValue(v value.Value) bool {
	return v.Type() == value.KindNumber
}

// executeCall evaluates a standalone function-call action, assigning the
// result only if ResultName is set (§4.8).
func (ev *Evaluator) executeCall(n *ast.Call) {
	fn, ok := ev.registry.Get(n.Name)
	if !ok {
		ev.warn("unknown function in call action: " + n.Name)
		return
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = ev.EvalExpr(a)
	}
	result := fn(ev.env, args)
	if n.ResultName != "" {
		ev.ctx.SetComputed(n.ResultName, result)
	}
}

// executeForEach evaluates list_expr, binds item (and idx, when given) as
// computed variables for each element, and runs the body. Bindings remain
// visible after the loop — they are not popped (§4.8, accumulator
// pattern). An empty list performs zero iterations; a non-list value is
// coerced to a single-element list.
func (ev *Evaluator) executeForEach(n *ast.ForEach) {
	listVal := ev.EvalExpr(n.ListExpr)
	var items []value.Value
	if listVal.Type() == value.KindList {
		items = listVal.AsList()
	} else if !listVal.IsNull() {
		items = []value.Value{listVal}
	}

	for i, item := range items {
		if ev.ctx.CircuitBreakerTriggered() {
			return
		}
		ev.ctx.SetComputed(n.ItemName, item)
		if n.IndexName != "" {
			ev.ctx.SetComputed(n.IndexName, value.Int(int64(i)))
		}
		ev.ExecuteActions(n.Body)
	}
}

// executeListMutation loads the current value of name (absent -> empty
// list; non-list -> wrap as a single-element list), applies op, and
// stores the result (§4.8).
func (ev *Evaluator) executeListMutation(n *ast.ListMutation) {
	current := ev.ctx.Get(n.Name)
	var items []value.Value
	switch {
	case current.IsNull():
		items = nil
	case current.Type() == value.KindList:
		items = current.AsList()
	default:
		items = []value.Value{current}
	}

	operand := ev.EvalExpr(n.Expr)
	switch n.Op {
	case ast.ListAppend:
		items = append(items, operand)
	case ast.ListPrepend:
		items = append([]value.Value{operand}, items...)
	case ast.ListRemove:
		items = removeFirstEqual(items, operand)
	}
	ev.ctx.SetComputed(n.Name, value.List(items))
}

func removeFirstEqual(items []value.Value, target value.Value) []value.Value {
	for i, it := range items {
		if it.Equal(target) {
			out := make([]value.Value, 0, len(items)-1)
			out = append(out, items[:i]...)
			out = append(out, items[i+1:]...)
			return out
		}
	}
	return items
}
