package evaluator

import (
	"strings"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/builtins"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// EvalCondition evaluates c to a bool. and/or short-circuit (§4.7); the
// keyword validator operators dispatch to builtins.EvaluatePredicate so a
// condition's `is_email` and the `is_valid_*` builtin family agree.
func (ev *Evaluator) EvalCondition(c ast.Condition) bool {
	switch n := c.(type) {
	case *ast.Comparison:
		return ev.evalComparison(n)
	case *ast.Between:
		v := ev.EvalExpr(n.Value)
		lo := ev.EvalExpr(n.Low)
		hi := ev.EvalExpr(n.High)
		return value.Between(v, lo, hi)
	case *ast.KeywordPredicate:
		return ev.evalKeywordPredicate(n)
	case *ast.InList:
		return ev.evalInList(n)
	case *ast.Logical:
		return ev.evalLogical(n)
	case *ast.Not:
		return !ev.EvalCondition(n.Operand)
	case *ast.ExpressionCondition:
		return ev.EvalExpr(n.Expr).Truthy()
	default:
		ev.warn("unsupported condition node")
		return false
	}
}

func (ev *Evaluator) evalComparison(n *ast.Comparison) bool {
	left := ev.EvalExpr(n.Left)
	right := ev.EvalExpr(n.Right)
	switch n.Op {
	case ast.OpEq:
		return left.Equal(right)
	case ast.OpNe:
		return !left.Equal(right)
	case ast.OpLt:
		return value.Compare(left, right) < 0
	case ast.OpLe:
		return value.Compare(left, right) <= 0
	case ast.OpGt:
		return value.Compare(left, right) > 0
	case ast.OpGe:
		return value.Compare(left, right) >= 0
	case ast.OpContains:
		return strings.Contains(left.String(), right.String())
	case ast.OpStartsWith:
		return strings.HasPrefix(left.String(), right.String())
	case ast.OpEndsWith:
		return strings.HasSuffix(left.String(), right.String())
	case ast.OpMatches:
		return matchesPattern(left.String(), right.String())
	default:
		ev.warn("unknown comparison operator")
		return false
	}
}

func (ev *Evaluator) evalKeywordPredicate(n *ast.KeywordPredicate) bool {
	operand := ev.EvalExpr(n.Operand)
	var operand2 value.Value
	if n.Operand2 != nil {
		operand2 = ev.EvalExpr(n.Operand2)
	}
	result, recognized := builtins.EvaluatePredicate(n.Name, operand, operand2)
	if !recognized {
		ev.warn("unknown keyword predicate: " + n.Name)
		return false
	}
	return result
}

func (ev *Evaluator) evalInList(n *ast.InList) bool {
	v := ev.EvalExpr(n.Value)
	found := false
	for _, elExpr := range n.List {
		if v.Equal(ev.EvalExpr(elExpr)) {
			found = true
			break
		}
	}
	if n.Negate {
		return !found
	}
	return found
}

func (ev *Evaluator) evalLogical(n *ast.Logical) bool {
	switch n.Op {
	case ast.LogicalAnd:
		for _, operand := range n.Operands {
			if !ev.EvalCondition(operand) {
				return false
			}
		}
		return true
	case ast.LogicalOr:
		for _, operand := range n.Operands {
			if ev.EvalCondition(operand) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
