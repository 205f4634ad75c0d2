package constants

import (
	"regexp"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
)

var upperSnakeCasePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ScanCondition walks a condition tree and collects every Variable name
// that matches the constant naming convention (§4.9 step 2).
func ScanCondition(c ast.Condition, out map[string]bool) {
	if c == nil {
		return
	}
	switch n := c.(type) {
	case *ast.Comparison:
		scanExpr(n.Left, out)
		scanExpr(n.Right, out)
	case *ast.Between:
		scanExpr(n.Value, out)
		scanExpr(n.Low, out)
		scanExpr(n.High, out)
	case *ast.KeywordPredicate:
		scanExpr(n.Operand, out)
		scanExpr(n.Operand2, out)
	case *ast.InList:
		scanExpr(n.Value, out)
		for _, el := range n.List {
			scanExpr(el, out)
		}
	case *ast.Logical:
		for _, operand := range n.Operands {
			ScanCondition(operand, out)
		}
	case *ast.Not:
		ScanCondition(n.Operand, out)
	case *ast.ExpressionCondition:
		scanExpr(n.Expr, out)
	}
}

// ScanActions walks an action list and collects every Variable name that
// matches the constant naming convention, recursing into conditional
// branches and forEach bodies.
func ScanActions(actions []ast.Action, out map[string]bool) {
	for _, action := range actions {
		switch n := action.(type) {
		case *ast.Set:
			scanExpr(n.Expr, out)
		case *ast.Assignment:
			scanExpr(n.Expr, out)
		case *ast.Arithmetic:
			scanExpr(n.Expr, out)
		case *ast.Calculate:
			scanExpr(n.Expr, out)
		case *ast.Run:
			scanExpr(n.Expr, out)
		case *ast.Call:
			for _, arg := range n.Args {
				scanExpr(arg, out)
			}
		case *ast.Conditional:
			ScanCondition(n.Cond, out)
			ScanActions(n.Then, out)
			ScanActions(n.Else, out)
		case *ast.ForEach:
			scanExpr(n.ListExpr, out)
			ScanActions(n.Body, out)
		case *ast.ListMutation:
			scanExpr(n.Expr, out)
		case *ast.CircuitBreaker:
			scanExpr(n.MessageExpr, out)
		}
	}
}

func scanExpr(e ast.Expr, out map[string]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Variable:
		if upperSnakeCasePattern.MatchString(n.Name) {
			out[n.Name] = true
		}
	case *ast.Binary:
		scanExpr(n.Left, out)
		scanExpr(n.Right, out)
	case *ast.Unary:
		scanExpr(n.Operand, out)
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			scanExpr(el, out)
		}
	case *ast.Index:
		scanExpr(n.Expr, out)
		scanExpr(n.Index, out)
	case *ast.FunctionCall:
		for _, arg := range n.Args {
			scanExpr(arg, out)
		}
	case *ast.JsonPath:
		scanExpr(n.Source, out)
		scanExpr(n.Path, out)
	case *ast.RestCall:
		scanExpr(n.URL, out)
		scanExpr(n.Body, out)
		scanExpr(n.Headers, out)
		scanExpr(n.Timeout, out)
	}
}
