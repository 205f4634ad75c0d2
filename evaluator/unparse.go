package evaluator

import (
	"strings"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
)

// exprText reconstructs a dialect-like rendering of an expression tree,
// used where the spec calls for "the original expression text preserved
// for debugging" (§4.1 division-by-zero, §4.6 unknown-function fallback)
// even though the parser doesn't retain the original source span per node.
func exprText(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Val.String()
	case *ast.Variable:
		return n.Name
	case *ast.Binary:
		return exprText(n.Left) + " " + n.OpSym + " " + exprText(n.Right)
	case *ast.Unary:
		if n.Op == ast.UnaryNeg {
			return "-" + exprText(n.Operand)
		}
		return "+" + exprText(n.Operand)
	case *ast.ListLiteral:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = exprText(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.Index:
		return exprText(n.Expr) + "[" + exprText(n.Index) + "]"
	case *ast.FunctionCall:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = exprText(a)
		}
		return n.Name + "(" + strings.Join(parts, ", ") + ")"
	case *ast.JsonPath:
		return "json_path(" + exprText(n.Source) + ", " + exprText(n.Path) + ")"
	case *ast.RestCall:
		return strings.ToLower("rest_"+n.Method) + "(" + exprText(n.URL) + ")"
	default:
		return "<expr>"
	}
}
