// Package ast defines the three sibling node families the parser builds:
// expressions, conditions, and actions, all sharing a source location.
package ast

import (
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/source"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// Node is implemented by every AST node.
type Node interface {
	Location() source.Location
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Condition is a condition node.
type Condition interface {
	Node
	conditionNode()
}

// Action is an action node.
type Action interface {
	Node
	actionNode()
}

// BinaryOp enumerates canonicalized binary operators (synonyms like
// at_least/greater_than_or_equal/>= all canonicalize to one of these —
// SPEC_FULL §9).
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpContains
	OpStartsWith
	OpEndsWith
	OpMatches
)

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryPos
)

// --- Expressions ---

type Literal struct {
	Pos source.Location
	Val value.Value
}

func (e *Literal) Location() source.Location { return e.Pos }
func (e *Literal) exprNode()                 {}

type Variable struct {
	Pos  source.Location
	Name string
}

func (e *Variable) Location() source.Location { return e.Pos }
func (e *Variable) exprNode()                 {}

type Binary struct {
	Pos   source.Location
	Op    BinaryOp
	OpSym string // human-readable operator spelling, for diagnostics
	Left  Expr
	Right Expr
}

func (e *Binary) Location() source.Location { return e.Pos }
func (e *Binary) exprNode()                 {}

type Unary struct {
	Pos     source.Location
	Op      UnaryOp
	Operand Expr
}

func (e *Unary) Location() source.Location { return e.Pos }
func (e *Unary) exprNode()                 {}

type ListLiteral struct {
	Pos      source.Location
	Elements []Expr
}

func (e *ListLiteral) Location() source.Location { return e.Pos }
func (e *ListLiteral) exprNode()                  {}

type Index struct {
	Pos   source.Location
	Expr  Expr
	Index Expr
}

func (e *Index) Location() source.Location { return e.Pos }
func (e *Index) exprNode()                 {}

// FunctionCall invokes a builtin by name (case-insensitive dispatch
// happens in the evaluator, §4.6).
type FunctionCall struct {
	Pos  source.Location
	Name string
	Args []Expr
}

func (e *FunctionCall) Location() source.Location { return e.Pos }
func (e *FunctionCall) exprNode()                  {}

// JsonPath delegates to the injected JSON-path provider (§4.6, §6).
type JsonPath struct {
	Pos    source.Location
	Source Expr
	Path   Expr
}

func (e *JsonPath) Location() source.Location { return e.Pos }
func (e *JsonPath) exprNode()                  {}

// RestCall delegates to the injected REST provider (§4.6, §6).
type RestCall struct {
	Pos     source.Location
	Method  string
	URL     Expr
	Body    Expr // nil if not supplied
	Headers Expr // nil if not supplied; must evaluate to an Object
	Timeout Expr // nil if not supplied; must evaluate to a Number (ms)
}

func (e *RestCall) Location() source.Location { return e.Pos }
func (e *RestCall) exprNode()                  {}

// --- Conditions ---

type Comparison struct {
	Pos   source.Location
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (c *Comparison) Location() source.Location { return c.Pos }
func (c *Comparison) conditionNode()             {}

// Between models `A between B and C` as a dedicated ternary comparison
// node (§4.3: "between A and B is parsed as a three-operand comparison").
type Between struct {
	Pos   source.Location
	Value Expr
	Low   Expr
	High  Expr
}

func (c *Between) Location() source.Location { return c.Pos }
func (c *Between) conditionNode()             {}

// KeywordPredicate models the single-operand validator keywords
// (is_credit_score, is_email, is_business_day, age_at_least, ...).
type KeywordPredicate struct {
	Pos      source.Location
	Name     string // canonical lowercase keyword, e.g. "is_credit_score"
	Operand  Expr
	Operand2 Expr // second operand for binary keyword forms (age_at_least(dob, years))
}

func (c *KeywordPredicate) Location() source.Location { return c.Pos }
func (c *KeywordPredicate) conditionNode()             {}

// InList models `expr in [a, b, c]` / `in_list` / `not_in`.
type InList struct {
	Pos    source.Location
	Value  Expr
	List   []Expr
	Negate bool
}

func (c *InList) Location() source.Location { return c.Pos }
func (c *InList) conditionNode()             {}

type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

type Logical struct {
	Pos      source.Location
	Op       LogicalOp
	Operands []Condition
}

func (c *Logical) Location() source.Location { return c.Pos }
func (c *Logical) conditionNode()             {}

type Not struct {
	Pos     source.Location
	Operand Condition
}

func (c *Not) Location() source.Location { return c.Pos }
func (c *Not) conditionNode()             {}

// ExpressionCondition wraps an expression, applying truthiness (§4.1) to
// get a boolean (the "mixed-context heuristic", §4.3).
type ExpressionCondition struct {
	Pos  source.Location
	Expr Expr
}

func (c *ExpressionCondition) Location() source.Location { return c.Pos }
func (c *ExpressionCondition) conditionNode()             {}

// --- Actions ---

type Set struct {
	Pos  source.Location
	Name string
	Expr Expr
}

func (a *Set) Location() source.Location { return a.Pos }
func (a *Set) actionNode()               {}

type CompoundOp int

const (
	CompoundAssign CompoundOp = iota
	CompoundAdd
	CompoundSub
	CompoundMul
	CompoundDiv
)

type Assignment struct {
	Pos  source.Location
	Name string
	Op   CompoundOp
	Expr Expr
}

func (a *Assignment) Location() source.Location { return a.Pos }
func (a *Assignment) actionNode()               {}

// ArithmeticOp enumerates the natural-language arithmetic forms (§3):
// "add X to Y", "subtract X from Y", "multiply Y by X", "divide Y by X".
type ArithmeticOp int

const (
	ArithAdd ArithmeticOp = iota
	ArithSubtract
	ArithMultiply
	ArithDivide
)

type Arithmetic struct {
	Pos  source.Location
	Op   ArithmeticOp
	Name string // the variable being mutated (Y)
	Expr Expr   // the operand (X)
}

func (a *Arithmetic) Location() source.Location { return a.Pos }
func (a *Arithmetic) actionNode()               {}

// Calculate is expression-only: its Expr must contain no FunctionCall,
// RestCall, or JsonPath node anywhere in its tree (enforced at parse time,
// §3, §4.8).
type Calculate struct {
	Pos  source.Location
	Name string
	Expr Expr
}

func (a *Calculate) Location() source.Location { return a.Pos }
func (a *Calculate) actionNode()               {}

// Run permits function/REST/JSON roots, unlike Calculate.
type Run struct {
	Pos  source.Location
	Name string
	Expr Expr
}

func (a *Run) Location() source.Location { return a.Pos }
func (a *Run) actionNode()               {}

type Call struct {
	Pos        source.Location
	Name       string
	Args       []Expr
	ResultName string // empty if the result is discarded
}

func (a *Call) Location() source.Location { return a.Pos }
func (a *Call) actionNode()               {}

type Conditional struct {
	Pos  source.Location
	Cond Condition
	Then []Action
	Else []Action
}

func (a *Conditional) Location() source.Location { return a.Pos }
func (a *Conditional) actionNode()               {}

type ForEach struct {
	Pos       source.Location
	ItemName  string
	IndexName string // empty if no index binding requested
	ListExpr  Expr
	Body      []Action
}

func (a *ForEach) Location() source.Location { return a.Pos }
func (a *ForEach) actionNode()               {}

type ListOp int

const (
	ListAppend ListOp = iota
	ListPrepend
	ListRemove
)

type ListMutation struct {
	Pos  source.Location
	Op   ListOp
	Name string
	Expr Expr
}

func (a *ListMutation) Location() source.Location { return a.Pos }
func (a *ListMutation) actionNode()               {}

type CircuitBreaker struct {
	Pos         source.Location
	MessageExpr Expr
}

func (a *CircuitBreaker) Location() source.Location { return a.Pos }
func (a *CircuitBreaker) actionNode()               {}

// ContainsCall reports whether expr's tree contains a FunctionCall,
// RestCall, or JsonPath node — used to enforce Calculate's "arithmetic/
// variable/literal only" restriction (§3, §4.8).
func ContainsCall(e Expr) bool {
	switch n := e.(type) {
	case *FunctionCall, *RestCall, *JsonPath:
		return true
	case *Binary:
		return ContainsCall(n.Left) || ContainsCall(n.Right)
	case *Unary:
		return ContainsCall(n.Operand)
	case *Index:
		return ContainsCall(n.Expr) || ContainsCall(n.Index)
	case *ListLiteral:
		for _, el := range n.Elements {
			if ContainsCall(el) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
