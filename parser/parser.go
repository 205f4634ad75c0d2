// Package parser implements the recursive-descent expression and condition
// parser (§4.3) that turns a tokenized dialect string into the shared AST
// defined by package ast. Action lines are parsed by package ruledoc, which
// calls into this package for their embedded expressions and conditions.
package parser

import (
	"strings"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/lexer"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/source"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// Parser consumes a token stream and builds expression/condition ASTs.
type Parser struct {
	lex     *lexer.Lexer
	current lexer.Token
	peek    lexer.Token
}

// New creates a Parser over a raw dialect string (a single `when`/`then`
// line's expression portion).
func New(input string) *Parser {
	p := &Parser{lex: lexer.New(input)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.current = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) expect(k lexer.Kind, category Category, msg string) error {
	if p.current.Kind != k {
		return newError(category, p.current.Location, "%s: got %q", msg, p.current.Text)
	}
	p.next()
	return nil
}

// ParseExpression parses a pure expression (calculate/run/function-arg
// context): additive-and-below, no and/or/not/comparison glue.
func ParseExpression(input string) (ast.Expr, error) {
	p := New(input)
	e, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.current.Kind != lexer.EOF {
		return nil, newError(CategoryUnexpectedToken, p.current.Location,
			"unexpected trailing token %q", p.current.Text)
	}
	return e, nil
}

// ParseCondition parses a full condition (a `when` line): the complete
// or/and/not/comparison grammar from §4.3.
func ParseCondition(input string) (ast.Condition, error) {
	p := New(input)
	c, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current.Kind != lexer.EOF {
		return nil, newError(CategoryUnexpectedToken, p.current.Location,
			"unexpected trailing token %q", p.current.Text)
	}
	return c, nil
}

// --- Condition grammar: or > and > not > comparison ---

func (p *Parser) parseOr() (ast.Condition, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	operands := []ast.Condition{left}
	pos := left.Location()
	for p.current.Kind == lexer.OR {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return &ast.Logical{Pos: pos, Op: ast.LogicalOr, Operands: operands}, nil
}

func (p *Parser) parseAnd() (ast.Condition, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	operands := []ast.Condition{left}
	pos := left.Location()
	for p.current.Kind == lexer.AND {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return &ast.Logical{Pos: pos, Op: ast.LogicalAnd, Operands: operands}, nil
}

func (p *Parser) parseNot() (ast.Condition, error) {
	if p.current.Kind == lexer.NOT {
		pos := p.current.Location
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Pos: pos, Operand: inner}, nil
	}
	return p.parsePrimaryCondition()
}

var comparisonOps = map[lexer.Kind]ast.BinaryOp{
	lexer.EQ: ast.OpEq, lexer.EQUALS: ast.OpEq,
	lexer.NE: ast.OpNe,
	lexer.LT: ast.OpLt, lexer.LESS_THAN: ast.OpLt,
	lexer.LE: ast.OpLe, lexer.LESS_THAN_OR_EQUAL: ast.OpLe, lexer.AT_MOST: ast.OpLe,
	lexer.GT: ast.OpGt, lexer.GREATER_THAN: ast.OpGt,
	lexer.GE: ast.OpGe, lexer.GREATER_THAN_OR_EQUAL: ast.OpGe, lexer.AT_LEAST: ast.OpGe,
	lexer.CONTAINS:    ast.OpContains,
	lexer.STARTS_WITH: ast.OpStartsWith,
	lexer.ENDS_WITH:   ast.OpEndsWith,
	lexer.MATCHES:     ast.OpMatches,
}

var unaryPredicates = map[lexer.Kind]string{
	lexer.IS_NULL: "is_null", lexer.IS_NOT_NULL: "is_not_null",
	lexer.IS_EMPTY: "is_empty", lexer.IS_NOT_EMPTY: "is_not_empty",
	lexer.IS_NUMERIC: "is_numeric", lexer.IS_POSITIVE: "is_positive",
	lexer.IS_NEGATIVE: "is_negative", lexer.IS_EMAIL: "is_email",
	lexer.IS_CREDIT_SCORE: "is_credit_score", lexer.IS_SSN: "is_ssn",
	lexer.IS_ACCOUNT_NUMBER: "is_account_number",
	lexer.IS_ROUTING_NUMBER: "is_routing_number",
	lexer.IS_BUSINESS_DAY:   "is_business_day",
}

var binaryPredicates = map[lexer.Kind]string{
	lexer.AGE_AT_LEAST:           "age_at_least",
	lexer.AGE_MEETS_REQUIREMENT: "age_meets_requirement",
}

func (p *Parser) parsePrimaryCondition() (ast.Condition, error) {
	if p.current.Kind == lexer.LPAREN {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RPAREN, CategoryMissingRParen, "expected )"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	pos := left.Location()

	switch p.current.Kind {
	case lexer.IN, lexer.IN_LIST, lexer.NOT_IN:
		negate := p.current.Kind == lexer.NOT_IN
		p.next()
		if err := p.expect(lexer.LBRACKET, CategoryUnexpectedToken, "expected ["); err != nil {
			return nil, err
		}
		var elems []ast.Expr
		for p.current.Kind != lexer.RBRACKET {
			el, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if p.current.Kind == lexer.COMMA {
				p.next()
			} else {
				break
			}
		}
		if err := p.expect(lexer.RBRACKET, CategoryMissingRBracket, "expected ]"); err != nil {
			return nil, err
		}
		return &ast.InList{Pos: pos, Value: left, List: elems, Negate: negate}, nil

	case lexer.BETWEEN:
		p.next()
		lo, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if p.current.Kind != lexer.AND {
			return nil, newError(CategoryUnexpectedToken, p.current.Location,
				"expected 'and' in between expression, got %q", p.current.Text)
		}
		p.next()
		hi, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.Between{Pos: pos, Value: left, Low: lo, High: hi}, nil

	case lexer.EQ, lexer.NE, lexer.LT, lexer.LE, lexer.GT, lexer.GE,
		lexer.AT_LEAST, lexer.AT_MOST, lexer.GREATER_THAN, lexer.LESS_THAN,
		lexer.GREATER_THAN_OR_EQUAL, lexer.LESS_THAN_OR_EQUAL, lexer.EQUALS,
		lexer.CONTAINS, lexer.STARTS_WITH, lexer.ENDS_WITH, lexer.MATCHES:
		op := comparisonOps[p.current.Kind]
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{Pos: pos, Left: left, Op: op, Right: right}, nil

	default:
		if name, ok := unaryPredicates[p.current.Kind]; ok {
			p.next()
			return &ast.KeywordPredicate{Pos: pos, Name: name, Operand: left}, nil
		}
		if name, ok := binaryPredicates[p.current.Kind]; ok {
			p.next()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &ast.KeywordPredicate{Pos: pos, Name: name, Operand: left, Operand2: right}, nil
		}
	}

	// No comparison/predicate operator followed — promote via truthiness
	// (§4.3 "mixed-context heuristic").
	return &ast.ExpressionCondition{Pos: pos, Expr: left}, nil
}

// --- Expression grammar: additive > multiplicative > power > unary > postfix > primary ---

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.current.Kind == lexer.PLUS || p.current.Kind == lexer.MINUS {
		op, sym := ast.OpAdd, "+"
		if p.current.Kind == lexer.MINUS {
			op, sym = ast.OpSub, "-"
		}
		pos := p.current.Location
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Pos: pos, Op: op, OpSym: sym, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.current.Kind == lexer.STAR || p.current.Kind == lexer.SLASH || p.current.Kind == lexer.PERCENT {
		var op ast.BinaryOp
		var sym string
		switch p.current.Kind {
		case lexer.STAR:
			op, sym = ast.OpMul, "*"
		case lexer.SLASH:
			op, sym = ast.OpDiv, "/"
		case lexer.PERCENT:
			op, sym = ast.OpMod, "%"
		}
		pos := p.current.Location
		p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Pos: pos, Op: op, OpSym: sym, Left: left, Right: right}
	}
	return left, nil
}

// parsePower is right-associative: 2^3^2 == 2^(3^2).
func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.current.Kind == lexer.CARET {
		sym := p.current.Text
		pos := p.current.Location
		p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Pos: pos, Op: ast.OpPow, OpSym: sym, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.current.Kind == lexer.MINUS {
		pos := p.current.Location
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Pos: pos, Op: ast.UnaryNeg, Operand: operand}, nil
	}
	if p.current.Kind == lexer.PLUS {
		pos := p.current.Location
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Pos: pos, Op: ast.UnaryPos, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current.Kind == lexer.LBRACKET {
		pos := p.current.Location
		p.next()
		idx, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RBRACKET, CategoryMissingRBracket, "expected ]"); err != nil {
			return nil, err
		}
		expr = &ast.Index{Pos: pos, Expr: expr, Index: idx}
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.current
	switch tok.Kind {
	case lexer.INT:
		p.next()
		d, err := value.ParseDecimal(tok.Text)
		if err != nil {
			return nil, newError(CategoryInvalidLiteral, tok.Location, "invalid integer literal %q", tok.Text)
		}
		return &ast.Literal{Pos: tok.Location, Val: value.Number(d)}, nil
	case lexer.DECIMAL:
		p.next()
		d, err := value.ParseDecimal(tok.Text)
		if err != nil {
			return nil, newError(CategoryInvalidLiteral, tok.Location, "invalid decimal literal %q", tok.Text)
		}
		return &ast.Literal{Pos: tok.Location, Val: value.Number(d)}, nil
	case lexer.STRING:
		p.next()
		return &ast.Literal{Pos: tok.Location, Val: value.Text(tok.Literal)}, nil
	case lexer.BOOL:
		p.next()
		return &ast.Literal{Pos: tok.Location, Val: value.Bool(strings.EqualFold(tok.Text, "true"))}, nil
	case lexer.NULL:
		p.next()
		return &ast.Literal{Pos: tok.Location, Val: value.Null}, nil
	case lexer.LPAREN:
		p.next()
		inner, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RPAREN, CategoryMissingRParen, "expected )"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.LBRACKET:
		pos := tok.Location
		p.next()
		var elems []ast.Expr
		for p.current.Kind != lexer.RBRACKET {
			el, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if p.current.Kind == lexer.COMMA {
				p.next()
			} else {
				break
			}
		}
		if err := p.expect(lexer.RBRACKET, CategoryMissingRBracket, "expected ]"); err != nil {
			return nil, err
		}
		return &ast.ListLiteral{Pos: pos, Elements: elems}, nil
	case lexer.IDENT:
		name := tok.Text
		pos := tok.Location
		p.next()
		if p.current.Kind == lexer.LPAREN {
			return p.parseFunctionCall(name, pos)
		}
		return &ast.Variable{Pos: pos, Name: strings.TrimSpace(name)}, nil
	default:
		return nil, newError(CategoryUnexpectedToken, tok.Location, "unexpected token %q", tok.Text)
	}
}

// parseFunctionCall parses `name(arg, arg, ...)`. The json_path and rest_*
// builtin names are recognized here and lowered directly to the dedicated
// ast.JsonPath / ast.RestCall nodes so the evaluator never has to special
// case them by string name (§4.6).
func (p *Parser) parseFunctionCall(name string, pos source.Location) (ast.Expr, error) {
	p.next() // consume '('
	var args []ast.Expr
	for p.current.Kind != lexer.RPAREN {
		arg, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.current.Kind == lexer.COMMA {
			p.next()
		} else {
			break
		}
	}
	if err := p.expect(lexer.RPAREN, CategoryMissingRParen, "expected )"); err != nil {
		return nil, err
	}

	switch strings.ToLower(name) {
	case "json_path":
		if len(args) != 2 {
			return nil, newError(CategoryUnexpectedToken, pos, "json_path expects 2 arguments, got %d", len(args))
		}
		return &ast.JsonPath{Pos: pos, Source: args[0], Path: args[1]}, nil
	case "rest_get", "rest_post", "rest_put", "rest_patch", "rest_delete":
		if len(args) < 1 {
			return nil, newError(CategoryUnexpectedToken, pos, "%s expects at least 1 argument", name)
		}
		method := strings.ToUpper(strings.TrimPrefix(strings.ToLower(name), "rest_"))
		call := &ast.RestCall{Pos: pos, Method: method, URL: args[0]}
		if len(args) > 1 {
			call.Body = args[1]
		}
		if len(args) > 2 {
			call.Headers = args[2]
		}
		if len(args) > 3 {
			call.Timeout = args[3]
		}
		return call, nil
	default:
		return &ast.FunctionCall{Pos: pos, Name: name, Args: args}, nil
	}
}
