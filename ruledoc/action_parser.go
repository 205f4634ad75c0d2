package ruledoc

import (
	"strings"

	"github.com/samber/oops"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/parser"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// ParseActionLine parses a single then/else line using the action-line
// grammar (§4.4): the lead keywords set, calculate, run, call, add,
// subtract, multiply, divide, append, prepend, remove, if...then...,
// forEach name[, idx] in expr: action, circuit_breaker.
func ParseActionLine(line string) (ast.Action, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, oops.Code("ACTION_PARSE").Errorf("empty action line")
	}
	lower := strings.ToLower(line)

	switch {
	case strings.HasPrefix(lower, "set "):
		return parseSetOrAssignment(line[len("set "):])
	case strings.HasPrefix(lower, "calculate "):
		return parseCalculateOrRun(line[len("calculate "):], true)
	case strings.HasPrefix(lower, "run "):
		return parseCalculateOrRun(line[len("run "):], false)
	case strings.HasPrefix(lower, "call "):
		return parseCall(line[len("call "):])
	case strings.HasPrefix(lower, "add "):
		return parseArithmetic(line[len("add "):], "to", ast.ArithAdd)
	case strings.HasPrefix(lower, "subtract "):
		return parseArithmetic(line[len("subtract "):], "from", ast.ArithSubtract)
	case strings.HasPrefix(lower, "multiply "):
		return parseArithmeticReversed(line[len("multiply "):], "by", ast.ArithMultiply)
	case strings.HasPrefix(lower, "divide "):
		return parseArithmeticReversed(line[len("divide "):], "by", ast.ArithDivide)
	case strings.HasPrefix(lower, "append "):
		return parseListMutation(line[len("append "):], "to", ast.ListAppend)
	case strings.HasPrefix(lower, "prepend "):
		return parseListMutation(line[len("prepend "):], "to", ast.ListPrepend)
	case strings.HasPrefix(lower, "remove "):
		return parseListMutation(line[len("remove "):], "from", ast.ListRemove)
	case strings.HasPrefix(lower, "if "):
		return parseConditional(line[len("if "):])
	case strings.HasPrefix(lower, "foreach "):
		return parseForEach(line[len("forEach "):])
	case strings.HasPrefix(lower, "circuit_breaker"):
		return parseCircuitBreaker(strings.TrimSpace(line[len("circuit_breaker"):]))
	default:
		return nil, oops.Code("ACTION_PARSE").Errorf("unrecognized action keyword in %q", line)
	}
}

// ParseActionLines parses a list of then/else lines.
func ParseActionLines(lines []string) ([]ast.Action, error) {
	actions := make([]ast.Action, 0, len(lines))
	for _, line := range lines {
		action, err := ParseActionLine(line)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func parseSetOrAssignment(rest string) (ast.Action, error) {
	for _, op := range []struct {
		token string
		kind  ast.CompoundOp
	}{
		{"+=", ast.CompoundAdd},
		{"-=", ast.CompoundSub},
		{"*=", ast.CompoundMul},
		{"/=", ast.CompoundDiv},
	} {
		if idx := strings.Index(rest, op.token); idx >= 0 {
			name := strings.TrimSpace(rest[:idx])
			exprStr := strings.TrimSpace(rest[idx+len(op.token):])
			expr, err := parser.ParseExpression(exprStr)
			if err != nil {
				return nil, err
			}
			return &ast.Assignment{Name: name, Op: op.kind, Expr: expr}, nil
		}
	}
	var name, exprStr string
	if idx := findKeyword(rest, "to"); idx >= 0 {
		name = strings.TrimSpace(rest[:idx])
		exprStr = strings.TrimSpace(rest[idx+len("to"):])
	} else if idx := strings.Index(rest, "="); idx >= 0 {
		name = strings.TrimSpace(rest[:idx])
		exprStr = strings.TrimSpace(rest[idx+1:])
	} else {
		return nil, oops.Code("ACTION_PARSE").Errorf("set action missing '=' or 'to': %q", rest)
	}
	expr, err := parser.ParseExpression(exprStr)
	if err != nil {
		return nil, err
	}
	return &ast.Set{Name: name, Expr: expr}, nil
}

// parseCalculateOrRun parses "NAME = EXPR", "NAME as EXPR" (§8 scenarios 4
// and 6 use the natural-language "as" form). When restrictToArithmetic is
// true (the "calculate" keyword) the parsed expression is rejected at
// parse time if it contains a FunctionCall/RestCall/JsonPath (§3, §4.8).
func parseCalculateOrRun(rest string, restrictToArithmetic bool) (ast.Action, error) {
	var name, exprStr string
	if idx := findKeyword(rest, "as"); idx >= 0 {
		name = strings.TrimSpace(rest[:idx])
		exprStr = strings.TrimSpace(rest[idx+len("as"):])
	} else if idx := strings.Index(rest, "="); idx >= 0 {
		name = strings.TrimSpace(rest[:idx])
		exprStr = strings.TrimSpace(rest[idx+1:])
	} else {
		return nil, oops.Code("ACTION_PARSE").Errorf("calculate/run action missing '=' or 'as': %q", rest)
	}
	expr, err := parser.ParseExpression(exprStr)
	if err != nil {
		return nil, err
	}
	if restrictToArithmetic && ast.ContainsCall(expr) {
		return nil, oops.Code("ACTION_PARSE").Errorf(
			"calculate %q: expression must be arithmetic/variable/literal only, got a function/REST/JSON call", name)
	}
	if restrictToArithmetic {
		return &ast.Calculate{Name: name, Expr: expr}, nil
	}
	return &ast.Run{Name: name, Expr: expr}, nil
}

// parseCall parses "FUNC(ARGS) [as RESULT]".
func parseCall(rest string) (ast.Action, error) {
	resultName := ""
	if idx := strings.LastIndex(strings.ToLower(rest), " as "); idx >= 0 {
		resultName = strings.TrimSpace(rest[idx+len(" as "):])
		rest = strings.TrimSpace(rest[:idx])
	}
	expr, err := parser.ParseExpression(rest)
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*ast.FunctionCall)
	if !ok {
		return nil, oops.Code("ACTION_PARSE").Errorf("call action must be a function call, got %q", rest)
	}
	return &ast.Call{Name: call.Name, Args: call.Args, ResultName: resultName}, nil
}

// parseArithmetic parses "EXPR <joiner> NAME" (add X to Y / subtract X
// from Y): the mutated variable trails the joiner keyword.
func parseArithmetic(rest, joiner string, op ast.ArithmeticOp) (ast.Action, error) {
	idx := findKeyword(rest, joiner)
	if idx < 0 {
		return nil, oops.Code("ACTION_PARSE").Errorf("arithmetic action missing %q: %q", joiner, rest)
	}
	exprStr := strings.TrimSpace(rest[:idx])
	name := strings.TrimSpace(rest[idx+len(joiner):])
	expr, err := parser.ParseExpression(exprStr)
	if err != nil {
		return nil, err
	}
	return &ast.Arithmetic{Op: op, Name: name, Expr: expr}, nil
}

// parseArithmeticReversed parses "NAME <joiner> EXPR" (multiply Y by X /
// divide Y by X): the mutated variable leads the joiner keyword.
func parseArithmeticReversed(rest, joiner string, op ast.ArithmeticOp) (ast.Action, error) {
	idx := findKeyword(rest, joiner)
	if idx < 0 {
		return nil, oops.Code("ACTION_PARSE").Errorf("arithmetic action missing %q: %q", joiner, rest)
	}
	name := strings.TrimSpace(rest[:idx])
	exprStr := strings.TrimSpace(rest[idx+len(joiner):])
	expr, err := parser.ParseExpression(exprStr)
	if err != nil {
		return nil, err
	}
	return &ast.Arithmetic{Op: op, Name: name, Expr: expr}, nil
}

func parseListMutation(rest, joiner string, op ast.ListOp) (ast.Action, error) {
	idx := findKeyword(rest, joiner)
	if idx < 0 {
		return nil, oops.Code("ACTION_PARSE").Errorf("list action missing %q: %q", joiner, rest)
	}
	exprStr := strings.TrimSpace(rest[:idx])
	name := strings.TrimSpace(rest[idx+len(joiner):])
	expr, err := parser.ParseExpression(exprStr)
	if err != nil {
		return nil, err
	}
	return &ast.ListMutation{Op: op, Name: name, Expr: expr}, nil
}

// findKeyword finds a standalone, whitespace-bounded occurrence of
// keyword within s, at the top nesting level (not inside (), [] or a
// quoted string) — so "to" inside a string literal argument doesn't get
// mistaken for the arithmetic-action joiner.
func findKeyword(s, keyword string) int {
	depth := 0
	inString := false
	lower := strings.ToLower(s)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case '(', '[':
			if !inString {
				depth++
			}
		case ')', ']':
			if !inString {
				depth--
			}
		}
		if inString || depth != 0 {
			continue
		}
		if i+len(keyword) <= len(lower) && lower[i:i+len(keyword)] == keyword {
			before := i == 0 || s[i-1] == ' '
			after := i+len(keyword) == len(s) || s[i+len(keyword)] == ' '
			if before && after {
				return i
			}
		}
	}
	return -1
}

// parseConditional parses "COND then ACTION[; ACTION...] [else ACTION[; ACTION...]]".
func parseConditional(rest string) (ast.Action, error) {
	thenIdx := findKeyword(rest, "then")
	if thenIdx < 0 {
		return nil, oops.Code("ACTION_PARSE").Errorf("if action missing 'then': %q", rest)
	}
	condStr := strings.TrimSpace(rest[:thenIdx])
	afterThen := rest[thenIdx+len("then"):]

	thenStr := afterThen
	elseStr := ""
	if elseIdx := findKeyword(afterThen, "else"); elseIdx >= 0 {
		thenStr = afterThen[:elseIdx]
		elseStr = afterThen[elseIdx+len("else"):]
	}

	cond, err := parser.ParseCondition(condStr)
	if err != nil {
		return nil, err
	}
	thenActions, err := ParseActionLines(splitTopLevel(thenStr, ';'))
	if err != nil {
		return nil, err
	}
	var elseActions []ast.Action
	if strings.TrimSpace(elseStr) != "" {
		elseActions, err = ParseActionLines(splitTopLevel(elseStr, ';'))
		if err != nil {
			return nil, err
		}
	}
	return &ast.Conditional{Cond: cond, Then: thenActions, Else: elseActions}, nil
}

// parseForEach parses "item[, idx] in EXPR: ACTION[; ACTION...]".
func parseForEach(rest string) (ast.Action, error) {
	colonIdx := strings.IndexByte(rest, ':')
	if colonIdx < 0 {
		return nil, oops.Code("ACTION_PARSE").Errorf("forEach action missing ':': %q", rest)
	}
	header := strings.TrimSpace(rest[:colonIdx])
	body := rest[colonIdx+1:]

	inIdx := findKeyword(header, "in")
	if inIdx < 0 {
		return nil, oops.Code("ACTION_PARSE").Errorf("forEach action missing 'in': %q", header)
	}
	bindings := strings.TrimSpace(header[:inIdx])
	listExprStr := strings.TrimSpace(header[inIdx+len("in"):])

	itemName := bindings
	indexName := ""
	if commaIdx := strings.IndexByte(bindings, ','); commaIdx >= 0 {
		itemName = strings.TrimSpace(bindings[:commaIdx])
		indexName = strings.TrimSpace(bindings[commaIdx+1:])
	}

	listExpr, err := parser.ParseExpression(listExprStr)
	if err != nil {
		return nil, err
	}
	bodyActions, err := ParseActionLines(splitTopLevel(body, ';'))
	if err != nil {
		return nil, err
	}
	return &ast.ForEach{ItemName: itemName, IndexName: indexName, ListExpr: listExpr, Body: bodyActions}, nil
}

func parseCircuitBreaker(rest string) (ast.Action, error) {
	if rest == "" {
		return &ast.CircuitBreaker{MessageExpr: &ast.Literal{Val: value.Null}}, nil
	}
	expr, err := parser.ParseExpression(rest)
	if err != nil {
		return nil, err
	}
	return &ast.CircuitBreaker{MessageExpr: expr}, nil
}

// splitTopLevel splits s on sep, ignoring occurrences inside (), [] or a
// quoted string.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case '(', '[':
			if !inString {
				depth++
			}
		case ')', ']':
			if !inString {
				depth--
			}
		}
		if s[i] == sep && depth == 0 && !inString {
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	last := strings.TrimSpace(s[start:])
	if last != "" {
		parts = append(parts, last)
	}
	return parts
}
