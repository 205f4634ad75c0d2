package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
)

func TestParseExpressionArithmetic(t *testing.T) {
	tests := []struct {
		input string
		op    ast.BinaryOp
	}{
		{"1 + 2", ast.OpAdd},
		{"x - y", ast.OpSub},
		{"a * b", ast.OpMul},
		{"a / b", ast.OpDiv},
		{"a % b", ast.OpMod},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseExpression(tt.input)
			require.NoError(t, err)
			bin, ok := expr.(*ast.Binary)
			require.True(t, ok, "expected *ast.Binary, got %T", expr)
			assert.Equal(t, tt.op, bin.Op)
		})
	}
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	expr, err := ParseExpression("2 ^ 3 ^ 2")
	require.NoError(t, err)
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpPow, bin.Op)
	_, leftIsLiteral := bin.Left.(*ast.Literal)
	assert.True(t, leftIsLiteral, "left operand of outer ^ should be the literal 2")
	right, ok := bin.Right.(*ast.Binary)
	require.True(t, ok, "right operand should itself be a power expression")
	assert.Equal(t, ast.OpPow, right.Op)
}

func TestParseUnaryMinus(t *testing.T) {
	expr, err := ParseExpression("-x")
	require.NoError(t, err)
	unary, ok := expr.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, ast.UnaryNeg, unary.Op)
}

func TestParseFunctionCall(t *testing.T) {
	expr, err := ParseExpression("round(income / 12, 2)")
	require.NoError(t, err)
	call, ok := expr.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "round", call.Name)
	assert.Len(t, call.Args, 2)
}

func TestParseJsonPathCall(t *testing.T) {
	expr, err := ParseExpression(`json_path(response, "data.score")`)
	require.NoError(t, err)
	jp, ok := expr.(*ast.JsonPath)
	require.True(t, ok, "expected *ast.JsonPath, got %T", expr)
	_, isVar := jp.Source.(*ast.Variable)
	assert.True(t, isVar)
}

func TestParseRestCall(t *testing.T) {
	expr, err := ParseExpression(`rest_get("https://example.com/score")`)
	require.NoError(t, err)
	call, ok := expr.(*ast.RestCall)
	require.True(t, ok)
	assert.Equal(t, "GET", call.Method)
}

func TestParseIndexExpression(t *testing.T) {
	expr, err := ParseExpression("scores[0]")
	require.NoError(t, err)
	idx, ok := expr.(*ast.Index)
	require.True(t, ok)
	_, isLiteral := idx.Index.(*ast.Literal)
	assert.True(t, isLiteral)
}

func TestParseListLiteral(t *testing.T) {
	expr, err := ParseExpression("[1, 2, 3]")
	require.NoError(t, err)
	list, ok := expr.(*ast.ListLiteral)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)
}

func TestParseConditionComparison(t *testing.T) {
	cond, err := ParseCondition("creditScore >= 700")
	require.NoError(t, err)
	cmp, ok := cond.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ast.OpGe, cmp.Op)
}

func TestParseConditionKeywordComparison(t *testing.T) {
	cond, err := ParseCondition("creditScore at_least 700")
	require.NoError(t, err)
	cmp, ok := cond.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ast.OpGe, cmp.Op)
}

func TestParseConditionBetween(t *testing.T) {
	cond, err := ParseCondition("age between 18 and 65")
	require.NoError(t, err)
	between, ok := cond.(*ast.Between)
	require.True(t, ok)
	assert.NotNil(t, between.Low)
	assert.NotNil(t, between.High)
}

func TestParseConditionInList(t *testing.T) {
	cond, err := ParseCondition(`state in ["CA", "NY", "TX"]`)
	require.NoError(t, err)
	in, ok := cond.(*ast.InList)
	require.True(t, ok)
	assert.False(t, in.Negate)
	assert.Len(t, in.List, 3)
}

func TestParseConditionNotIn(t *testing.T) {
	cond, err := ParseCondition(`state not_in ["CA", "NY"]`)
	require.NoError(t, err)
	in, ok := cond.(*ast.InList)
	require.True(t, ok)
	assert.True(t, in.Negate)
}

func TestParseConditionKeywordPredicate(t *testing.T) {
	cond, err := ParseCondition("email is_email")
	require.NoError(t, err)
	pred, ok := cond.(*ast.KeywordPredicate)
	require.True(t, ok)
	assert.Equal(t, "is_email", pred.Name)
	assert.Nil(t, pred.Operand2)
}

func TestParseConditionBinaryKeywordPredicate(t *testing.T) {
	cond, err := ParseCondition("dateOfBirth age_at_least 18")
	require.NoError(t, err)
	pred, ok := cond.(*ast.KeywordPredicate)
	require.True(t, ok)
	assert.Equal(t, "age_at_least", pred.Name)
	assert.NotNil(t, pred.Operand2)
}

func TestParseConditionAndOr(t *testing.T) {
	cond, err := ParseCondition("creditScore >= 700 and income > 50000 or isVip")
	require.NoError(t, err)
	// or binds loosest: top node is Logical(Or) of [And(...), ExpressionCondition(isVip)]
	orNode, ok := cond.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, ast.LogicalOr, orNode.Op)
	require.Len(t, orNode.Operands, 2)
	andNode, ok := orNode.Operands[0].(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, ast.LogicalAnd, andNode.Op)
}

func TestParseConditionNot(t *testing.T) {
	cond, err := ParseCondition("not isVip")
	require.NoError(t, err)
	notNode, ok := cond.(*ast.Not)
	require.True(t, ok)
	_, isExprCond := notNode.Operand.(*ast.ExpressionCondition)
	assert.True(t, isExprCond)
}

func TestParseConditionExpressionPromotion(t *testing.T) {
	cond, err := ParseCondition("isActiveCustomer")
	require.NoError(t, err)
	_, ok := cond.(*ast.ExpressionCondition)
	assert.True(t, ok)
}

func TestParseConditionParentheses(t *testing.T) {
	cond, err := ParseCondition("(creditScore >= 700 or income > 100000) and not isFlagged")
	require.NoError(t, err)
	andNode, ok := cond.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, ast.LogicalAnd, andNode.Op)
}

func TestParseCalculateRejectsFunctionCalls(t *testing.T) {
	expr, err := ParseExpression("income / 12 + round(bonus, 2)")
	require.NoError(t, err)
	assert.True(t, ast.ContainsCall(expr))
}

func TestParseCalculateAllowsPureArithmetic(t *testing.T) {
	expr, err := ParseExpression("(income + bonus) / 12 - deductions")
	require.NoError(t, err)
	assert.False(t, ast.ContainsCall(expr))
}

func TestParseUnexpectedTokenError(t *testing.T) {
	_, err := ParseExpression("1 + ")
	require.Error(t, err)
}

func TestParseMissingRParenError(t *testing.T) {
	_, err := ParseExpression("(1 + 2")
	require.Error(t, err)
}

func TestParseMissingRBracketError(t *testing.T) {
	_, err := ParseExpression("[1, 2")
	require.Error(t, err)
}
