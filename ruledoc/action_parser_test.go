package ruledoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
)

func TestParseSetAssignment(t *testing.T) {
	a, err := ParseActionLine(`set x = 5`)
	require.NoError(t, err)
	set, ok := a.(*ast.Set)
	require.True(t, ok)
	assert.Equal(t, "x", set.Name)
}

func TestParseSetAssignmentWithToKeyword(t *testing.T) {
	a, err := ParseActionLine(`set approval_status to "APPROVED"`)
	require.NoError(t, err)
	set, ok := a.(*ast.Set)
	require.True(t, ok)
	assert.Equal(t, "approval_status", set.Name)
}

func TestParseCompoundAssignment(t *testing.T) {
	a, err := ParseActionLine(`set x += 1`)
	require.NoError(t, err)
	assign, ok := a.(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)
	assert.Equal(t, ast.CompoundAdd, assign.Op)
}

func TestParseCalculatePureArithmetic(t *testing.T) {
	a, err := ParseActionLine(`calculate total = income + bonus`)
	require.NoError(t, err)
	calc, ok := a.(*ast.Calculate)
	require.True(t, ok)
	assert.Equal(t, "total", calc.Name)
}

func TestParseCalculateWithAsKeyword(t *testing.T) {
	a, err := ParseActionLine(`calculate dti as monthlyDebt / (annualIncome / 12)`)
	require.NoError(t, err)
	calc, ok := a.(*ast.Calculate)
	require.True(t, ok)
	assert.Equal(t, "dti", calc.Name)
}

func TestParseCalculateRejectsFunctionCallsWithAsKeyword(t *testing.T) {
	_, err := ParseActionLine(`calculate total as round(income, 2)`)
	assert.Error(t, err)
}

func TestParseCalculateRejectsFunctionCalls(t *testing.T) {
	_, err := ParseActionLine(`calculate total = round(income, 2)`)
	assert.Error(t, err)
}

func TestParseRunAllowsFunctionCalls(t *testing.T) {
	a, err := ParseActionLine(`run result = rest_get(url)`)
	require.NoError(t, err)
	run, ok := a.(*ast.Run)
	require.True(t, ok)
	assert.Equal(t, "result", run.Name)
}

func TestParseCallWithResult(t *testing.T) {
	a, err := ParseActionLine(`call notify(msg) as result`)
	require.NoError(t, err)
	call, ok := a.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "notify", call.Name)
	assert.Equal(t, "result", call.ResultName)
}

func TestParseCallWithoutResult(t *testing.T) {
	a, err := ParseActionLine(`call notify(msg)`)
	require.NoError(t, err)
	call, ok := a.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "", call.ResultName)
}

func TestParseArithmeticAdd(t *testing.T) {
	a, err := ParseActionLine(`add 100 to balance`)
	require.NoError(t, err)
	arith, ok := a.(*ast.Arithmetic)
	require.True(t, ok)
	assert.Equal(t, ast.ArithAdd, arith.Op)
	assert.Equal(t, "balance", arith.Name)
}

func TestParseArithmeticSubtract(t *testing.T) {
	a, err := ParseActionLine(`subtract 50 from balance`)
	require.NoError(t, err)
	arith, ok := a.(*ast.Arithmetic)
	require.True(t, ok)
	assert.Equal(t, ast.ArithSubtract, arith.Op)
	assert.Equal(t, "balance", arith.Name)
}

func TestParseArithmeticMultiply(t *testing.T) {
	a, err := ParseActionLine(`multiply balance by 1.05`)
	require.NoError(t, err)
	arith, ok := a.(*ast.Arithmetic)
	require.True(t, ok)
	assert.Equal(t, ast.ArithMultiply, arith.Op)
	assert.Equal(t, "balance", arith.Name)
}

func TestParseArithmeticDivide(t *testing.T) {
	a, err := ParseActionLine(`divide balance by 2`)
	require.NoError(t, err)
	arith, ok := a.(*ast.Arithmetic)
	require.True(t, ok)
	assert.Equal(t, ast.ArithDivide, arith.Op)
	assert.Equal(t, "balance", arith.Name)
}

func TestParseListMutationAppend(t *testing.T) {
	a, err := ParseActionLine(`append item to list`)
	require.NoError(t, err)
	mut, ok := a.(*ast.ListMutation)
	require.True(t, ok)
	assert.Equal(t, ast.ListAppend, mut.Op)
	assert.Equal(t, "list", mut.Name)
}

func TestParseListMutationPrepend(t *testing.T) {
	a, err := ParseActionLine(`prepend item to list`)
	require.NoError(t, err)
	mut, ok := a.(*ast.ListMutation)
	require.True(t, ok)
	assert.Equal(t, ast.ListPrepend, mut.Op)
}

func TestParseListMutationRemove(t *testing.T) {
	a, err := ParseActionLine(`remove item from list`)
	require.NoError(t, err)
	mut, ok := a.(*ast.ListMutation)
	require.True(t, ok)
	assert.Equal(t, ast.ListRemove, mut.Op)
}

func TestParseConditionalWithThenElse(t *testing.T) {
	a, err := ParseActionLine(`if score >= 700 then set tier = "gold" else set tier = "standard"`)
	require.NoError(t, err)
	cond, ok := a.(*ast.Conditional)
	require.True(t, ok)
	require.Len(t, cond.Then, 1)
	require.Len(t, cond.Else, 1)
	thenSet, ok := cond.Then[0].(*ast.Set)
	require.True(t, ok)
	assert.Equal(t, "tier", thenSet.Name)
}

func TestParseForEachBody(t *testing.T) {
	a, err := ParseActionLine(`forEach item, idx in items: append item to seen`)
	require.NoError(t, err)
	fe, ok := a.(*ast.ForEach)
	require.True(t, ok)
	assert.Equal(t, "item", fe.ItemName)
	assert.Equal(t, "idx", fe.IndexName)
	require.Len(t, fe.Body, 1)
}

func TestParseCircuitBreakerWithMessage(t *testing.T) {
	a, err := ParseActionLine(`circuit_breaker "stopped"`)
	require.NoError(t, err)
	cb, ok := a.(*ast.CircuitBreaker)
	require.True(t, ok)
	lit, ok := cb.MessageExpr.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "stopped", lit.Val.AsText())
}

func TestParseCircuitBreakerBare(t *testing.T) {
	a, err := ParseActionLine(`circuit_breaker`)
	require.NoError(t, err)
	cb, ok := a.(*ast.CircuitBreaker)
	require.True(t, ok)
	assert.NotNil(t, cb.MessageExpr)
}

func TestParseActionLinesBatch(t *testing.T) {
	lines := []string{
		`set a = 1`,
		`add 1 to a`,
	}
	actions, err := ParseActionLines(lines)
	require.NoError(t, err)
	require.Len(t, actions, 2)
}

func TestParseUnrecognizedActionLine(t *testing.T) {
	_, err := ParseActionLine(`frobnicate everything`)
	assert.Error(t, err)
}
