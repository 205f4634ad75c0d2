package evaluator

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/builtins"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/evalctx"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/parser"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func newTestEvaluator(inputs map[string]value.Value) *Evaluator {
	ctx := evalctx.New(inputs, nil)
	registry := builtins.NewDefaultRegistry(nil, nil)
	env := &builtins.Env{Logger: logrus.NewEntry(logrus.New())}
	return New(ctx, registry, env, nil, builtins.MapJSONPathProvider{}, 0)
}

func mustParseExpr(t *testing.T, s string) ast.Expr {
	t.Helper()
	e, err := parser.ParseExpression(s)
	require.NoError(t, err)
	return e
}

func mustParseCondition(t *testing.T, s string) ast.Condition {
	t.Helper()
	c, err := parser.ParseCondition(s)
	require.NoError(t, err)
	return c
}

func TestEvalExprArithmeticWithDecimalRounding(t *testing.T) {
	ev := newTestEvaluator(nil)
	result := ev.EvalExpr(mustParseExpr(t, "10 / 3"))
	assert.Equal(t, "3.3333333333", result.AsNumber().String())
}

func TestEvalExprDivisionByZeroReturnsOriginalText(t *testing.T) {
	ev := newTestEvaluator(nil)
	result := ev.EvalExpr(mustParseExpr(t, "10 / 0"))
	assert.Equal(t, value.KindText, result.Type())
	assert.Equal(t, "0", result.AsText())
}

func TestEvalExprTextConcatenation(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"name": value.Text("Ada")})
	result := ev.EvalExpr(mustParseExpr(t, `"hello " + name`))
	assert.Equal(t, "hello Ada", result.AsText())
}

func TestEvalExprVariableResolution(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"income": value.Int(50000)})
	result := ev.EvalExpr(mustParseExpr(t, "income"))
	assert.Equal(t, int64(50000), result.AsNumber().Int64())
}

func TestEvalExprUnknownFunctionReturnsNull(t *testing.T) {
	ev := newTestEvaluator(nil)
	result := ev.EvalExpr(mustParseExpr(t, "totally_unknown_fn(1, 2)"))
	assert.True(t, result.IsNull())
}

func TestEvalExprKnownFunction(t *testing.T) {
	ev := newTestEvaluator(nil)
	result := ev.EvalExpr(mustParseExpr(t, "max(3, 9, 1)"))
	assert.Equal(t, int64(9), result.AsNumber().Int64())
}

func TestEvalConditionComparison(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"creditScore": value.Int(720)})
	assert.True(t, ev.EvalCondition(mustParseCondition(t, "creditScore >= 700")))
	assert.False(t, ev.EvalCondition(mustParseCondition(t, "creditScore >= 750")))
}

func TestEvalConditionAndOrShortCircuit(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"a": value.Bool(true), "b": value.Bool(false)})
	assert.True(t, ev.EvalCondition(mustParseCondition(t, "a or b")))
	assert.False(t, ev.EvalCondition(mustParseCondition(t, "a and b")))
}

func TestEvalConditionBetween(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"age": value.Int(30)})
	assert.True(t, ev.EvalCondition(mustParseCondition(t, "age between 18 and 65")))
}

func TestEvalConditionKeywordPredicate(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"email": value.Text("a@b.com")})
	assert.True(t, ev.EvalCondition(mustParseCondition(t, "email is_email")))
}

func TestExecuteActionsSetAndCalculate(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"income": value.Int(60000)})
	actions := []ast.Action{
		&ast.Set{Name: "bonus", Expr: mustParseExpr(t, "1000")},
		&ast.Calculate{Name: "total", Expr: mustParseExpr(t, "income + bonus")},
	}
	ev.ExecuteActions(actions)
	assert.Equal(t, int64(1000), ev.ctx.Get("bonus").AsNumber().Int64())
	assert.Equal(t, int64(61000), ev.ctx.Get("total").AsNumber().Int64())
}

func TestExecuteActionsConditional(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"score": value.Int(800)})
	actions := []ast.Action{
		&ast.Conditional{
			Cond: mustParseCondition(t, "score >= 700"),
			Then: []ast.Action{&ast.Set{Name: "tier", Expr: mustParseExpr(t, `"gold"`)}},
			Else: []ast.Action{&ast.Set{Name: "tier", Expr: mustParseExpr(t, `"standard"`)}},
		},
	}
	ev.ExecuteActions(actions)
	assert.Equal(t, "gold", ev.ctx.Get("tier").AsText())
}

func TestExecuteActionsForEachAccumulatesBindings(t *testing.T) {
	ev := newTestEvaluator(nil)
	listExpr := mustParseExpr(t, "[10, 20, 30]")
	actions := []ast.Action{
		&ast.ForEach{
			ItemName:  "item",
			IndexName: "idx",
			ListExpr:  listExpr,
			Body: []ast.Action{
				&ast.ListMutation{Op: ast.ListAppend, Name: "seen", Expr: &ast.Variable{Name: "item"}},
			},
		},
	}
	ev.ExecuteActions(actions)
	// Bindings from the last iteration remain visible (accumulator pattern).
	assert.Equal(t, int64(30), ev.ctx.Get("item").AsNumber().Int64())
	assert.Equal(t, int64(2), ev.ctx.Get("idx").AsNumber().Int64())
	seen := ev.ctx.Get("seen").AsList()
	require.Len(t, seen, 3)
	assert.Equal(t, int64(10), seen[0].AsNumber().Int64())
}

func TestExecuteActionsCircuitBreakerStopsRemainingActions(t *testing.T) {
	ev := newTestEvaluator(nil)
	actions := []ast.Action{
		&ast.CircuitBreaker{MessageExpr: mustParseExpr(t, `"stop"`)},
		&ast.Set{Name: "shouldNotRun", Expr: mustParseExpr(t, "1")},
	}
	ev.ExecuteActions(actions)
	assert.True(t, ev.ctx.CircuitBreakerTriggered())
	assert.Equal(t, "stop", ev.ctx.CircuitBreakerMessage())
	assert.True(t, ev.ctx.Get("shouldNotRun").IsNull())
}

func TestExecuteActionsArithmeticSkipsNonNumeric(t *testing.T) {
	ev := newTestEvaluator(map[string]value.Value{"balance": value.Text("not-a-number")})
	actions := []ast.Action{
		&ast.Arithmetic{Op: ast.ArithAdd, Name: "balance", Expr: mustParseExpr(t, "100")},
	}
	ev.ExecuteActions(actions)
	assert.Equal(t, "not-a-number", ev.ctx.Get("balance").AsText())
}
