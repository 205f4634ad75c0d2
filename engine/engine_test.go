package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/constants"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func TestEvaluateEmptyActionRuleWithAlwaysTrueCondition(t *testing.T) {
	eng := New(Config{})
	result := eng.Evaluate(context.Background(), `
output:
  name: text
when:
  - "true"
`, map[string]value.Value{"name": value.Text("Ada")})

	require.True(t, result.Success)
	assert.True(t, result.ConditionMet)
	assert.Equal(t, "Ada", result.OutputData["name"].AsText())
}

func TestEvaluateCircuitBreakerScenario(t *testing.T) {
	eng := New(Config{})
	result := eng.Evaluate(context.Background(), `
output:
  initial_check: text
  final_check: text
when:
  - "true"
then:
  - "set initial_check to \"PASSED\""
  - "if riskScore greater_than 90 then circuit_breaker \"HIGH_RISK\""
  - "set final_check to \"COMPLETED\""
`, map[string]value.Value{"riskScore": value.Int(95)})

	require.True(t, result.Success)
	assert.Equal(t, "PASSED", result.OutputData["initial_check"].AsText())
	assert.True(t, result.OutputData["final_check"].IsNull())
	assert.True(t, result.CircuitBreakerTriggered)
	assert.Equal(t, "HIGH_RISK", result.CircuitBreakerMessage)
}

func TestEvaluateSubRuleSequencingWithDependency(t *testing.T) {
	eng := New(Config{})
	result := eng.Evaluate(context.Background(), `
output:
  dti: number
  risk_level: text
rules:
  - name: computeDti
    then:
      - "calculate dti as monthlyDebt / (annualIncome / 12)"
  - name: flagHighRisk
    when:
      - "dti greater_than 0.4"
    then:
      - "set risk_level to \"HIGH\""
`, map[string]value.Value{
		"monthlyDebt":  value.Int(3000),
		"annualIncome": value.Int(60000),
	})

	require.True(t, result.Success)
	assert.Equal(t, "0.6000000000", result.OutputData["dti"].AsNumber().String())
	assert.Equal(t, "HIGH", result.OutputData["risk_level"].AsText())
}

func TestEvaluateMissingConstantWithNoDefaultFails(t *testing.T) {
	eng := New(Config{ConstantProvider: constants.NewStaticProvider(nil)})
	result := eng.Evaluate(context.Background(), `
constants:
  - code: MIN_CREDIT_SCORE
when:
  - "creditScore >= MIN_CREDIT_SCORE"
then:
  - "set approved = true"
`, map[string]value.Value{"creditScore": value.Int(700)})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestEvaluateForEachAccumulation(t *testing.T) {
	eng := New(Config{})
	result := eng.Evaluate(context.Background(), `
output:
  total: number
when:
  - "true"
then:
  - "set total to 0"
  - "forEach n in numbers: calculate total as total + n"
`, map[string]value.Value{"numbers": value.List([]value.Value{
		value.Int(10), value.Int(20), value.Int(30), value.Int(40), value.Int(50),
	})})

	require.True(t, result.Success)
	assert.Equal(t, "150", result.OutputData["total"].AsNumber().String())
}

func TestEvaluateAsyncDeliversOneResult(t *testing.T) {
	eng := New(Config{})
	ch := eng.EvaluateAsync(context.Background(), `
when:
  - "true"
then:
  - "set x to 1"
`, nil)
	result := <-ch
	assert.True(t, result.Success)
}

func TestEvaluateUsesParseCacheForRepeatedText(t *testing.T) {
	eng := New(Config{})
	yamlText := `
when:
  - "true"
then:
  - "set x to 1"
`
	r1 := eng.Evaluate(context.Background(), yamlText, nil)
	r2 := eng.Evaluate(context.Background(), yamlText, nil)
	assert.True(t, r1.Success)
	assert.True(t, r2.Success)
	assert.NotEqual(t, r1.OperationID, r2.OperationID)
	assert.Equal(t, 1, eng.cache.order.Len())
}
