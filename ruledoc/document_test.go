package ruledoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
)

func TestParseSimpleShape(t *testing.T) {
	doc, err := Parse(`
name: creditDecision
version: "1.0.0"
inputs:
  - creditScore
when:
  - "creditScore >= 700"
then:
  - "set tier = \"gold\""
else:
  - "set tier = \"standard\""
`)
	require.NoError(t, err)
	assert.Equal(t, "creditDecision", doc.Name)
	require.NotNil(t, doc.When)
	require.Len(t, doc.Then, 1)
	require.Len(t, doc.Else, 1)
	_, ok := doc.Then[0].(*ast.Set)
	assert.True(t, ok)
}

func TestParseSimpleShapeMultipleWhenLinesAreConjoined(t *testing.T) {
	doc, err := Parse(`
when:
  - "creditScore >= 700"
  - "age at_least 18"
then:
  - "set approved = true"
`)
	require.NoError(t, err)
	logical, ok := doc.When.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, ast.LogicalAnd, logical.Op)
	assert.Len(t, logical.Operands, 2)
}

func TestParseStructuredShape(t *testing.T) {
	doc, err := Parse(`
conditions:
  if: "creditScore >= 700"
  then:
    actions:
      - "set tier = \"gold\""
  else:
    actions:
      - "set tier = \"standard\""
`)
	require.NoError(t, err)
	require.NotNil(t, doc.When)
	require.Len(t, doc.Then, 1)
	require.Len(t, doc.Else, 1)
}

func TestParseStructuredShapeWithAndOr(t *testing.T) {
	doc, err := Parse(`
conditions:
  if:
    and:
      - "creditScore >= 700"
      - "age at_least 18"
  then:
    actions:
      - "set approved = true"
`)
	require.NoError(t, err)
	logical, ok := doc.When.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, ast.LogicalAnd, logical.Op)
	assert.Len(t, logical.Operands, 2)
}

func TestParseMultiShape(t *testing.T) {
	doc, err := Parse(`
rules:
  - name: creditCheck
    when:
      - "creditScore >= 700"
    then:
      - "set creditOk = true"
  - name: incomeCheck
    when:
      - "income >= 50000"
    then:
      - "set incomeOk = true"
`)
	require.NoError(t, err)
	require.True(t, doc.HasSubRules())
	require.Len(t, doc.Rules, 2)
	assert.Equal(t, "creditCheck", doc.Rules[0].Name)
	assert.Equal(t, "incomeCheck", doc.Rules[1].Name)
}

func TestParseConstantsWithDefaults(t *testing.T) {
	doc, err := Parse(`
constants:
  - code: MIN_CREDIT_SCORE
    defaultValue: 650
when:
  - "creditScore >= MIN_CREDIT_SCORE"
then:
  - "set approved = true"
`)
	require.NoError(t, err)
	require.Len(t, doc.Constants, 1)
	assert.Equal(t, "MIN_CREDIT_SCORE", doc.Constants[0].Code)
	assert.True(t, doc.Constants[0].HasDefault)
	assert.Equal(t, int64(650), doc.Constants[0].Default.AsNumber().Int64())
}

func TestParseOutputDeclarations(t *testing.T) {
	doc, err := Parse(`
output:
  tier: text
  approved: boolean
when:
  - "true"
then:
  - "set tier = \"gold\""
`)
	require.NoError(t, err)
	require.Len(t, doc.Outputs, 2)
}

func TestParseCircuitBreakerConfig(t *testing.T) {
	doc, err := Parse(`
circuit_breaker:
  enabled: true
  failure_threshold: 3
  timeout_duration: "30s"
  recovery_timeout: "1m"
when:
  - "true"
then:
  - "set x = 1"
`)
	require.NoError(t, err)
	assert.True(t, doc.CircuitBreaker.Enabled)
	assert.Equal(t, 3, doc.CircuitBreaker.FailureThreshold)
}

func TestParseNamingConventionWarnings(t *testing.T) {
	doc, err := Parse(`
inputs:
  - Credit_Score
constants:
  - code: minScore
    defaultValue: 1
when:
  - "true"
then:
  - "set x = 1"
`)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Warnings)
}

func TestParseInvalidYAMLReturnsError(t *testing.T) {
	_, err := Parse("when: [unterminated")
	assert.Error(t, err)
}

func TestParseEmptyWhenDefaultsToAlwaysTrue(t *testing.T) {
	doc, err := Parse(`
then:
  - "set x = 1"
`)
	require.NoError(t, err)
	require.NotNil(t, doc.When)
}
