package constants

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ruledoc"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func TestReferencedNamesScansConditionsAndActions(t *testing.T) {
	doc, err := ruledoc.Parse(`
constants:
  - code: MIN_CREDIT_SCORE
when:
  - "creditScore >= MIN_CREDIT_SCORE"
then:
  - "set limit = BASE_LIMIT"
`)
	require.NoError(t, err)
	names := ReferencedNames(doc)
	assert.Contains(t, names, "MIN_CREDIT_SCORE")
	assert.Contains(t, names, "BASE_LIMIT")
}

func TestMergedCodesUnionsDeclaredAndReferenced(t *testing.T) {
	doc, err := ruledoc.Parse(`
constants:
  - code: DECLARED_ONLY
    defaultValue: 1
when:
  - "true"
then:
  - "set x = REFERENCED_ONLY"
`)
	require.NoError(t, err)
	codes := MergedCodes(doc)
	assert.Contains(t, codes, "DECLARED_ONLY")
	assert.Contains(t, codes, "REFERENCED_ONLY")
}

func TestLoadUsesProviderValueOverDefault(t *testing.T) {
	doc, err := ruledoc.Parse(`
constants:
  - code: MIN_CREDIT_SCORE
    defaultValue: 600
when:
  - "true"
then:
  - "set x = MIN_CREDIT_SCORE"
`)
	require.NoError(t, err)
	provider := NewStaticProvider(map[string]StoredConstant{
		"MIN_CREDIT_SCORE": {Code: "MIN_CREDIT_SCORE", CurrentValue: value.Int(700)},
	})
	resolved, err := Load(context.Background(), doc, provider)
	require.NoError(t, err)
	assert.Equal(t, int64(700), resolved["MIN_CREDIT_SCORE"].AsNumber().Int64())
}

func TestLoadFallsBackToInlineDefault(t *testing.T) {
	doc, err := ruledoc.Parse(`
constants:
  - code: MIN_CREDIT_SCORE
    defaultValue: 600
when:
  - "true"
then:
  - "set x = MIN_CREDIT_SCORE"
`)
	require.NoError(t, err)
	provider := NewStaticProvider(nil)
	resolved, err := Load(context.Background(), doc, provider)
	require.NoError(t, err)
	assert.Equal(t, int64(600), resolved["MIN_CREDIT_SCORE"].AsNumber().Int64())
}

func TestLoadMissingConstantWithNoDefaultIsFatal(t *testing.T) {
	doc, err := ruledoc.Parse(`
constants:
  - code: MIN_CREDIT_SCORE
when:
  - "true"
then:
  - "set x = MIN_CREDIT_SCORE"
`)
	require.NoError(t, err)
	provider := NewStaticProvider(nil)
	_, err = Load(context.Background(), doc, provider)
	require.Error(t, err)
	var missingErr *MissingConstantError
	require.ErrorAs(t, err, &missingErr)
	assert.Contains(t, missingErr.Missing, "MIN_CREDIT_SCORE")
}

func TestLoadUndeclaredReferenceResolvesToNull(t *testing.T) {
	doc, err := ruledoc.Parse(`
when:
  - "true"
then:
  - "set x = SOME_REFERENCED_CONSTANT"
`)
	require.NoError(t, err)
	provider := NewStaticProvider(nil)
	resolved, err := Load(context.Background(), doc, provider)
	require.NoError(t, err)
	assert.True(t, resolved["SOME_REFERENCED_CONSTANT"].IsNull())
}

type flakyProvider struct {
	failuresLeft int
	inner        Provider
}

func (p *flakyProvider) GetConstantsByCodes(ctx context.Context, codes []string) (<-chan StoredConstant, error) {
	if p.failuresLeft > 0 {
		p.failuresLeft--
		return nil, assertErr
	}
	return p.inner.GetConstantsByCodes(ctx, codes)
}

var assertErr = &transientError{}

type transientError struct{}

func (e *transientError) Error() string { return "transient failure" }

func TestRetryingProviderRetriesOnTransientFailure(t *testing.T) {
	inner := NewStaticProvider(map[string]StoredConstant{
		"MIN_CREDIT_SCORE": {Code: "MIN_CREDIT_SCORE", CurrentValue: value.Int(700)},
	})
	flaky := &flakyProvider{failuresLeft: 2, inner: inner}
	retrying := NewRetryingProvider(flaky, 5, time.Millisecond, nil)

	ch, err := retrying.GetConstantsByCodes(context.Background(), []string{"MIN_CREDIT_SCORE"})
	require.NoError(t, err)
	var got []StoredConstant
	for sc := range ch {
		got = append(got, sc)
	}
	require.Len(t, got, 1)
	assert.Equal(t, int64(700), got[0].CurrentValue.AsNumber().Int64())
}
