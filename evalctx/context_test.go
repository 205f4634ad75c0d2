package evalctx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

func TestGetPriorityComputedOverInputOverConstant(t *testing.T) {
	c := New(
		map[string]value.Value{"x": value.Text("input")},
		map[string]value.Value{"x": value.Text("constant")},
	)
	assert.Equal(t, "input", c.Get("x").AsText())
	assert.Equal(t, SourceInput, c.SourceOf("x"))

	c.SetComputed("x", value.Text("computed"))
	assert.Equal(t, "computed", c.Get("x").AsText())
	assert.Equal(t, SourceComputed, c.SourceOf("x"))
}

func TestGetMissingReturnsNull(t *testing.T) {
	c := New(nil, nil)
	assert.True(t, c.Get("missing").IsNull())
	assert.Equal(t, SourceNotFound, c.SourceOf("missing"))
}

func TestSetComputedRejectsEmptyName(t *testing.T) {
	c := New(nil, nil)
	c.SetComputed("", value.Text("x"))
	assert.Equal(t, SourceNotFound, c.SourceOf(""))
}

func TestCircuitBreaker(t *testing.T) {
	c := New(nil, nil)
	assert.False(t, c.CircuitBreakerTriggered())
	c.TriggerCircuitBreaker("stop now")
	assert.True(t, c.CircuitBreakerTriggered())
	assert.Equal(t, "stop now", c.CircuitBreakerMessage())
}

func TestCopyIsDeepAndIndependent(t *testing.T) {
	c := New(map[string]value.Value{"list": value.List([]value.Value{value.Int(1), value.Int(2)})}, nil)
	clone := c.Copy()
	clone.SetComputed("list", value.List([]value.Value{value.Int(99)}))
	assert.Equal(t, int64(1), c.Get("list").AsList()[0].AsNumber().Int64())
	assert.Equal(t, int64(99), clone.Get("list").AsList()[0].AsNumber().Int64())
}

func TestComputedReturnsDefensiveCopy(t *testing.T) {
	c := New(nil, nil)
	c.SetComputed("a", value.Int(1))
	snapshot := c.Computed()
	snapshot["a"] = value.Int(999)
	assert.Equal(t, int64(1), c.Get("a").AsNumber().Int64())
}
