package engine

import "github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"

// EvaluationResult is the engine's wire contract (§6).
type EvaluationResult struct {
	Success                 bool                   `json:"success"`
	ConditionMet            bool                   `json:"condition_met"`
	OutputData              map[string]value.Value `json:"output_data"`
	Error                   string                 `json:"error,omitempty"`
	CircuitBreakerTriggered bool                   `json:"circuit_breaker_triggered"`
	CircuitBreakerMessage   string                 `json:"circuit_breaker_message,omitempty"`
	ExecutionTimeMs         int64                  `json:"execution_time_ms"`
	OperationID             string                 `json:"operation_id"`
}
