package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ast"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/builtins"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/constants"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/evalctx"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/evaluator"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ruledoc"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/value"
)

// Engine drives the full evaluation pipeline (§4.9): parse (cached),
// scan/load constants, populate context, run sub-rules or the top-level
// when/then/else, project outputs.
type Engine struct {
	cfg      Config
	registry *builtins.Registry
	cache    *parseCache
}

// New builds an Engine from cfg, filling in defaults for any zero-valued
// field (§9 Design Notes: explicit Config/provider-set value).
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:      cfg,
		registry: builtins.NewDefaultRegistry(cfg.RestProvider, cfg.JSONPathProvider),
		cache:    newParseCache(cfg.CacheCapacity),
	}
}

// Evaluate runs the full pipeline blocking (§6 evaluate(yaml_text,
// input_map) -> EvaluationResult).
func (e *Engine) Evaluate(ctx context.Context, yamlText string, inputs map[string]value.Value) EvaluationResult {
	start := time.Now()
	operationID := uuid.NewString()

	doc, err := e.cache.getOrParse(yamlText)
	if err != nil {
		return failureResult(operationID, start, err)
	}

	for _, w := range doc.Warnings {
		e.cfg.Logger.WithField("operation_id", operationID).Warn(w)
	}

	resolvedConstants, err := e.loadConstants(ctx, doc)
	if err != nil {
		return failureResult(operationID, start, err)
	}

	evalCtx := evalctx.New(inputs, resolvedConstants)
	env := &builtins.Env{
		Context:     ctx,
		Logger:      e.cfg.Logger.WithField("operation_id", operationID),
		JSONPath:    e.cfg.JSONPathProvider,
		Rest:        e.cfg.RestProvider,
		OperationID: operationID,
	}
	ev := evaluator.New(evalCtx, e.registry, env, e.cfg.RestProvider, e.cfg.JSONPathProvider, e.cfg.RestTimeout)

	conditionMet := e.run(ev, evalCtx, doc)

	return EvaluationResult{
		Success:                 true,
		ConditionMet:            conditionMet,
		OutputData:              projectOutputs(doc, evalCtx),
		CircuitBreakerTriggered: evalCtx.CircuitBreakerTriggered(),
		CircuitBreakerMessage:   evalCtx.CircuitBreakerMessage(),
		ExecutionTimeMs:         time.Since(start).Milliseconds(),
		OperationID:             operationID,
	}
}

// EvaluateAsync runs Evaluate on its own goroutine and returns a channel
// delivering exactly one result (§5: blocking API and async API share the
// same internal sequential evaluator).
func (e *Engine) EvaluateAsync(ctx context.Context, yamlText string, inputs map[string]value.Value) <-chan EvaluationResult {
	out := make(chan EvaluationResult, 1)
	go func() {
		defer close(out)
		out <- e.Evaluate(ctx, yamlText, inputs)
	}()
	return out
}

// run drives either the Multi-shape sub-rule list or the single top-level
// when/then/else (§4.9 steps 7-8), honoring the circuit breaker between
// sub-rules (§3: "circuit_breaker halts subsequent actions and subsequent
// sub-rules"). It returns whether the final (or only) condition was met.
func (e *Engine) run(ev *evaluator.Evaluator, evalCtx *evalctx.Context, doc *ruledoc.Document) bool {
	if doc.HasSubRules() {
		conditionMet := false
		for _, sr := range doc.Rules {
			if evalCtx.CircuitBreakerTriggered() {
				break
			}
			conditionMet = runBranch(ev, sr.When, sr.Then, sr.Else)
		}
		return conditionMet
	}
	return runBranch(ev, doc.When, doc.Then, doc.Else)
}

func runBranch(ev *evaluator.Evaluator, when ast.Condition, then, els []ast.Action) bool {
	met := ev.EvalCondition(when)
	if met {
		ev.ExecuteActions(then)
	} else {
		ev.ExecuteActions(els)
	}
	return met
}

// loadConstants scans, fetches (with retry), and resolves the document's
// referenced/declared constants (§4.9 steps 2-5).
func (e *Engine) loadConstants(ctx context.Context, doc *ruledoc.Document) (map[string]value.Value, error) {
	provider := constants.NewRetryingProvider(e.cfg.ConstantProvider, e.cfg.ConstantRetries, e.cfg.ConstantRetryBaseDelay, e.cfg.Logger)
	return constants.Load(ctx, doc, provider)
}

func failureResult(operationID string, start time.Time, err error) EvaluationResult {
	return EvaluationResult{
		Success:         false,
		Error:           err.Error(),
		OutputData:      map[string]value.Value{},
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		OperationID:     operationID,
	}
}

func projectOutputs(doc *ruledoc.Document, ctx *evalctx.Context) map[string]value.Value {
	out := make(map[string]value.Value, len(doc.Outputs))
	for _, decl := range doc.Outputs {
		out[decl.Name] = ctx.Get(decl.Name)
	}
	return out
}
