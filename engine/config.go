// Package engine implements the rule orchestrator (§4.9, §5, §6): parse
// (cached), scan/load constants, populate the evaluation context, drive
// sub-rules or the single top-level when/then/else, and project outputs
// into an EvaluationResult.
package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/builtins"
	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/constants"
)

const (
	// DefaultCacheCapacity bounds the parse cache's LRU (§5 "bounded
	// capacity and LRU eviction").
	DefaultCacheCapacity = 256

	// DefaultRestTimeout is the per-call REST timeout (§5).
	DefaultRestTimeout = 30 * time.Second

	// DefaultConstantRetries bounds how many times a constant fetch is
	// retried before the loader gives up (§4.11 RetryingProvider).
	DefaultConstantRetries = 3

	// DefaultConstantRetryBaseDelay is the exponential backoff base used
	// when wrapping a Config's ConstantProvider in a RetryingProvider.
	DefaultConstantRetryBaseDelay = 50 * time.Millisecond
)

// Config is the explicit provider-set/value every Engine is constructed
// from — replacing implicit global injection with one plain struct
// (§9 Design Notes: "global bean injection becomes an explicit Config/
// provider-set value").
type Config struct {
	ConstantProvider constants.Provider
	RestProvider     builtins.RestProvider
	JSONPathProvider builtins.JSONPathProvider
	Logger           *logrus.Entry

	CacheCapacity int
	RestTimeout   time.Duration

	ConstantRetries        uint64
	ConstantRetryBaseDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.New())
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = DefaultCacheCapacity
	}
	if c.RestTimeout <= 0 {
		c.RestTimeout = DefaultRestTimeout
	}
	if c.ConstantRetries == 0 {
		c.ConstantRetries = DefaultConstantRetries
	}
	if c.ConstantRetryBaseDelay <= 0 {
		c.ConstantRetryBaseDelay = DefaultConstantRetryBaseDelay
	}
	if c.RestProvider == nil {
		c.RestProvider = builtins.NewNetHTTPRestProvider()
	}
	if c.JSONPathProvider == nil {
		c.JSONPathProvider = builtins.MapJSONPathProvider{}
	}
	if c.ConstantProvider == nil {
		c.ConstantProvider = constants.NewStaticProvider(nil)
	}
	return c
}
