package evaluator

import (
	"context"
	"regexp"
	"sync"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/builtins"
)

var regexCache sync.Map // string -> *regexp.Regexp

// compileRegexCached compiles pattern once per process and reuses it; the
// `matches` predicate is expected to run the same pattern across many
// rows of input within a single evaluation.
func compileRegexCached(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCache.Store(pattern, re)
	return re, nil
}

func callContext(env *builtins.Env) context.Context {
	if env != nil && env.Context != nil {
		return env.Context
	}
	return context.Background()
}
