package constants

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

// RetryingProvider wraps any Provider and retries a failed fetch with
// exponential backoff (§5 "Constant loading takes a provider-defined
// timeout"), using go-retry's exponential backoff. Only transport-level
// errors trigger a retry; a provider
// returning a channel with missing codes is not itself retried — missing
// codes are resolved against inline defaults by the Loader, not here.
type RetryingProvider struct {
	Inner      Provider
	MaxRetries uint64
	BaseDelay  time.Duration
	Logger     *logrus.Entry
}

// NewRetryingProvider wraps inner with the given retry budget.
func NewRetryingProvider(inner Provider, maxRetries uint64, baseDelay time.Duration, logger *logrus.Entry) *RetryingProvider {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &RetryingProvider{Inner: inner, MaxRetries: maxRetries, BaseDelay: baseDelay, Logger: logger}
}

func (p *RetryingProvider) GetConstantsByCodes(ctx context.Context, codes []string) (<-chan StoredConstant, error) {
	backoff, err := retry.NewExponential(p.BaseDelay)
	if err != nil {
		return nil, err
	}
	backoff = retry.WithMaxRetries(p.MaxRetries, backoff)

	var result <-chan StoredConstant
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		ch, err := p.Inner.GetConstantsByCodes(ctx, codes)
		if err != nil {
			p.Logger.WithError(err).Warn("constant provider fetch failed, retrying")
			return retry.RetryableError(err)
		}
		result = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
