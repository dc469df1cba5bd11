package judge

import (
	"context"
	"errors"

	"github.com/programme-lv/arena/srvcerror"
)

// RetryConfig controls transport-level retries inside a judge client
// wrapper. Rejections (the judge answered and said no) are never retried;
// ShouldRetry decides for everything else. The engine itself never retries
// a finalized submission, so this bounds the only retry loop in the system.
type RetryConfig struct {
	MaxAttempts int
	ShouldRetry func(error) bool
}

// WrapRetry wraps a judge client with deterministic, error-only retries.
func WrapRetry(client Client, cfg RetryConfig) Client {
	if client == nil {
		return nil
	}
	return &retryWrapper{
		next: client,
		cfg:  cfg,
	}
}

type retryWrapper struct {
	next Client
	cfg  RetryConfig
}

func (w *retryWrapper) Judge(ctx context.Context, req Request) ([]TestResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	attempts := w.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		results, err := w.next.Judge(ctx, req)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if attempt == attempts || !w.shouldRetry(ctx, err) {
			break
		}
	}
	return nil, lastErr
}

func (w *retryWrapper) shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var svcErr *srvcerror.Error
	if errors.As(err, &svcErr) && svcErr.ErrorCode() == ErrCodeJudgeRejected {
		return false
	}
	if w.cfg.ShouldRetry != nil {
		return w.cfg.ShouldRetry(err)
	}
	return true
}
