package retry

import (
	"context"
	"time"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Executor runs operations, retrying transient failures.
// It is safe for concurrent use.
type Executor struct {
	classifier sprocgen.ErrorClassifier
	strategy   sprocgen.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates an Executor.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier sprocgen.ErrorClassifier, strategy sprocgen.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// NewDefaultExecutor creates an Executor classifying PostgreSQL errors with
// sprocgen.DefaultRetryMaxAttempts retries between DefaultRetryInitialDelay
// and DefaultRetryMaxDelay apart.
func NewDefaultExecutor() *Executor {
	return NewExecutor(
		NewPostgreSQLErrorClassifier(),
		NewExponentialBackoff(sprocgen.DefaultRetryMaxAttempts,
			WithInitialDelay(sprocgen.DefaultRetryInitialDelay),
			WithMaxDelay(sprocgen.DefaultRetryMaxDelay),
		),
	)
}

// WithOnRetry returns a copy of the executor calling callback before every retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails with a fatal error or the
// strategy runs out of attempts. It returns the error of the last attempt,
// or the context error if ctx is done while waiting.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	maxAttempts := e.strategy.MaxAttempts()

	err := operation(ctx)
	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
