// Package service hosts the command, projection and query layers along with
// plumbing shared between them.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
)

const (
	maxAttempts  = 3
	initialDelay = 25 * time.Millisecond
)

// WithRetry runs fn, retrying only on optimistic concurrency conflicts. The
// delay doubles between attempts. fn must reload the aggregate itself so each
// attempt works from the latest stream revision.
func WithRetry(ctx context.Context, logger *zap.Logger, operation string, fn func(context.Context) error) error {
	delay := initialDelay

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.IsConcurrencyConflict(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		telemetry.ConcurrencyRetriesTotal.WithLabelValues(operation).Inc()
		logger.Warn("concurrency conflict, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return err
}
