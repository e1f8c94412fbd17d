package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
)

func TestWithRetryRecoversFromConflicts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), zap.NewNop(), "test.op", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.NewConcurrencyConflict("stream-1")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), zap.NewNop(), "test.op", func(ctx context.Context) error {
		attempts++
		return errors.NewConcurrencyConflict("stream-1")
	})
	require.Error(t, err)
	assert.True(t, errors.IsConcurrencyConflict(err))
	assert.Equal(t, maxAttempts, attempts)
}

func TestWithRetryDoesNotRetryBusinessErrors(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), zap.NewNop(), "test.op", func(ctx context.Context) error {
		attempts++
		return errors.NewInvariantViolation("NOT_DRAFT", "wrong state")
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
	assert.Equal(t, 1, attempts)
}
