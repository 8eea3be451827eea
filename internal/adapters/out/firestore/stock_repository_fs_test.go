// internal/adapters/out/firestore/stock_repository_fs_test.go
package firestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"attire/internal/domain/common"
	stockdom "attire/internal/domain/stock"
)

func abortedErr() error {
	return status.Error(codes.Aborted, "transaction contention")
}

func TestConflictRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := runWithConflictRetry(context.Background(), 4, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestConflictRetryRecoversAfterConflict(t *testing.T) {
	calls := 0
	err := runWithConflictRetry(context.Background(), 4, func() error {
		calls++
		if calls == 1 {
			return abortedErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestConflictRetryExhaustsIntoConflictError(t *testing.T) {
	const attempts = 3

	calls := 0
	start := time.Now()
	err := runWithConflictRetry(context.Background(), attempts, func() error {
		calls++
		return abortedErr()
	})
	elapsed := time.Since(start)

	var tc *stockdom.TransactionConflictError
	require.ErrorAs(t, err, &tc)
	assert.Equal(t, attempts, tc.Attempts)
	assert.Equal(t, attempts, calls)

	// two backoff sleeps happened between the three attempts: base + 2*base
	assert.GreaterOrEqual(t, elapsed, 3*decrementBackoffBase-10*time.Millisecond)
}

func TestConflictRetryStopsOnNonAbortedError(t *testing.T) {
	want := &stockdom.InsufficientStockError{ProductID: "tee-01", Size: "M", Requested: 2, Available: 1}

	calls := 0
	err := runWithConflictRetry(context.Background(), 4, func() error {
		calls++
		return want
	})

	var ins *stockdom.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 1, calls)
}

func TestConflictRetryMapsUnreachableStore(t *testing.T) {
	calls := 0
	err := runWithConflictRetry(context.Background(), 4, func() error {
		calls++
		return status.Error(codes.Unavailable, "store down")
	})

	var ue *common.PersistenceUnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 1, calls)
}

func TestConflictRetryHonorsContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := runWithConflictRetry(ctx, 4, func() error {
		calls++
		cancel()
		return abortedErr()
	})

	var ue *common.PersistenceUnavailableError
	require.ErrorAs(t, err, &ue)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}
