// internal/adapters/out/memory/stock_memory_test.go
package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stockdom "attire/internal/domain/stock"
)

func TestStockReadMissingRowIsZero(t *testing.T) {
	s := NewStockLedgerMemory()

	n, err := s.Read(context.Background(), "tee-01", "M")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStockUpsertAndDelete(t *testing.T) {
	s := NewStockLedgerMemory()
	ctx := context.Background()

	row, err := s.Upsert(ctx, "tee-01", "M", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, row.Stock)

	// absolute overwrite, not additive
	row, err = s.Upsert(ctx, "tee-01", "M", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, row.Stock)

	require.NoError(t, s.Delete(ctx, "tee-01", "M"))
	n, err := s.Read(ctx, "tee-01", "M")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// deleting again is fine
	require.NoError(t, s.Delete(ctx, "tee-01", "M"))
}

func TestDecrementAllAtomicOnFailure(t *testing.T) {
	s := NewStockLedgerMemory()
	ctx := context.Background()

	_, err := s.Upsert(ctx, "tee-01", "M", 5)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, "tee-01", "L", 1)
	require.NoError(t, err)

	err = s.DecrementAll(ctx, []stockdom.Line{
		{ProductID: "tee-01", Size: "M", Qty: 2},
		{ProductID: "tee-01", Size: "L", Qty: 3},
	})

	var ins *stockdom.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, "L", ins.Size)
	assert.Equal(t, 3, ins.Requested)
	assert.Equal(t, 1, ins.Available)

	n, err := s.Read(ctx, "tee-01", "M")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	n, err = s.Read(ctx, "tee-01", "L")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDecrementAllMergesDuplicateLines(t *testing.T) {
	s := NewStockLedgerMemory()
	ctx := context.Background()

	_, err := s.Upsert(ctx, "tee-01", "M", 3)
	require.NoError(t, err)

	// merged qty is 4 > 3: must fail even though each line alone fits
	err = s.DecrementAll(ctx, []stockdom.Line{
		{ProductID: "tee-01", Size: "M", Qty: 2},
		{ProductID: "tee-01", Size: "M", Qty: 2},
	})
	var ins *stockdom.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 4, ins.Requested)

	n, err := s.Read(ctx, "tee-01", "M")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestDecrementAllUnknownRowAborts(t *testing.T) {
	s := NewStockLedgerMemory()
	ctx := context.Background()

	_, err := s.Upsert(ctx, "tee-01", "M", 5)
	require.NoError(t, err)

	err = s.DecrementAll(ctx, []stockdom.Line{
		{ProductID: "tee-01", Size: "M", Qty: 1},
		{ProductID: "ghost", Size: "M", Qty: 1},
	})
	var nf *stockdom.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost", nf.ProductID)

	n, err := s.Read(ctx, "tee-01", "M")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

// Two buyers race for the last unit: exactly one wins, stock never goes
// negative.
func TestDecrementConcurrentLastUnit(t *testing.T) {
	s := NewStockLedgerMemory()
	ctx := context.Background()

	_, err := s.Upsert(ctx, "tee-01", "M", 1)
	require.NoError(t, err)

	start := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = s.DecrementAll(ctx, []stockdom.Line{
				{ProductID: "tee-01", Size: "M", Qty: 1},
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		var ins *stockdom.InsufficientStockError
		require.ErrorAs(t, err, &ins)
		losses++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	n, err := s.Read(ctx, "tee-01", "M")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
