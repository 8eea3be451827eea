// internal/adapters/out/firestore/stock_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"attire/internal/domain/common"
	stockdom "attire/internal/domain/stock"
)

const (
	defaultDecrementAttempts = 4
	decrementBackoffBase     = 50 * time.Millisecond
)

// StockRepositoryFS implements stock.Ledger with Firestore.
//
// Collection design:
// - collection: stock
// - docId: {productId}_{size}  (the key existing data is addressed by)
// - fields: productId, size, stock, updatedAt
type StockRepositoryFS struct {
	Client *firestore.Client

	// MaxAttempts bounds the DecrementAll conflict-retry loop.
	// <= 0 means defaultDecrementAttempts.
	MaxAttempts int
}

func NewStockRepositoryFS(client *firestore.Client) *StockRepositoryFS {
	return &StockRepositoryFS{Client: client}
}

var _ stockdom.Ledger = (*StockRepositoryFS)(nil)

func (r *StockRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("stock")
}

// Read returns the stock count for (productId, size).
// Absence means "not tracked" and reads as 0, not as an error.
func (r *StockRepositoryFS) Read(ctx context.Context, productID, size string) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("stock_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return 0, &common.ValidationError{Reason: "productId and size are required"}
	}

	snap, err := r.col().Doc(stockdom.DocID(pid, sz)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, mapPersistenceErr("stock read", err)
	}
	return asInt(snap.Data()["stock"]), nil
}

// ReadAllForProduct returns size -> stock for every tracked size of productId.
// No tracked sizes yields an empty map.
func (r *StockRepositoryFS) ReadAllForProduct(ctx context.Context, productID string) (map[string]int, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("stock_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, &common.ValidationError{Reason: "productId is required"}
	}

	it := r.col().Where("productId", "==", pid).Documents(ctx)
	defer it.Stop()

	out := map[string]int{}
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapPersistenceErr("stock read-all", err)
		}
		data := doc.Data()
		sz := strings.TrimSpace(asString(data["size"]))
		if sz == "" {
			continue
		}
		out[sz] = asInt(data["stock"])
	}
	return out, nil
}

// Upsert sets an absolute stock value. Admin-only and unconditional; the
// non-negativity invariant is enforced here by input validation, not by a
// transaction.
func (r *StockRepositoryFS) Upsert(ctx context.Context, productID, size string, stock int) (stockdom.Row, error) {
	if r == nil || r.Client == nil {
		return stockdom.Row{}, errors.New("stock_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return stockdom.Row{}, &common.ValidationError{Reason: "productId and size are required"}
	}
	if stock < 0 {
		return stockdom.Row{}, &common.ValidationError{Reason: "stock must be >= 0"}
	}

	row := stockdom.Row{
		ProductID: pid,
		Size:      sz,
		Stock:     stock,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := r.col().Doc(stockdom.DocID(pid, sz)).Set(ctx, rowDocData(row))
	if err != nil {
		return stockdom.Row{}, mapPersistenceErr("stock upsert", err)
	}
	return row, nil
}

// Delete removes a stock row. Idempotent: deleting an absent row succeeds.
func (r *StockRepositoryFS) Delete(ctx context.Context, productID, size string) error {
	if r == nil || r.Client == nil {
		return errors.New("stock_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return &common.ValidationError{Reason: "productId and size are required"}
	}

	_, err := r.col().Doc(stockdom.DocID(pid, sz)).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return mapPersistenceErr("stock delete", err)
	}
	return nil
}

// DecrementAll applies every line or none, inside one Firestore transaction:
//
//  1. read every referenced row (reads must precede writes in a Firestore
//     transaction, which matches the algorithm anyway)
//  2. missing row           -> abort with NotFoundError
//  3. stock < requested qty -> abort with InsufficientStockError
//  4. write old-qty for every row, commit
//
// A commit-time conflict (another transaction touched one of the rows between
// read and commit) surfaces as Aborted; the whole transaction is retried from
// a fresh read with exponential backoff, a bounded number of times. The
// client's own retry is disabled (MaxAttempts(1)) so the bound and backoff
// live in one place.
func (r *StockRepositoryFS) DecrementAll(ctx context.Context, lines []stockdom.Line) error {
	if r == nil || r.Client == nil {
		return errors.New("stock_repository_fs: firestore client is nil")
	}

	normalized, err := stockdom.NormalizeLines(lines)
	if err != nil {
		return err
	}

	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = defaultDecrementAttempts
	}

	return runWithConflictRetry(ctx, attempts, func() error {
		return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			return r.decrementInTx(tx, normalized)
		}, firestore.MaxAttempts(1))
	})
}

// runWithConflictRetry runs fn until it succeeds, fails with anything other
// than Aborted, or the attempt budget runs out. Aborted retries back off
// exponentially; exhaustion surfaces as TransactionConflictError.
func runWithConflictRetry(ctx context.Context, attempts int, fn func() error) error {
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isAborted(err) {
			// Checks failed or the store is down; retrying cannot help.
			return mapPersistenceErr("stock decrement", err)
		}
		if attempt < attempts {
			if werr := sleepBackoff(ctx, attempt); werr != nil {
				return mapPersistenceErr("stock decrement", werr)
			}
		}
	}

	return &stockdom.TransactionConflictError{Attempts: attempts}
}

func (r *StockRepositoryFS) decrementInTx(tx *firestore.Transaction, lines []stockdom.Line) error {
	now := time.Now().UTC()

	type pending struct {
		ref *firestore.DocumentRef
		row stockdom.Row
	}
	writes := make([]pending, 0, len(lines))

	// Read phase: all rows, all checks.
	for _, ln := range lines {
		ref := r.col().Doc(stockdom.DocID(ln.ProductID, ln.Size))
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return &stockdom.NotFoundError{ProductID: ln.ProductID, Size: ln.Size}
			}
			return err
		}

		available := asInt(snap.Data()["stock"])
		if available < ln.Qty {
			return &stockdom.InsufficientStockError{
				ProductID: ln.ProductID,
				Size:      ln.Size,
				Requested: ln.Qty,
				Available: available,
			}
		}

		writes = append(writes, pending{
			ref: ref,
			row: stockdom.Row{
				ProductID: ln.ProductID,
				Size:      ln.Size,
				Stock:     available - ln.Qty,
				UpdatedAt: now,
			},
		})
	}

	// Write phase: only reached when every check passed.
	for _, w := range writes {
		if err := tx.Set(w.ref, rowDocData(w.row)); err != nil {
			return err
		}
	}
	return nil
}

// sleepBackoff waits decrementBackoffBase * 2^(attempt-1), or until ctx ends.
func sleepBackoff(ctx context.Context, attempt int) error {
	d := decrementBackoffBase << (attempt - 1)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func rowDocData(row stockdom.Row) map[string]any {
	return map[string]any{
		"productId": row.ProductID,
		"size":      row.Size,
		"stock":     row.Stock,
		"updatedAt": row.UpdatedAt,
	}
}
