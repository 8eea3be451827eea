// internal/domain/stock/repository_port.go
package stock

import "context"

// Ledger is the persistence port for stock rows.
//
// Read policies:
//   - Read returns 0 (not an error) when no row exists: an untracked size is
//     "zero on display". DecrementAll is stricter and aborts with
//     NotFoundError, so checkout never succeeds against an untracked size.
//
// DecrementAll must be all-or-nothing: either every line's row is reduced by
// exactly its qty, or no row changes. Atomicity comes from the backing store's
// transaction primitive only; implementations must never fall back to
// sequential unguarded writes.
type Ledger interface {
	Read(ctx context.Context, productID, size string) (int, error)
	ReadAllForProduct(ctx context.Context, productID string) (map[string]int, error)
	Upsert(ctx context.Context, productID, size string, stock int) (Row, error)
	Delete(ctx context.Context, productID, size string) error
	DecrementAll(ctx context.Context, lines []Line) error
}
