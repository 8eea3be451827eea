// internal/domain/stock/errors.go
package stock

import "fmt"

// NotFoundError signals that a decrement referenced a (product, size) with no
// tracked stock row. Fatal for that checkout attempt.
type NotFoundError struct {
	ProductID string
	Size      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stock: no stock row for %s size %s", e.ProductID, e.Size)
}

// InsufficientStockError carries enough detail for the caller to say which
// line is short. Fatal for that checkout attempt.
type InsufficientStockError struct {
	ProductID string
	Size      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock: insufficient stock for %s size %s: requested %d, available %d",
		e.ProductID, e.Size, e.Requested, e.Available)
}

// TransactionConflictError is surfaced after the bounded conflict-retry loop
// is exhausted. Transient: the caller may offer "try again".
type TransactionConflictError struct {
	Attempts int
}

func (e *TransactionConflictError) Error() string {
	return fmt.Sprintf("stock: decrement transaction conflicted after %d attempts", e.Attempts)
}
