// internal/adapters/out/memory/stock_memory.go
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"attire/internal/domain/common"
	stockdom "attire/internal/domain/stock"
)

// StockLedgerMemory implements stock.Ledger in process memory. Used when no
// Firestore project is configured (local dev) and by tests.
//
// A single mutex spans the whole DecrementAll, so the all-or-nothing and
// non-negativity invariants hold under concurrent callers exactly as the
// transactional implementation guarantees them.
type StockLedgerMemory struct {
	mu   sync.Mutex
	rows map[string]stockdom.Row // key = stock.DocID(productId, size)
}

func NewStockLedgerMemory() *StockLedgerMemory {
	return &StockLedgerMemory{rows: map[string]stockdom.Row{}}
}

var _ stockdom.Ledger = (*StockLedgerMemory)(nil)

func (s *StockLedgerMemory) Read(_ context.Context, productID, size string) (int, error) {
	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return 0, &common.ValidationError{Reason: "productId and size are required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[stockdom.DocID(pid, sz)]
	if !ok {
		return 0, nil
	}
	return row.Stock, nil
}

func (s *StockLedgerMemory) ReadAllForProduct(_ context.Context, productID string) (map[string]int, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, &common.ValidationError{Reason: "productId is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]int{}
	for _, row := range s.rows {
		if row.ProductID == pid {
			out[row.Size] = row.Stock
		}
	}
	return out, nil
}

func (s *StockLedgerMemory) Upsert(_ context.Context, productID, size string, stock int) (stockdom.Row, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[stockdom.DocID(pid, sz)] = row
	return row, nil
}

func (s *StockLedgerMemory) Delete(_ context.Context, productID, size string) error {
	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return &common.ValidationError{Reason: "productId and size are required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, stockdom.DocID(pid, sz))
	return nil
}

// DecrementAll checks every line before writing any, under one lock.
func (s *StockLedgerMemory) DecrementAll(_ context.Context, lines []stockdom.Line) error {
	normalized, err := stockdom.NormalizeLines(lines)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// check phase
	for _, ln := range normalized {
		row, ok := s.rows[stockdom.DocID(ln.ProductID, ln.Size)]
		if !ok {
			return &stockdom.NotFoundError{ProductID: ln.ProductID, Size: ln.Size}
		}
		if row.Stock < ln.Qty {
			return &stockdom.InsufficientStockError{
				ProductID: ln.ProductID,
				Size:      ln.Size,
				Requested: ln.Qty,
				Available: row.Stock,
			}
		}
	}

	// write phase
	now := time.Now().UTC()
	for _, ln := range normalized {
		key := stockdom.DocID(ln.ProductID, ln.Size)
		row := s.rows[key]
		row.Stock -= ln.Qty
		row.UpdatedAt = now
		s.rows[key] = row
	}
	return nil
}
