// internal/application/usecase/stock_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	stockdom "attire/internal/domain/stock"
)

var ErrStockLedgerMissing = errors.New("stock_usecase: ledger is not configured")

// StockUsecase is the admin surface over the ledger: absolute upserts,
// explicit deletes, reads. Upserts are trusted input; they bypass the
// transaction and may set any non-negative value.
type StockUsecase struct {
	ledger stockdom.Ledger
}

func NewStockUsecase(ledger stockdom.Ledger) *StockUsecase {
	return &StockUsecase{ledger: ledger}
}

func (u *StockUsecase) Read(ctx context.Context, productID, size string) (int, error) {
	if u.ledger == nil {
		return 0, ErrStockLedgerMissing
	}
	return u.ledger.Read(ctx, strings.TrimSpace(productID), strings.TrimSpace(size))
}

func (u *StockUsecase) ReadAllForProduct(ctx context.Context, productID string) (map[string]int, error) {
	if u.ledger == nil {
		return nil, ErrStockLedgerMissing
	}
	return u.ledger.ReadAllForProduct(ctx, strings.TrimSpace(productID))
}

func (u *StockUsecase) Upsert(ctx context.Context, productID, size string, stock int) (stockdom.Row, error) {
	if u.ledger == nil {
		return stockdom.Row{}, ErrStockLedgerMissing
	}

	row, err := u.ledger.Upsert(ctx, productID, size, stock)
	if err != nil {
		return stockdom.Row{}, err
	}
	log.Printf("[stock_uc] upsert productId=%s size=%s stock=%d", row.ProductID, row.Size, row.Stock)
	return row, nil
}

func (u *StockUsecase) Delete(ctx context.Context, productID, size string) error {
	if u.ledger == nil {
		return ErrStockLedgerMissing
	}

	if err := u.ledger.Delete(ctx, productID, size); err != nil {
		return err
	}
	log.Printf("[stock_uc] delete productId=%s size=%s", strings.TrimSpace(productID), strings.TrimSpace(size))
	return nil
}
