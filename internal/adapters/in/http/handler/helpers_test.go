// internal/adapters/in/http/handler/helpers_test.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attire/internal/application/usecase"
	"attire/internal/domain/common"
	stockdom "attire/internal/domain/stock"
)

func callWriteDomainErr(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	writeDomainErr(rec, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

// A reconciliation failure must stay an opaque 500 even when its cause is an
// unreachable store: a "try again" status here would decrement stock twice.
func TestWriteDomainErrReconciliationNeverRetryable(t *testing.T) {
	code, body := callWriteDomainErr(t, &usecase.ReconciliationRequiredError{
		OrderID: "o-1",
		UserID:  "user-1",
		Err: &common.PersistenceUnavailableError{
			Op:  "order create",
			Err: errors.New("remote store down"),
		},
	})

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "order_processing_error", body["error"])
}

func TestWriteDomainErrMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "validation",
			err:      &common.ValidationError{Reason: "cart is empty"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "untracked row",
			err:      &stockdom.NotFoundError{ProductID: "tee-01", Size: "M"},
			wantCode: http.StatusConflict,
			wantErr:  "unavailable",
		},
		{
			name:     "insufficient stock",
			err:      &stockdom.InsufficientStockError{ProductID: "tee-01", Size: "M", Requested: 2, Available: 1},
			wantCode: http.StatusConflict,
			wantErr:  "insufficient_stock",
		},
		{
			name:     "conflict retry exhausted",
			err:      &stockdom.TransactionConflictError{Attempts: 4},
			wantCode: http.StatusConflict,
			wantErr:  "conflict_retry",
		},
		{
			name:     "store unavailable outside checkout",
			err:      &common.PersistenceUnavailableError{Op: "cart get", Err: errors.New("down")},
			wantCode: http.StatusServiceUnavailable,
			wantErr:  "store_unavailable",
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantErr:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := callWriteDomainErr(t, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}
