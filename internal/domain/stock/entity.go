// internal/domain/stock/entity.go
package stock

import (
	"sort"
	"strings"
	"time"

	"attire/internal/domain/common"
)

// Row represents "per-(product, size) stock" as one document.
//   - docId = {productId}_{size}  (underscore concatenation, must not change:
//     existing data is addressed this way)
//   - Stock is an absolute non-negative count
//
// Rows are created by admin upsert, mutated by admin upsert or by checkout
// decrement, and deleted only by explicit admin delete.
type Row struct {
	ProductID string    `json:"productId" firestore:"productId"`
	Size      string    `json:"size" firestore:"size"`
	Stock     int       `json:"stock" firestore:"stock"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// DocID builds the document key for a (productId, size) pair.
func DocID(productID, size string) string {
	return strings.TrimSpace(productID) + "_" + strings.TrimSpace(size)
}

// Line is one line of a decrement request: "take Qty units of (product, size)".
// A decrement request is ephemeral and never persisted.
type Line struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

// NormalizeLines trims ids, drops nothing silently: an empty id or non-positive
// qty fails the whole request. Duplicate (productId, size) pairs are merged by
// summing qty, and the result is sorted for stable reads inside a transaction.
func NormalizeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, &common.ValidationError{Reason: "decrement request has no lines"}
	}

	type key struct {
		pid  string
		size string
	}
	m := map[key]int{}
	for _, ln := range lines {
		pid := strings.TrimSpace(ln.ProductID)
		size := strings.TrimSpace(ln.Size)
		if pid == "" || size == "" {
			return nil, &common.ValidationError{Reason: "decrement line is missing productId or size"}
		}
		if ln.Qty <= 0 {
			return nil, &common.ValidationError{Reason: "decrement line qty must be >= 1"}
		}
		m[key{pid: pid, size: size}] += ln.Qty
	}

	keys := make([]key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pid != keys[j].pid {
			return keys[i].pid < keys[j].pid
		}
		return keys[i].size < keys[j].size
	})

	out := make([]Line, 0, len(keys))
	for _, k := range keys {
		out = append(out, Line{ProductID: k.pid, Size: k.size, Qty: m[k]})
	}
	return out, nil
}
