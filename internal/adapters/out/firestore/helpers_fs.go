// internal/adapters/out/firestore/helpers_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"attire/internal/domain/common"
)

// mapPersistenceErr tags errors that mean "the store could not be reached" so
// callers can branch to the local-mirror path. Everything else passes through.
func mapPersistenceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &common.PersistenceUnavailableError{Op: op, Err: err}
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return &common.PersistenceUnavailableError{Op: op, Err: err}
	}
	return err
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAborted(err error) bool {
	return status.Code(err) == codes.Aborted
}

// ----------------------------
// Loose decode helpers
// ----------------------------
//
// Documents written by the previous storefront do not all share one shape, so
// snapshot data is read field by field instead of DataTo into a struct.

func asString(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

func asInt(v any) int {
	if v == nil {
		return 0
	}
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		tt := strings.TrimSpace(t)
		if tt == "" {
			return 0
		}
		var n int
		_, _ = fmt.Sscanf(tt, "%d", &n)
		return n
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	if v == nil {
		return 0
	}
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return int64(asInt(v))
	}
}

func asStrings(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s := strings.TrimSpace(asString(e)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asTime returns (time, ok)
func asTime(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	return time.Time{}, false
}
