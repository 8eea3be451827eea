// internal/adapters/out/sqlite/cart_mirror_sqlite_test.go
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "attire/internal/domain/cart"
)

func openTestMirror(t *testing.T) *CartMirrorSQLite {
	t.Helper()
	m, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func sampleCart(t *testing.T) *cartdom.Cart {
	t.Helper()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c, err := cartdom.NewCart("user-1", now)
	require.NoError(t, err)
	require.NoError(t, c.Add(cartdom.ProductSnapshot{
		ProductID: "tee-01",
		Name:      "Logo Tee",
		Sizes:     []string{"S", "M"},
		Price:     500,
	}, "M", "black", 2, now))
	return c
}

func TestMirrorGetMissingReturnsNil(t *testing.T) {
	m := openTestMirror(t)

	c, err := m.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestMirrorPutGetRoundtrip(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	c := sampleCart(t)
	require.NoError(t, m.Put(ctx, c))

	got, err := m.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "tee-01", got.Items[0].Product.ProductID)
	assert.Equal(t, 2, got.Items[0].Qty)
	assert.EqualValues(t, 1000, got.Total)
}

func TestMirrorPutOverwrites(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	c := sampleCart(t)
	require.NoError(t, m.Put(ctx, c))

	c.Clear(time.Now().UTC())
	require.NoError(t, m.Put(ctx, c))

	got, err := m.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Items)
	assert.EqualValues(t, 0, got.Total)
}

func TestMirrorDeleteIdempotent(t *testing.T) {
	m := openTestMirror(t)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, sampleCart(t)))
	require.NoError(t, m.Delete(ctx, "user-1"))

	got, err := m.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, m.Delete(ctx, "user-1"))
}
