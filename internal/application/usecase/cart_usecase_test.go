// internal/application/usecase/cart_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attire/internal/adapters/out/memory"
)

func newCartEnv() (*CartUsecase, *memory.CartRemoteMemory, *mapMirror) {
	remote := memory.NewCartRemoteMemory()
	mirror := newMapMirror()
	uc := NewCartUsecaseWithClock(remote, mirror, fixedClock{t: testNow})
	return uc, remote, mirror
}

func TestCartLoadCreatesEmptyCart(t *testing.T) {
	uc, _, _ := newCartEnv()

	res, err := uc.Load(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "user-1", res.Cart.ID)
	assert.Empty(t, res.Cart.Items)
}

func TestCartAddWritesThroughToBothStores(t *testing.T) {
	uc, remote, mirror := newCartEnv()
	ctx := context.Background()

	res, err := uc.Add(ctx, "user-1", teeSnapshot(), "M", "black", 2)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.EqualValues(t, 1000, res.Cart.Total)

	got, err := remote.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 1)

	shadow, err := mirror.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, shadow)
	assert.Equal(t, got.Total, shadow.Total)
}

func TestCartRemoteWinsOverMirror(t *testing.T) {
	uc, remote, mirror := newCartEnv()
	ctx := context.Background()

	// remote has the tee, mirror has a stale cap-only cart
	_, err := uc.Add(ctx, "user-1", teeSnapshot(), "M", "black", 1)
	require.NoError(t, err)

	stale, err := remote.Get(ctx, "user-1")
	require.NoError(t, err)
	stale.Clear(testNow)
	require.NoError(t, stale.Add(capSnapshot(), "F", "", 1, testNow))
	require.NoError(t, mirror.Put(ctx, stale))

	res, err := uc.Load(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, "tee-01", res.Cart.Items[0].Product.ProductID)
}

func TestCartSeedsRemoteFromMirror(t *testing.T) {
	uc, _, mirror := newCartEnv()
	ctx := context.Background()

	// mirror holds a cart from a previous degraded session; remote has none
	_, err := uc.Add(ctx, "user-1", teeSnapshot(), "M", "black", 1)
	require.NoError(t, err)
	mirrored, err := mirror.Get(ctx, "user-1")
	require.NoError(t, err)

	remote2 := memory.NewCartRemoteMemory()
	uc2 := NewCartUsecaseWithClock(remote2, mirror, fixedClock{t: testNow})

	res, err := uc2.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, mirrored.Total, res.Cart.Total)

	// the remote document is authoritative from now on
	seeded, err := remote2.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, seeded)
	assert.Equal(t, mirrored.Total, seeded.Total)
}

func TestCartDegradesWhenRemoteUnavailable(t *testing.T) {
	uc, remote, mirror := newCartEnv()
	ctx := context.Background()

	_, err := uc.Add(ctx, "user-1", teeSnapshot(), "M", "black", 1)
	require.NoError(t, err)

	remote.SetUnavailable(true)

	res, err := uc.Add(ctx, "user-1", capSnapshot(), "F", "", 1)
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Cart.Items, 2)

	// the mutation landed in the mirror even though the remote write deferred
	shadow, err := mirror.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, shadow.Items, 2)
}

func TestCartFailsWhenBothStoresReject(t *testing.T) {
	uc, remote, mirror := newCartEnv()
	ctx := context.Background()

	remote.SetUnavailable(true)
	mirror.failPuts = true

	_, err := uc.Add(ctx, "user-1", teeSnapshot(), "M", "black", 1)
	assert.Error(t, err)
}

func TestCartMirrorFailureAloneDoesNotFailMutation(t *testing.T) {
	uc, _, mirror := newCartEnv()
	ctx := context.Background()

	mirror.failPuts = true

	res, err := uc.Add(ctx, "user-1", teeSnapshot(), "M", "black", 1)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
}

func TestCartClearIdempotentAtUsecaseLevel(t *testing.T) {
	uc, _, _ := newCartEnv()
	ctx := context.Background()

	_, err := uc.Add(ctx, "user-1", teeSnapshot(), "M", "black", 1)
	require.NoError(t, err)

	res, err := uc.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, res.Cart.Items)

	res, err = uc.Clear(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, res.Cart.Items)
}

func TestCartRejectsBlankUser(t *testing.T) {
	uc, _, _ := newCartEnv()

	_, err := uc.Load(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrCartInvalidArgument)
}
