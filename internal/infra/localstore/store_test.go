package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"milkrun/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSessionToken_SetClearRoundTrip(t *testing.T) {
	store := newStore(t)

	token, err := store.SessionToken()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetSessionToken("tok-123"))
	token, err = store.SessionToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	require.NoError(t, store.ClearSessionToken())
	token, err = store.SessionToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLastDashboardView_ZeroMeansNever(t *testing.T) {
	store := newStore(t)

	viewedAt, err := store.LastDashboardView()
	require.NoError(t, err)
	assert.True(t, viewedAt.IsZero())

	now := time.Now()
	require.NoError(t, store.SetLastDashboardView(now))

	viewedAt, err = store.LastDashboardView()
	require.NoError(t, err)
	assert.WithinDuration(t, now, viewedAt, time.Millisecond)
}

func TestLastDashboardView_CorruptValueBehavesLikeNever(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.put(keyLastDashboardView, []byte("not a timestamp")))

	viewedAt, err := store.LastDashboardView()
	require.NoError(t, err)
	assert.True(t, viewedAt.IsZero())
}

func TestCachedProducts_RoundTrip(t *testing.T) {
	store := newStore(t)

	products, err := store.CachedProducts()
	require.NoError(t, err)
	assert.Nil(t, products)

	stock := 5
	require.NoError(t, store.CacheProducts([]*entity.Product{
		{ID: "p1", Name: "Whole Milk 1L", Price: 1.49, Stock: &stock, IsVisible: true},
	}))

	products, err = store.CachedProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Whole Milk 1L", products[0].Name)
	require.NotNil(t, products[0].Stock)
	assert.Equal(t, 5, *products[0].Stock)
}

func TestCachedOrders_ClearDropsTheMirror(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.CacheOrders([]*entity.Order{{ID: "o1", Status: entity.StatusPending}}))

	orders, err := store.CachedOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)

	require.NoError(t, store.ClearCachedOrders())

	orders, err = store.CachedOrders()
	require.NoError(t, err)
	assert.Nil(t, orders)
}
