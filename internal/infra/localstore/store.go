// Package localstore is the device-scoped durability layer: a small bbolt
// file holding the session token, the administrator's last dashboard view
// and serialized catalog/order mirrors used as a cache of last resort.
package localstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"milkrun/config"
	"milkrun/internal/domain/entity"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/fx"
)

const openTimeout = time.Second

var bucketName = []byte("milkrun")

// Well-known keys inside the single bucket.
var (
	keySessionToken      = []byte("session/token")
	keyLastDashboardView = []byte("admin/last_dashboard_view")
	keyCachedProducts    = []byte("cache/products")
	keyCachedOrders      = []byte("cache/orders")
)

// Store wraps the bbolt handle. All operations are whole-value reads and
// writes; collections are replaced wholesale, never patched.
type Store struct {
	db *bbolt.DB
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the device-local store at the configured path and ties its
// lifetime to the application lifecycle.
func New(params Params) (*Store, error) {
	store, err := Open(params.Config.LocalStore.Path)
	if err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			params.Logger.Info("Closing local store")

			return store.Close()
		},
	})

	return store, nil
}

// Open opens (or creates) the store file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open local store")
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)

		return err
	}); err != nil {
		return nil, errors.Wrap(err, "failed to create local store bucket")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "failed to close local store")
}

// SessionToken returns the persisted session token, or "" when logged out.
func (s *Store) SessionToken() (string, error) {
	value, err := s.get(keySessionToken)
	if err != nil {
		return "", err
	}

	return string(value), nil
}

// SetSessionToken persists the session token across restarts.
func (s *Store) SetSessionToken(token string) error {
	return s.put(keySessionToken, []byte(token))
}

// ClearSessionToken removes the persisted session token.
func (s *Store) ClearSessionToken() error {
	return s.delete(keySessionToken)
}

// LastDashboardView returns when the administrator last viewed the
// dashboard. The zero time means "never".
func (s *Store) LastDashboardView() (time.Time, error) {
	value, err := s.get(keyLastDashboardView)
	if err != nil || len(value) == 0 {
		return time.Time{}, err
	}

	viewedAt, err := time.Parse(time.RFC3339Nano, string(value))
	if err != nil {
		// A corrupt value behaves like "never viewed" rather than failing the dashboard.
		return time.Time{}, nil
	}

	return viewedAt, nil
}

// SetLastDashboardView records the given instant as the last dashboard view.
func (s *Store) SetLastDashboardView(viewedAt time.Time) error {
	return s.put(keyLastDashboardView, []byte(viewedAt.Format(time.RFC3339Nano)))
}

// CacheProducts replaces the local catalog mirror.
func (s *Store) CacheProducts(products []*entity.Product) error {
	return s.putJSON(keyCachedProducts, products)
}

// CachedProducts returns the local catalog mirror, or nil when absent.
func (s *Store) CachedProducts() ([]*entity.Product, error) {
	var products []*entity.Product
	if err := s.getJSON(keyCachedProducts, &products); err != nil {
		return nil, err
	}

	return products, nil
}

// CacheOrders replaces the local order mirror.
func (s *Store) CacheOrders(orders []*entity.Order) error {
	return s.putJSON(keyCachedOrders, orders)
}

// CachedOrders returns the local order mirror, or nil when absent.
func (s *Store) CachedOrders() ([]*entity.Order, error) {
	var orders []*entity.Order
	if err := s.getJSON(keyCachedOrders, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// ClearCachedOrders drops the local order mirror. Done on logout so the
// next identity never sees the previous store's history.
func (s *Store) ClearCachedOrders() error {
	return s.delete(keyCachedOrders)
}

func (s *Store) get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket(bucketName).Get(key)
		if stored != nil {
			value = make([]byte, len(stored))
			copy(value, stored)
		}

		return nil
	})

	return value, errors.Wrap(err, "failed to read local store")
}

func (s *Store) put(key, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})

	return errors.Wrap(err, "failed to write local store")
}

func (s *Store) delete(key []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete(key)
	})

	return errors.Wrap(err, "failed to delete from local store")
}

func (s *Store) putJSON(key []byte, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to encode local store value")
	}

	return s.put(key, encoded)
}

func (s *Store) getJSON(key []byte, target any) error {
	value, err := s.get(key)
	if err != nil || len(value) == 0 {
		return err
	}

	return errors.Wrap(json.Unmarshal(value, target), "failed to decode local store value")
}
