package service

import (
	"context"
	"time"

	"quickbite/internal/domain"
)

// SnapshotStore persists the restart-surviving subset of store state
// (cart, cart total, user) under a single key.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snap domain.Snapshot) error
}

// ReviewStore is the additive-only side-channel for user-submitted
// reviews, keyed by restaurant id.
type ReviewStore interface {
	Append(ctx context.Context, restaurantID string, review domain.Review) error
	List(ctx context.Context, restaurantID string) ([]domain.Review, error)
}

// Catalog supplies the immutable restaurant reference data.
type Catalog interface {
	Restaurants() []domain.Restaurant
	Restaurant(id string) (*domain.Restaurant, bool)
	MenuItem(restaurantID, itemID string) (*domain.MenuItem, bool)
	Categories() []string
	Cuisines() []string
}

// StatusListener receives order status transitions. Listeners are
// invoked asynchronously and must not call back into the store
// synchronously from the same goroutine they unsubscribe in.
type StatusListener func(orderID string, oldStatus, newStatus domain.OrderStatus)

// Clock abstracts wall-clock time so the simulator and checkout can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return realClock{} }
