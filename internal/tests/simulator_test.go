package tests

import (
	"context"
	"testing"
	"time"

	"quickbite/internal/domain"
	"quickbite/internal/service"

	"github.com/stretchr/testify/assert"
)

func placedOrder(id string, placedAt time.Time, status domain.OrderStatus) domain.Order {
	return domain.Order{
		ID:     id,
		Date:   placedAt.Format(domain.OrderTimeLayout),
		Status: status,
	}
}

func TestSimulator_AdvancesByElapsedMinutes(t *testing.T) {
	ctx := context.Background()
	placed := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    domain.OrderStatus
	}{
		{name: "under_two_minutes", elapsed: 90 * time.Second, want: domain.StatusReceived},
		{name: "two_minutes", elapsed: 2 * time.Minute, want: domain.StatusPreparing},
		{name: "five_minutes_skips_a_stage", elapsed: 5 * time.Minute, want: domain.StatusOutForDelivery},
		{name: "six_minutes_terminal", elapsed: 6 * time.Minute, want: domain.StatusDelivered},
		{name: "clamped_to_terminal", elapsed: 3 * time.Hour, want: domain.StatusDelivered},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := newTestStore(nil)
			store.LoginUser(ctx, "Ann", "ann@example.com", "+1555000")
			store.AddOrder(ctx, placedOrder("o-1", placed, domain.StatusReceived))

			sim := service.NewStatusSimulator(store,
				service.WithSimulatorClock(fakeClock{placed.Add(testCase.elapsed)}))
			sim.Tick(ctx)

			order, ok := store.Order("o-1")
			assert.True(t, ok)
			assert.Equal(t, testCase.want, order.Status)
		})
	}
}

func TestSimulator_NeverMovesBackward(t *testing.T) {
	ctx := context.Background()
	placed := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.Local)

	store := newTestStore(nil)
	store.LoginUser(ctx, "Ann", "ann@example.com", "+1555000")
	store.AddOrder(ctx, placedOrder("o-1", placed, domain.StatusOutForDelivery))

	// Elapsed time says stage 1, but the order is already at stage 2.
	sim := service.NewStatusSimulator(store,
		service.WithSimulatorClock(fakeClock{placed.Add(3 * time.Minute)}))
	sim.Tick(ctx)

	order, _ := store.Order("o-1")
	assert.Equal(t, domain.StatusOutForDelivery, order.Status)
}

func TestSimulator_SkipsUnparseableTimestamp(t *testing.T) {
	ctx := context.Background()
	placed := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.Local)

	store := newTestStore(nil)
	store.LoginUser(ctx, "Ann", "ann@example.com", "+1555000")
	store.AddOrder(ctx, domain.Order{ID: "o-bad", Date: "not a timestamp", Status: domain.StatusReceived})
	store.AddOrder(ctx, placedOrder("o-good", placed, domain.StatusReceived))

	sim := service.NewStatusSimulator(store,
		service.WithSimulatorClock(fakeClock{placed.Add(4 * time.Minute)}))
	sim.Tick(ctx)

	bad, _ := store.Order("o-bad")
	assert.Equal(t, domain.StatusReceived, bad.Status, "corrupt order is skipped, not crashed on")

	good, _ := store.Order("o-good")
	assert.Equal(t, domain.StatusOutForDelivery, good.Status, "other orders still advance")
}

func TestSimulator_DateOnlyFallbackParses(t *testing.T) {
	ctx := context.Background()
	placed := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.Local)

	store := newTestStore(nil)
	store.LoginUser(ctx, "Ann", "ann@example.com", "+1555000")
	store.AddOrder(ctx, domain.Order{ID: "o-1", Date: "10.06.2026", Status: domain.StatusReceived})

	sim := service.NewStatusSimulator(store,
		service.WithSimulatorClock(fakeClock{placed.Add(2 * time.Minute)}))
	sim.Tick(ctx)

	order, _ := store.Order("o-1")
	assert.Equal(t, domain.StatusPreparing, order.Status)
}

func TestSimulator_TerminalOrdersAreLeftAlone(t *testing.T) {
	ctx := context.Background()
	placed := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.Local)

	store := newTestStore(nil)
	store.LoginUser(ctx, "Ann", "ann@example.com", "+1555000")
	store.AddOrder(ctx, placedOrder("o-1", placed, domain.StatusDelivered))

	events := make(chan struct{}, 1)
	store.SubscribeStatus(func(string, domain.OrderStatus, domain.OrderStatus) {
		events <- struct{}{}
	})

	sim := service.NewStatusSimulator(store,
		service.WithSimulatorClock(fakeClock{placed.Add(time.Hour)}))
	sim.Tick(ctx)

	select {
	case <-events:
		t.Fatal("terminal order must not emit notifications")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSimulator_RestartCancelsPreviousLoop(t *testing.T) {
	store := newTestStore(nil)
	sim := service.NewStatusSimulator(store,
		service.WithTickInterval(10*time.Millisecond))

	ctx := context.Background()
	sim.Start(ctx)
	sim.Start(ctx) // must cancel the first loop, not stack a second one
	sim.Stop()
	sim.Stop() // idempotent
}
