package service

import (
	"context"
	"log"
	"sync"
	"time"

	"quickbite/internal/domain"
)

const (
	// minutesPerStage is the fixed cadence of the simulated kitchen: an
	// order advances one stage every two minutes of wall-clock time.
	minutesPerStage = 2

	defaultTickInterval = 30 * time.Second
)

// StatusSimulator advances pending orders along the status ladder on a
// recurring tick, based on elapsed time since order creation. Missed
// ticks are harmless: an order jumps straight to whatever stage its
// age calls for. Only one run loop exists at a time; Start cancels any
// previous one.
type StatusSimulator struct {
	store    *Store
	clock    Clock
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

type SimulatorOption func(*StatusSimulator)

func WithSimulatorClock(clock Clock) SimulatorOption {
	return func(s *StatusSimulator) { s.clock = clock }
}

func WithTickInterval(interval time.Duration) SimulatorOption {
	return func(s *StatusSimulator) { s.interval = interval }
}

func NewStatusSimulator(store *Store, opts ...SimulatorOption) *StatusSimulator {
	s := &StatusSimulator{
		store:    store,
		clock:    SystemClock(),
		interval: defaultTickInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the tick loop, first cancelling a previous loop if
// one is running so timers never double-advance state.
func (s *StatusSimulator) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop = stop
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Stop cancels the running loop, if any, and waits for it to exit.
func (s *StatusSimulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *StatusSimulator) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.done = nil
}

// Tick advances every non-terminal order of the current user. An order
// with an unparseable timestamp is skipped for this tick and the rest
// continue.
func (s *StatusSimulator) Tick(ctx context.Context) {
	now := s.clock.Now()

	for _, order := range s.store.Orders() {
		if order.Status.Terminal() {
			continue
		}

		placedAt, err := domain.ParseOrderTime(order.Date)
		if err != nil {
			log.Printf("simulator: order %s: %v", order.ID, err)
			continue
		}

		elapsed := int(now.Sub(placedAt).Minutes())
		target := elapsed / minutesPerStage
		if target > int(domain.LastOrderStatus) {
			target = int(domain.LastOrderStatus)
		}
		if target > int(order.Status) {
			s.store.UpdateOrderStatus(ctx, order.ID, domain.OrderStatus(target))
		}
	}
}
