package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"quickbite/internal/domain"
)

var (
	ErrNotLoggedIn = errors.New("no user is logged in")
	ErrEmptyCart   = errors.New("cart is empty")
)

const (
	firstWizardStep = 1
	lastWizardStep  = 3
)

// Store is the single source of truth for cart, user, checkout, search
// and promo state. All mutations go through its action methods, which
// apply atomically under one mutex; the store instance is the
// synchronization boundary for the whole process.
//
// Cart, cart total and user survive restarts through the snapshot
// store. Everything else is session state and resets to defaults.
type Store struct {
	mu sync.Mutex

	catalog   Catalog
	snapshots SnapshotStore
	promos    *PromoEngine
	clock     Clock

	cart      []domain.CartItem
	cartTotal float64
	user      *domain.User

	searchQuery        string
	selectedCategory   string
	selectedRestaurant string

	orderStep     int
	orderFormData domain.OrderFormData

	teaserVisible bool
	teaserBenefit Benefit

	listeners    map[int]StatusListener
	nextListener int
}

type StoreOption func(*Store)

func WithClock(clock Clock) StoreOption {
	return func(s *Store) { s.clock = clock }
}

func NewStore(catalog Catalog, snapshots SnapshotStore, promos *PromoEngine, opts ...StoreOption) *Store {
	s := &Store{
		catalog:          catalog,
		snapshots:        snapshots,
		promos:           promos,
		clock:            SystemClock(),
		selectedCategory: "all",
		orderStep:        firstWizardStep,
		orderFormData:    defaultOrderForm(),
		listeners:        make(map[int]StatusListener),
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := snapshots.Load(context.Background())
	if err != nil {
		log.Printf("store: loading snapshot: %v", err)
	} else {
		s.cart = snap.Cart
		s.cartTotal = snap.CartTotal
		s.user = snap.User
	}
	return s
}

func defaultOrderForm() domain.OrderFormData {
	return domain.OrderFormData{PaymentMethod: "cash"}
}

// persist writes the restart-surviving subset. Failures are logged and
// never surfaced: the worst case is state that does not outlive the
// session.
func (s *Store) persist(ctx context.Context) {
	snap := domain.Snapshot{
		Cart:      s.cart,
		CartTotal: s.cartTotal,
		User:      s.user,
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		log.Printf("store: saving snapshot: %v", err)
	}
}

func (s *Store) recomputeTotal() {
	total := 0.0
	for _, line := range s.cart {
		total += line.Item.Price * float64(line.Quantity)
	}
	s.cartTotal = total
}

// AddToCart merges into an existing line for the same menu item, or
// appends a new line when quantity is positive. A merge that drives
// quantity to zero or below removes the line. Adding a non-positive
// quantity with no existing line is a no-op.
func (s *Store) AddToCart(ctx context.Context, item domain.MenuItem, restaurantID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, line := range s.cart {
		if line.Item.ID == item.ID {
			idx = i
			break
		}
	}

	switch {
	case idx >= 0:
		next := s.cart[idx].Quantity + quantity
		if next <= 0 {
			s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
		} else {
			s.cart[idx].Quantity = next
		}
	case quantity > 0:
		s.cart = append(s.cart, domain.CartItem{
			ID:           uuid.NewString(),
			Item:         item,
			Quantity:     quantity,
			RestaurantID: restaurantID,
		})
	default:
		return
	}

	s.recomputeTotal()
	s.persist(ctx)
}

// RemoveFromCart drops the line with the given id. Unknown ids are a
// no-op.
func (s *Store) RemoveFromCart(ctx context.Context, lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.cart {
		if line.ID == lineID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			s.recomputeTotal()
			s.persist(ctx)
			return
		}
	}
}

// UpdateCartItemQuantity sets a line's quantity; zero or negative
// removes the line, identically to RemoveFromCart.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.cart {
		if line.ID != lineID {
			continue
		}
		if quantity <= 0 {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
		} else {
			s.cart[i].Quantity = quantity
		}
		s.recomputeTotal()
		s.persist(ctx)
		return
	}
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	s.cartTotal = 0
	s.persist(ctx)
}

func (s *Store) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartTotal
}

// LoginUser replaces any current user with a fresh logged-in identity
// holding an empty order history. No merging with prior state happens.
func (s *Store) LoginUser(ctx context.Context, name, email, phone string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &domain.User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		IsLoggedIn: true,
		Orders:     []domain.Order{},
	}
	s.persist(ctx)
	return *s.user
}

// LogoutUser clears the user. The caller is responsible for also
// clearing the cart; logout implying an empty cart is enforced at the
// API layer.
func (s *Store) LogoutUser(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.persist(ctx)
}

func (s *Store) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.User{}, false
	}
	u := *s.user
	u.Orders = make([]domain.Order, len(s.user.Orders))
	copy(u.Orders, s.user.Orders)
	return u, true
}

// AddOrder prepends the order to the current user's history. Calling
// it with no user logged in is a caller-contract violation and leaves
// state unchanged.
func (s *Store) AddOrder(ctx context.Context, order domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return
	}
	s.user.Orders = append([]domain.Order{order}, s.user.Orders...)
	s.persist(ctx)
}

// Orders returns the current user's orders, most recent first.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	out := make([]domain.Order, len(s.user.Orders))
	copy(out, s.user.Orders)
	return out
}

func (s *Store) Order(orderID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.Order{}, false
	}
	for _, order := range s.user.Orders {
		if order.ID == orderID {
			return order, true
		}
	}
	return domain.Order{}, false
}

// UpdateOrderStatus moves an order to a new status and notifies
// subscribers asynchronously. Unknown order ids and unchanged statuses
// are no-ops.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) {
	s.mu.Lock()

	if s.user == nil {
		s.mu.Unlock()
		return
	}
	for i := range s.user.Orders {
		if s.user.Orders[i].ID != orderID {
			continue
		}
		old := s.user.Orders[i].Status
		if old == status {
			break
		}
		s.user.Orders[i].Status = status
		s.persist(ctx)

		listeners := make([]StatusListener, 0, len(s.listeners))
		for _, fn := range s.listeners {
			listeners = append(listeners, fn)
		}
		s.mu.Unlock()

		go func() {
			for _, fn := range listeners {
				fn(orderID, old, status)
			}
		}()
		return
	}
	s.mu.Unlock()
}

// SubscribeStatus registers a listener for status transitions and
// returns its unsubscribe function. Having no listeners is fine.
func (s *Store) SubscribeStatus(fn StatusListener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// ApplyPromoCode redeems a code and merges its effect into the
// checkout form. Failure leaves both the form and the redemption set
// untouched.
func (s *Store) ApplyPromoCode(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	promo, err := s.promos.Redeem(code)
	if err != nil {
		return err
	}
	s.orderFormData.PromoCode = code
	s.orderFormData.Discount = promo.Discount
	s.orderFormData.FreeDelivery = promo.FreeDelivery
	return nil
}

// Checkout turns the current cart and checkout form into an order on
// the logged-in user's history, then clears the cart and resets the
// wizard. Field-level form validation is the API layer's concern.
func (s *Store) Checkout(ctx context.Context) (domain.Order, error) {
	s.mu.Lock()

	if s.user == nil || !s.user.IsLoggedIn {
		s.mu.Unlock()
		return domain.Order{}, ErrNotLoggedIn
	}
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return domain.Order{}, ErrEmptyCart
	}

	form := s.orderFormData

	items := make([]domain.CartItem, len(s.cart))
	copy(items, s.cart)
	if form.FreeItem != nil {
		free := *form.FreeItem
		free.Price = 0
		items = append(items, domain.CartItem{
			ID:           uuid.NewString(),
			Item:         free,
			Quantity:     1,
			RestaurantID: free.RestaurantID,
		})
	}

	var restaurants []string
	seen := make(map[string]bool)
	for _, line := range items {
		if !seen[line.RestaurantID] {
			seen[line.RestaurantID] = true
			restaurants = append(restaurants, line.RestaurantID)
		}
	}

	fee := 0.0
	if !form.FreeDelivery {
		for _, id := range restaurants {
			if r, ok := s.catalog.Restaurant(id); ok {
				fee += r.DeliveryFee
			}
		}
	}
	discount := s.cartTotal * float64(form.Discount) / 100

	order := domain.Order{
		ID:          uuid.NewString(),
		Items:       items,
		Total:       s.cartTotal + fee - discount,
		DeliveryFee: fee,
		Address:     form.Address,
		Phone:       form.Phone,
		Date:        s.clock.Now().Format(domain.OrderTimeLayout),
		Status:      domain.StatusReceived,
		Restaurants: restaurants,
	}

	s.user.Orders = append([]domain.Order{order}, s.user.Orders...)
	s.cart = nil
	s.cartTotal = 0
	s.orderStep = firstWizardStep
	s.orderFormData = defaultOrderForm()
	s.persist(ctx)
	s.mu.Unlock()

	return order, nil
}

// --- session-only UI state ---

func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

func (s *Store) SetSelectedCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCategory = category
}

func (s *Store) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

func (s *Store) SetSelectedRestaurant(restaurantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedRestaurant = restaurantID
}

func (s *Store) SelectedRestaurant() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedRestaurant
}

func (s *Store) SetOrderStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if step < firstWizardStep {
		step = firstWizardStep
	}
	if step > lastWizardStep {
		step = lastWizardStep
	}
	s.orderStep = step
}

func (s *Store) OrderStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderStep
}

// OrderFormUpdate is a partial checkout-form change; nil fields are
// left alone.
type OrderFormUpdate struct {
	Address       *string
	Phone         *string
	Name          *string
	PaymentMethod *string
	Notes         *string
	FreeItem      *domain.MenuItem
}

func (s *Store) UpdateOrderFormData(update OrderFormUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Address != nil {
		s.orderFormData.Address = *update.Address
	}
	if update.Phone != nil {
		s.orderFormData.Phone = *update.Phone
	}
	if update.Name != nil {
		s.orderFormData.Name = *update.Name
	}
	if update.PaymentMethod != nil {
		s.orderFormData.PaymentMethod = *update.PaymentMethod
	}
	if update.Notes != nil {
		s.orderFormData.Notes = *update.Notes
	}
	if update.FreeItem != nil {
		item := *update.FreeItem
		s.orderFormData.FreeItem = &item
	}
}

func (s *Store) OrderFormData() domain.OrderFormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderFormData
}

// ShowPromoTeaser surfaces the promo teaser for a benefit. Unknown
// benefits, logged-in users and already-redeemed benefits never
// show it.
func (s *Store) ShowPromoTeaser(benefit Benefit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !benefit.Known() {
		return
	}
	if s.user != nil && s.user.IsLoggedIn {
		return
	}
	if s.promos.Used(benefit) {
		return
	}
	s.teaserVisible = true
	s.teaserBenefit = benefit
}

func (s *Store) HidePromoTeaser() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teaserVisible = false
	s.teaserBenefit = ""
}

func (s *Store) PromoTeaser() (Benefit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teaserBenefit, s.teaserVisible
}
