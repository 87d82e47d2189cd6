package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"quickbite/internal/domain"
	"quickbite/internal/service"
)

type Handler struct {
	Store   *service.Store
	Catalog service.Catalog
	Reviews service.ReviewStore
	QR      service.QRGenerator
	Clock   service.Clock
}

func NewHandler(store *service.Store, catalog service.Catalog, reviews service.ReviewStore, qr service.QRGenerator) *Handler {
	return &Handler{
		Store:   store,
		Catalog: catalog,
		Reviews: reviews,
		QR:      qr,
		Clock:   service.SystemClock(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.listRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/reviews", h.listReviews).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/reviews", h.createReview).Methods("POST")
	r.HandleFunc("/api/categories", h.listCategories).Methods("GET")
	r.HandleFunc("/api/cuisines", h.listCuisines).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addToCart).Methods("POST")
	r.HandleFunc("/api/cart/items/{lineId}", h.updateCartItem).Methods("PATCH")
	r.HandleFunc("/api/cart/items/{lineId}", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/login", h.login).Methods("POST")
	r.HandleFunc("/api/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/profile", h.getProfile).Methods("GET")

	r.HandleFunc("/api/promo", h.applyPromo).Methods("POST")
	r.HandleFunc("/api/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/api/orders", h.listOrders).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}/qrcode", h.getOrderQR).Methods("GET")

	r.HandleFunc("/api/session", h.getSession).Methods("GET")
	r.HandleFunc("/api/session", h.updateSession).Methods("PUT")
	r.HandleFunc("/api/session/promo-teaser", h.showPromoTeaser).Methods("POST")
	r.HandleFunc("/api/session/promo-teaser", h.hidePromoTeaser).Methods("DELETE")
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "quickbite",
	})
}

type restaurantView struct {
	domain.Restaurant
	OpenStatus service.OpenStatus `json:"open_status"`
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := query.Get("search")
	category := query.Get("category")
	cuisine := query.Get("cuisine")
	openOnly := query.Get("open") == "true"

	// The listing filters double as session state so the UI can restore
	// its controls mid-session.
	if query.Has("search") {
		h.Store.SetSearchQuery(search)
	}
	if query.Has("category") {
		h.Store.SetSelectedCategory(category)
	}

	now := h.Clock.Now()
	restaurants := h.Catalog.Restaurants()
	if openOnly {
		restaurants = service.OpenRestaurants(restaurants, now)
	}

	views := make([]restaurantView, 0, len(restaurants))
	for _, rest := range restaurants {
		if !matchesSearch(&rest, search) || !matchesCategory(&rest, category) || !matchesCuisine(&rest, cuisine) {
			continue
		}
		views = append(views, restaurantView{
			Restaurant: rest,
			OpenStatus: service.RestaurantOpenStatus(&rest, now),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func matchesSearch(r *domain.Restaurant, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(r.Name), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle) {
		return true
	}
	for _, item := range r.Menu {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			return true
		}
	}
	return false
}

func matchesCategory(r *domain.Restaurant, category string) bool {
	if category == "" || category == "all" {
		return true
	}
	for _, item := range r.Menu {
		if strings.EqualFold(item.Category, category) {
			return true
		}
	}
	return false
}

func matchesCuisine(r *domain.Restaurant, cuisine string) bool {
	if cuisine == "" {
		return true
	}
	for _, c := range r.Cuisine {
		if strings.EqualFold(c, cuisine) {
			return true
		}
	}
	return false
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, ok := h.Catalog.Restaurant(mux.Vars(r)["restaurantId"])
	if !ok {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}

	rest.Reviews = h.mergedReviews(r, rest)
	h.Store.SetSelectedRestaurant(rest.ID)

	writeJSON(w, http.StatusOK, restaurantView{
		Restaurant: *rest,
		OpenStatus: service.RestaurantOpenStatus(rest, h.Clock.Now()),
	})
}

// mergedReviews puts side-channel reviews ahead of the catalog's
// built-in list. The merge is additive and never deduplicates.
func (h *Handler) mergedReviews(r *http.Request, rest *domain.Restaurant) []domain.Review {
	stored, err := h.Reviews.List(r.Context(), rest.ID)
	if err != nil {
		// Treated as "feature unavailable": the built-in reviews still
		// render.
		stored = nil
	}
	return append(stored, rest.Reviews...)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	rest, ok := h.Catalog.Restaurant(mux.Vars(r)["restaurantId"])
	if !ok {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rest.Menu)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Categories())
}

func (h *Handler) listCuisines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Cuisines())
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	rest, ok := h.Catalog.Restaurant(mux.Vars(r)["restaurantId"])
	if !ok {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.mergedReviews(r, rest))
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]
	if _, ok := h.Catalog.Restaurant(restaurantID); !ok {
		http.Error(w, "restaurant not found", http.StatusNotFound)
		return
	}

	var payload struct {
		UserName string `json:"user_name"`
		Rating   int    `json:"rating"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(payload.UserName) == "" {
		fieldErrors["user_name"] = "Name is required"
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		fieldErrors["rating"] = "Rating must be between 1 and 5"
	}
	if strings.TrimSpace(payload.Comment) == "" {
		fieldErrors["comment"] = "Comment is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": fieldErrors})
		return
	}

	review := domain.Review{
		ID:       uuid.NewString(),
		UserName: payload.UserName,
		Rating:   payload.Rating,
		Comment:  payload.Comment,
		Date:     h.Clock.Now().Format("02.01.2006"),
	}
	if err := h.Reviews.Append(r.Context(), restaurantID, review); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

type cartView struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

func (h *Handler) currentCart() cartView {
	return cartView{Items: h.Store.Cart(), Total: h.Store.CartTotal()}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ItemID       string `json:"item_id"`
		RestaurantID string `json:"restaurant_id"`
		Quantity     *int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, ok := h.Catalog.MenuItem(payload.RestaurantID, payload.ItemID)
	if !ok {
		http.Error(w, "menu item not found", http.StatusNotFound)
		return
	}

	quantity := 1
	if payload.Quantity != nil {
		quantity = *payload.Quantity
	}
	h.Store.AddToCart(r.Context(), *item, payload.RestaurantID, quantity)
	writeJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Store.UpdateCartItemQuantity(r.Context(), mux.Vars(r)["lineId"], payload.Quantity)
	writeJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	h.Store.RemoveFromCart(r.Context(), mux.Vars(r)["lineId"])
	writeJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Store.ClearCart(r.Context())
	writeJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(payload.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !strings.Contains(payload.Email, "@") {
		fieldErrors["email"] = "Valid email is required"
	}
	if len(strings.TrimSpace(payload.Phone)) < 5 {
		fieldErrors["phone"] = "Valid phone is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": fieldErrors})
		return
	}

	user := h.Store.LoginUser(r.Context(), payload.Name, payload.Email, payload.Phone)
	writeJSON(w, http.StatusOK, user)
}

// logout clears the user and the cart together: an anonymous session
// never inherits a previous user's cart.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.Store.LogoutUser(r.Context())
	h.Store.ClearCart(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Store.User()
	if !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) applyPromo(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.Store.ApplyPromoCode(r.Context(), payload.Code)
	switch {
	case errors.Is(err, service.ErrUnknownPromoCode):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrPromoAlreadyUsed):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, h.Store.OrderFormData())
	}
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Address       string `json:"address"`
		Phone         string `json:"phone"`
		Name          string `json:"name"`
		PaymentMethod string `json:"payment_method"`
		Notes         string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(payload.Address) == "" {
		fieldErrors["address"] = "Delivery address is required"
	}
	if strings.TrimSpace(payload.Phone) == "" {
		fieldErrors["phone"] = "Phone is required"
	}
	if strings.TrimSpace(payload.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if strings.TrimSpace(payload.PaymentMethod) == "" {
		fieldErrors["payment_method"] = "Payment method is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": fieldErrors})
		return
	}

	h.Store.UpdateOrderFormData(service.OrderFormUpdate{
		Address:       &payload.Address,
		Phone:         &payload.Phone,
		Name:          &payload.Name,
		PaymentMethod: &payload.PaymentMethod,
		Notes:         &payload.Notes,
	})

	order, err := h.Store.Checkout(r.Context())
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusCreated, order)
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Store.User(); !ok {
		http.Error(w, "not logged in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.Store.Orders())
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.Store.Order(mux.Vars(r)["orderId"])
	if !ok {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQR(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	if _, ok := h.Store.Order(orderID); !ok {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	qr, err := h.QR.Generate(orderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

type sessionView struct {
	SearchQuery        string               `json:"search_query"`
	SelectedCategory   string               `json:"selected_category"`
	SelectedRestaurant string               `json:"selected_restaurant,omitempty"`
	OrderStep          int                  `json:"order_step"`
	OrderForm          domain.OrderFormData `json:"order_form"`
	PromoTeaser        string               `json:"promo_teaser,omitempty"`
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	view := sessionView{
		SearchQuery:        h.Store.SearchQuery(),
		SelectedCategory:   h.Store.SelectedCategory(),
		SelectedRestaurant: h.Store.SelectedRestaurant(),
		OrderStep:          h.Store.OrderStep(),
		OrderForm:          h.Store.OrderFormData(),
	}
	if teaser, visible := h.Store.PromoTeaser(); visible {
		view.PromoTeaser = string(teaser)
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SearchQuery        *string `json:"search_query"`
		SelectedCategory   *string `json:"selected_category"`
		SelectedRestaurant *string `json:"selected_restaurant"`
		OrderStep          *int    `json:"order_step"`
		Address            *string `json:"address"`
		Phone              *string `json:"phone"`
		Name               *string `json:"name"`
		PaymentMethod      *string `json:"payment_method"`
		Notes              *string `json:"notes"`
		FreeItemID         *string `json:"free_item_id"`
		FreeItemRestaurant *string `json:"free_item_restaurant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if payload.SearchQuery != nil {
		h.Store.SetSearchQuery(*payload.SearchQuery)
	}
	if payload.SelectedCategory != nil {
		h.Store.SetSelectedCategory(*payload.SelectedCategory)
	}
	if payload.SelectedRestaurant != nil {
		h.Store.SetSelectedRestaurant(*payload.SelectedRestaurant)
	}
	if payload.OrderStep != nil {
		h.Store.SetOrderStep(*payload.OrderStep)
	}

	update := service.OrderFormUpdate{
		Address:       payload.Address,
		Phone:         payload.Phone,
		Name:          payload.Name,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
	}
	if payload.FreeItemID != nil && payload.FreeItemRestaurant != nil {
		if item, ok := h.Catalog.MenuItem(*payload.FreeItemRestaurant, *payload.FreeItemID); ok {
			update.FreeItem = item
		}
	}
	h.Store.UpdateOrderFormData(update)

	h.getSession(w, r)
}

func (h *Handler) showPromoTeaser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	benefit := service.Benefit(payload.Type)
	if !benefit.Known() {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": map[string]string{"type": "Unknown benefit type"},
		})
		return
	}
	h.Store.ShowPromoTeaser(benefit)
	h.getSession(w, r)
}

func (h *Handler) hidePromoTeaser(w http.ResponseWriter, r *http.Request) {
	h.Store.HidePromoTeaser()
	w.WriteHeader(http.StatusNoContent)
}
