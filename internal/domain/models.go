package domain

type MenuItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Image        string   `json:"image"`
	Category     string   `json:"category"`
	RestaurantID string   `json:"restaurant_id"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Allergens    []string `json:"allergens,omitempty"`
	Available    bool     `json:"available"`
}

type WorkingHours struct {
	Day      string `json:"day"`
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"is_closed"`
}

type Review struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

type Restaurant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	Rating       float64        `json:"rating"`
	DeliveryTime string         `json:"delivery_time"`
	DeliveryFee  float64        `json:"delivery_fee"`
	MinimumOrder float64        `json:"minimum_order"`
	Cuisine      []string       `json:"cuisine"`
	Menu         []MenuItem     `json:"menu"`
	Address      string         `json:"address"`
	Phone        string         `json:"phone"`
	WorkingHours []WorkingHours `json:"working_hours"`
	Reviews      []Review       `json:"reviews"`
	TotalReviews int            `json:"total_reviews"`
}

// CartItem is one cart line. Its ID is generated per add-event and is
// distinct from the referenced MenuItem id, so the same dish can appear
// on several lines.
type CartItem struct {
	ID           string   `json:"id"`
	Item         MenuItem `json:"item"`
	Quantity     int      `json:"quantity"`
	RestaurantID string   `json:"restaurant_id"`
	Notes        string   `json:"notes,omitempty"`
}

type Order struct {
	ID          string      `json:"id"`
	Items       []CartItem  `json:"items"`
	Total       float64     `json:"total"`
	DeliveryFee float64     `json:"delivery_fee"`
	Address     string      `json:"address"`
	Phone       string      `json:"phone"`
	Date        string      `json:"date"`
	Status      OrderStatus `json:"status"`
	Restaurants []string    `json:"restaurants"`
}

type User struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Address    string  `json:"address,omitempty"`
	IsLoggedIn bool    `json:"is_logged_in"`
	Orders     []Order `json:"orders"`
}

// OrderFormData is the working state of the checkout wizard. It lives
// for the current session only and is reset after checkout completes.
type OrderFormData struct {
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Name          string    `json:"name"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes"`
	PromoCode     string    `json:"promo_code,omitempty"`
	Discount      int       `json:"discount,omitempty"`
	FreeDelivery  bool      `json:"free_delivery,omitempty"`
	FreeItem      *MenuItem `json:"free_item,omitempty"`
}

// Snapshot is the subset of store state that survives a restart.
type Snapshot struct {
	Cart      []CartItem `json:"cart"`
	CartTotal float64    `json:"cart_total"`
	User      *User      `json:"user"`
}

// StatusEvent is published to the notification side-channel whenever an
// order moves to a new status.
type StatusEvent struct {
	Type      string `json:"type"`
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Timestamp string `json:"timestamp"`
}
