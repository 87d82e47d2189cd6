package tests

import (
	"time"

	"quickbite/internal/catalog"
	"quickbite/internal/domain"
	"quickbite/internal/service"
	"quickbite/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

func everyDay(open, close string) []domain.WorkingHours {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	hours := make([]domain.WorkingHours, 0, len(days))
	for _, day := range days {
		hours = append(hours, domain.WorkingHours{Day: day, Open: open, Close: close})
	}
	return hours
}

func closedWeek() []domain.WorkingHours {
	hours := everyDay("", "")
	for i := range hours {
		hours[i].IsClosed = true
	}
	return hours
}

func fixtureCatalog() *catalog.Catalog {
	pizzeria := domain.Restaurant{
		ID:          "r-pizzeria",
		Name:        "Testo Pizzeria",
		Description: "Neapolitan pies",
		DeliveryFee: 99,
		Cuisine:     []string{"Italian"},
		Menu: []domain.MenuItem{
			{ID: "m-pizza", Name: "Margherita", Price: 420, Category: "pizza", RestaurantID: "r-pizzeria", Available: true},
			{ID: "m-cola", Name: "Cola", Price: 100, Category: "drinks", RestaurantID: "r-pizzeria", Available: true},
		},
		WorkingHours: everyDay("00:00", "23:59"),
		Reviews: []domain.Review{
			{ID: "rv-1", UserName: "Pat", Rating: 5, Comment: "Great", Date: "01.05.2026"},
		},
	}
	shut := domain.Restaurant{
		ID:           "r-shut",
		Name:         "Shut Sushi",
		Description:  "Never open",
		DeliveryFee:  50,
		Cuisine:      []string{"Japanese"},
		Menu:         []domain.MenuItem{{ID: "m-roll", Name: "Roll", Price: 300, Category: "sushi", RestaurantID: "r-shut", Available: true}},
		WorkingHours: closedWeek(),
	}
	return catalog.New(
		[]domain.Restaurant{pizzeria, shut},
		[]string{"all", "pizza", "drinks", "sushi"},
		[]string{"Italian", "Japanese"},
	)
}

func newTestStore(kv storage.KeyValue, opts ...service.StoreOption) *service.Store {
	if kv == nil {
		kv = storage.NewMemoryKV()
	}
	return service.NewStore(
		fixtureCatalog(),
		storage.NewSnapshotStore(kv),
		service.NewPromoEngine(service.DefaultPromoCodes()),
		opts...,
	)
}

func menuItem(id string) domain.MenuItem {
	item, ok := fixtureCatalog().MenuItem("r-pizzeria", id)
	if !ok {
		panic("unknown fixture menu item " + id)
	}
	return *item
}
