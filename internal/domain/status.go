package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrderStatus is one stage of the fixed delivery-progress ladder.
// Stages only ever move forward; StatusDelivered is terminal.
type OrderStatus int

const (
	StatusReceived OrderStatus = iota
	StatusPreparing
	StatusOutForDelivery
	StatusDelivered
)

// LastOrderStatus is the terminal stage index.
const LastOrderStatus = StatusDelivered

var statusNames = [...]string{
	StatusReceived:       "Received",
	StatusPreparing:      "Preparing",
	StatusOutForDelivery: "Out for delivery",
	StatusDelivered:      "Delivered",
}

func (s OrderStatus) String() string {
	if s < StatusReceived || s > StatusDelivered {
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
	return statusNames[s]
}

// Next returns the successor stage. ok is false at the terminal stage.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	if s >= StatusDelivered {
		return StatusDelivered, false
	}
	return s + 1, true
}

func (s OrderStatus) Terminal() bool {
	return s >= StatusDelivered
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	for i, name := range statusNames {
		if strings.EqualFold(raw, name) {
			return OrderStatus(i), nil
		}
	}
	return StatusReceived, fmt.Errorf("unknown order status %q", raw)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	if s < StatusReceived || s > StatusDelivered {
		return nil, fmt.Errorf("order status %d out of range", int(s))
	}
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OrderTimeLayout is how order creation timestamps are stored. Older
// snapshots may carry a date-only form, which ParseOrderTime accepts.
const (
	OrderTimeLayout     = "02.01.2006 15:04"
	orderDateOnlyLayout = "02.01.2006"
)

func ParseOrderTime(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(OrderTimeLayout, raw, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(orderDateOnlyLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable order timestamp %q", raw)
	}
	return t, nil
}
