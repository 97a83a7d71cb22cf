package model

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the linear lifecycle of an order.
type OrderStatus int

const (
	StatusQueued OrderStatus = iota
	StatusPickingUp
	StatusProcessing
	StatusDelivering
	StatusCompleted
)

// DefaultOrderCap bounds the number of orders kept in a session.
const DefaultOrderCap = 40

// String returns the canonical name of the status.
func (s OrderStatus) String() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusPickingUp:
		return "PickingUp"
	case StatusProcessing:
		return "Processing"
	case StatusDelivering:
		return "Delivering"
	case StatusCompleted:
		return "Completed"
	default:
		return "unknown"
	}
}

// ParseOrderStatus converts a canonical name back into a status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for st := StatusQueued; st <= StatusCompleted; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	return StatusQueued, fmt.Errorf("unknown order status %q", s)
}

// IsTerminal reports whether the status is Completed.
func (s OrderStatus) IsTerminal() bool { return s == StatusCompleted }

// Next returns the following status. Completed is terminal and maps to itself.
func (s OrderStatus) Next() OrderStatus {
	if s >= StatusCompleted {
		return StatusCompleted
	}
	return s + 1
}

// MarshalText implements encoding.TextMarshaler.
func (s OrderStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *OrderStatus) UnmarshalText(b []byte) error {
	st, err := ParseOrderStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Order is a laundry job moving through pickup, processing and delivery.
type Order struct {
	ID                  string      `json:"id"`
	CreatedAt           time.Time   `json:"created_at"`
	Status              OrderStatus `json:"status"`
	HouseID             string      `json:"house_id"`
	LaundryID           string      `json:"laundry_id"`
	HelperID            string      `json:"helper_id,omitempty"`
	MachineFailed       bool        `json:"machine_failed,omitempty"`
	SecondCycleUnlocked bool        `json:"second_cycle_unlocked,omitempty"`
	HomeModeAtCreation  bool        `json:"home_mode_at_creation,omitempty"`
	Rating              *int        `json:"rating,omitempty"`
	RatingReason        string      `json:"rating_reason,omitempty"`
}

// Advance returns a copy of the order moved to its next status.
func (o Order) Advance() Order {
	o.Status = o.Status.Next()
	return o
}

// HasHelper reports whether a helper is assigned.
func (o Order) HasHelper() bool { return o.HelperID != "" }

// Rate returns a pointer to r, convenient for building orders with a rating.
func Rate(r int) *int { return &r }

// CapOrders keeps the newest n orders, trimming the oldest first. The
// returned slice never aliases the input.
func CapOrders(orders []Order, n int) []Order {
	if n <= 0 {
		n = DefaultOrderCap
	}
	start := 0
	if len(orders) > n {
		start = len(orders) - n
	}
	return append([]Order(nil), orders[start:]...)
}

// ActiveOrders returns the orders that are not Completed.
func ActiveOrders(orders []Order) []Order {
	var res []Order
	for _, o := range orders {
		if !o.Status.IsTerminal() {
			res = append(res, o)
		}
	}
	return res
}
