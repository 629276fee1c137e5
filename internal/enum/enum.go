package enum

import "fmt"

// OrderStatus is the closed set of statuses the backend assigns to orders.
// Typed so that every transition and display site switches exhaustively;
// adding a status is a compile-visible change, not a stray string.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Statuses lists every valid order status, in lifecycle order.
func Statuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further operator action is offered on s.
// DELIVERED and CANCELLED orders are done as far as the console is concerned.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled:
		return true
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing:
		return false
	}
	return false
}

// ParseStatus parses a wire status string into an OrderStatus.
func ParseStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

// Filter scopes an order fetch. FilterAll selects every order; any valid
// OrderStatus narrows the fetch to that status server-side.
type Filter string

const FilterAll Filter = "ALL"

// Valid reports whether f is ALL or a known status.
func (f Filter) Valid() bool {
	return f == FilterAll || OrderStatus(f).Valid()
}

// Matches reports whether an order with the given status belongs to the
// set this filter selects.
func (f Filter) Matches(s OrderStatus) bool {
	return f == FilterAll || OrderStatus(f) == s
}

// Status returns the status a narrowed filter selects. ok is false for ALL.
func (f Filter) Status() (OrderStatus, bool) {
	if f == FilterAll {
		return "", false
	}
	return OrderStatus(f), true
}

// ParseFilter parses an operator-supplied filter string.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown order filter %q", s)
	}
	return f, nil
}
