package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/console/internal/enum"
)

// OrderRecord is an order as the backend returns it. The id and createdAt
// are server-assigned and immutable; createdAt is the sole ordering key for
// the operator queue. TotalPrice is taken as given and never recomputed here,
// the backend enforces that it equals the sum of item subtotals.
type OrderRecord struct {
	ID           string           `json:"id"`
	CustomerName string           `json:"customerName"`
	CreatedAt    time.Time        `json:"createdAt"`
	Status       enum.OrderStatus `json:"status"`
	TotalPrice   decimal.Decimal  `json:"totalPrice"`
	Items        []OrderLineItem  `json:"items"`
}

// OrderLineItem is a single line of an order.
type OrderLineItem struct {
	FoodName string          `json:"foodName"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Category is a menu category.
type Category struct {
	ID           string `json:"id"`
	CategoryName string `json:"categoryName"`
	ImageURL     string `json:"imageUrl"`
}

// FoodItem is a menu entry belonging to a category.
type FoodItem struct {
	ID          string          `json:"id"`
	FoodName    string          `json:"foodName"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}
