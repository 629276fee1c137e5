package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/middleware"
)

// APIError is a non-2xx response from the backend. Message carries the
// body's "message" field verbatim when present, else a generic failure text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

// Client talks to the food-ordering backend's admin REST surface.
// Every call runs under a bounded timeout; a timeout is indistinguishable
// from any other network failure to callers.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL, e.g.
// "http://localhost:8080/admin". timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// --- Orders ---

// ListOrders returns every order. GET /order
func (c *Client) ListOrders(ctx context.Context) ([]OrderRecord, error) {
	var orders []OrderRecord
	if err := c.do(ctx, http.MethodGet, "/order", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByStatus returns orders filtered server-side to one status.
// GET /order/status/{STATUS}
func (c *Client) ListOrdersByStatus(ctx context.Context, status enum.OrderStatus) ([]OrderRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("list orders: invalid status %q", status)
	}
	var orders []OrderRecord
	if err := c.do(ctx, http.MethodGet, "/order/status/"+string(status), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByFilter dispatches to the all-orders or status-scoped list
// endpoint depending on the filter.
func (c *Client) ListOrdersByFilter(ctx context.Context, filter enum.Filter) ([]OrderRecord, error) {
	if status, ok := filter.Status(); ok {
		return c.ListOrdersByStatus(ctx, status)
	}
	return c.ListOrders(ctx)
}

// UpdateOrderStatus transitions one order to a new status and returns the
// updated record. PUT /order/{id}/status/{STATUS}
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status enum.OrderStatus) (OrderRecord, error) {
	if !status.Valid() {
		return OrderRecord{}, fmt.Errorf("update order status: invalid status %q", status)
	}
	var order OrderRecord
	path := "/order/" + url.PathEscape(id) + "/status/" + string(status)
	if err := c.do(ctx, http.MethodPut, path, nil, &order); err != nil {
		return OrderRecord{}, err
	}
	return order, nil
}

// DeleteOrder removes an order entirely. DELETE /order/{id}
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/order/"+url.PathEscape(id), nil, nil)
}

// --- Categories ---

// ListCategories returns all menu categories. GET /category
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.do(ctx, http.MethodGet, "/category", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory adds a category. POST /category
func (c *Client) CreateCategory(ctx context.Context, cat Category) (Category, error) {
	var created Category
	if err := c.do(ctx, http.MethodPost, "/category", cat, &created); err != nil {
		return Category{}, err
	}
	return created, nil
}

// UpdateCategory updates a category. PUT /category/{id}
func (c *Client) UpdateCategory(ctx context.Context, id string, cat Category) (Category, error) {
	var updated Category
	if err := c.do(ctx, http.MethodPut, "/category/"+url.PathEscape(id), cat, &updated); err != nil {
		return Category{}, err
	}
	return updated, nil
}

// DeleteCategory removes a category. DELETE /category/{id}
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/category/"+url.PathEscape(id), nil, nil)
}

// --- Food items ---

// ListFoods returns all food items. GET /food
func (c *Client) ListFoods(ctx context.Context) ([]FoodItem, error) {
	var foods []FoodItem
	if err := c.do(ctx, http.MethodGet, "/food", nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// CreateFood adds a food item under a category. POST /food/category/{id}
func (c *Client) CreateFood(ctx context.Context, categoryID string, food FoodItem) (FoodItem, error) {
	var created FoodItem
	path := "/food/category/" + url.PathEscape(categoryID)
	if err := c.do(ctx, http.MethodPost, path, food, &created); err != nil {
		return FoodItem{}, err
	}
	return created, nil
}

// UpdateFood updates a food item. PUT /food/{id}
func (c *Client) UpdateFood(ctx context.Context, id string, food FoodItem) (FoodItem, error) {
	var updated FoodItem
	if err := c.do(ctx, http.MethodPut, "/food/"+url.PathEscape(id), food, &updated); err != nil {
		return FoodItem{}, err
	}
	return updated, nil
}

// DeleteFood removes a food item. DELETE /food/{id}
func (c *Client) DeleteFood(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/food/"+url.PathEscape(id), nil, nil)
}

// --- Plumbing ---

// do issues one request and decodes a 2xx JSON body into out (when out is
// non-nil). Non-2xx responses become *APIError. A decode failure on a 2xx
// body is a fetch failure; callers must not apply partial results.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the backend's "message" field out of an error body.
func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "request failed"
}

// requestID reuses the inbound request's correlation ID when the call is
// made on behalf of an operator request, else mints a fresh one (poll ticks).
func requestID(ctx context.Context) string {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
