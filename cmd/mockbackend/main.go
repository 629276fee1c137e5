// mockbackend is an in-memory stand-in for the food-ordering backend's
// admin REST surface, for local development of the console. Data resets on
// every start.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
)

type server struct {
	mu     sync.Mutex
	orders map[string]backend.OrderRecord
	cats   map[string]backend.Category
	foods  map[string]backend.FoodItem
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	s := &server{
		orders: make(map[string]backend.OrderRecord),
		cats:   make(map[string]backend.Category),
		foods:  make(map[string]backend.FoodItem),
	}
	s.seed()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/order", s.listOrders)
		r.Get("/order/status/{status}", s.listOrdersByStatus)
		r.Put("/order/{id}/status/{status}", s.updateOrderStatus)
		r.Delete("/order/{id}", s.deleteOrder)

		r.Get("/category", s.listCategories)
		r.Post("/category", s.createCategory)
		r.Put("/category/{id}", s.updateCategory)
		r.Delete("/category/{id}", s.deleteCategory)

		r.Get("/food", s.listFoods)
		r.Post("/food/category/{cid}", s.createFood)
		r.Put("/food/{id}", s.updateFood)
		r.Delete("/food/{id}", s.deleteFood)
	})

	log.Printf("mock backend listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func (s *server) seed() {
	now := time.Now().UTC().Truncate(time.Second)
	samples := []struct {
		name   string
		age    time.Duration
		status enum.OrderStatus
		total  string
		items  []backend.OrderLineItem
	}{
		{"Asha Verma", 40 * time.Minute, enum.OrderStatusPending, "300.00", lines("Butter Naan", 4, "25.00", "Dal Makhani", 1, "200.00")},
		{"Rohit Sharma", 25 * time.Minute, enum.OrderStatusPending, "150.00", lines("Masala Dosa", 1, "150.00")},
		{"Priya Nair", 70 * time.Minute, enum.OrderStatusPreparing, "420.00", lines("Paneer Tikka", 2, "210.00")},
		{"Vikram Rao", 3 * time.Hour, enum.OrderStatusDelivered, "200.00", lines("Chole Bhature", 1, "120.00", "Lassi", 1, "80.00")},
		{"Meera Iyer", 5 * time.Hour, enum.OrderStatusDelivered, "560.00", lines("Thali Special", 2, "280.00")},
	}
	for _, smp := range samples {
		o := backend.OrderRecord{
			ID:           uuid.NewString(),
			CustomerName: smp.name,
			CreatedAt:    now.Add(-smp.age),
			Status:       smp.status,
			TotalPrice:   decimal.RequireFromString(smp.total),
			Items:        smp.items,
		}
		s.orders[o.ID] = o
	}

	cat := backend.Category{ID: uuid.NewString(), CategoryName: "North Indian"}
	s.cats[cat.ID] = cat
}

// lines builds line items from (name, qty, unitPrice) triples.
func lines(args ...any) []backend.OrderLineItem {
	var items []backend.OrderLineItem
	for i := 0; i+2 < len(args); i += 3 {
		name := args[i].(string)
		qty := args[i+1].(int)
		price := decimal.RequireFromString(args[i+2].(string))
		items = append(items, backend.OrderLineItem{
			FoodName: name,
			Quantity: qty,
			Price:    price,
			Subtotal: price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return items
}

// --- Orders ---

func (s *server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.orderSlice(func(backend.OrderRecord) bool { return true }))
}

func (s *server) listOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := enum.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "unknown status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.orderSlice(func(o backend.OrderRecord) bool { return o.Status == status }))
}

func (s *server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	status, err := enum.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "unknown status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[chi.URLParam(r, "id")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "order not found")
		return
	}
	o.Status = status
	s.orders[o.ID] = o
	writeJSON(w, http.StatusOK, o)
}

func (s *server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.orders[id]; !ok {
		writeMessage(w, http.StatusNotFound, "order not found")
		return
	}
	delete(s.orders, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) orderSlice(keep func(backend.OrderRecord) bool) []backend.OrderRecord {
	out := []backend.OrderRecord{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// --- Categories ---

func (s *server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []backend.Category{}
	for _, c := range s.cats {
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) createCategory(w http.ResponseWriter, r *http.Request) {
	var c backend.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.CategoryName == "" {
		writeMessage(w, http.StatusBadRequest, "categoryName is required")
		return
	}
	c.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats[c.ID] = c
	writeJSON(w, http.StatusCreated, c)
}

func (s *server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var c backend.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.cats[id]; !ok {
		writeMessage(w, http.StatusNotFound, "category not found")
		return
	}
	c.ID = id
	s.cats[id] = c
	writeJSON(w, http.StatusOK, c)
}

func (s *server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.cats[id]; !ok {
		writeMessage(w, http.StatusNotFound, "category not found")
		return
	}
	delete(s.cats, id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Foods ---

func (s *server) listFoods(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []backend.FoodItem{}
	for _, f := range s.foods {
		out = append(out, f)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) createFood(w http.ResponseWriter, r *http.Request) {
	var f backend.FoodItem
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil || f.FoodName == "" {
		writeMessage(w, http.StatusBadRequest, "foodName is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cats[chi.URLParam(r, "cid")]; !ok {
		writeMessage(w, http.StatusNotFound, "category not found")
		return
	}
	f.ID = uuid.NewString()
	s.foods[f.ID] = f
	writeJSON(w, http.StatusCreated, f)
}

func (s *server) updateFood(w http.ResponseWriter, r *http.Request) {
	var f backend.FoodItem
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.foods[id]; !ok {
		writeMessage(w, http.StatusNotFound, "food not found")
		return
	}
	f.ID = id
	s.foods[id] = f
	writeJSON(w, http.StatusOK, f)
}

func (s *server) deleteFood(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := s.foods[id]; !ok {
		writeMessage(w, http.StatusNotFound, "food not found")
		return
	}
	delete(s.foods, id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
