package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/handler"
	mw "github.com/dhaba-pos/console/internal/middleware"
	"github.com/dhaba-pos/console/internal/poller"
	"github.com/dhaba-pos/console/internal/service"
	"github.com/dhaba-pos/console/internal/store"
	"github.com/dhaba-pos/console/internal/ws"
)

// New creates a Chi router with all console routes wired up.
func New(client *backend.Client, st *store.Store, p *poller.Poller, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.RequestID)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// WebSocket route: live queue pushes to operator UIs
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	// Order queue and transitions
	ctrl := service.NewTransitionController(client, st, p)
	ordersHandler := handler.NewOrdersHandler(st, p, ctrl, hub)
	r.Route("/orders", ordersHandler.RegisterRoutes)

	// Dashboard (independent DELIVERED-scoped read model)
	dashboardHandler := handler.NewDashboardHandler(service.NewDashboard(client))
	r.Route("/dashboard", dashboardHandler.RegisterRoutes)

	// Menu plumbing: categories and food items proxied to the backend
	categoryHandler := handler.NewCategoryHandler(client)
	r.Route("/categories", categoryHandler.RegisterRoutes)

	foodHandler := handler.NewFoodHandler(client)
	r.Route("/foods", foodHandler.RegisterRoutes)

	return r
}
