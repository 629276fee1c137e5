package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/config"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/poller"
	"github.com/dhaba-pos/console/internal/router"
	"github.com/dhaba-pos/console/internal/store"
	"github.com/dhaba-pos/console/internal/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	client := backend.NewClient(cfg.BackendBaseURL, cfg.RequestTimeout)

	hub := ws.NewHub()
	go hub.Run()

	// Operators land on the pending queue first.
	st := store.New(enum.Filter(enum.OrderStatusPending))
	p := poller.New(client, st, cfg.PollInterval, hub)
	p.Start(st.Filter())
	defer p.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.New(client, st, p, hub),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Console listening on :%s (backend %s, poll every %s)",
			cfg.Port, cfg.BackendBaseURL, cfg.PollInterval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	// Stop polling before the server so no fetch completes into a dead view.
	p.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
