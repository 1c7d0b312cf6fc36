package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pos/internal/auth"
	"pos/internal/config"
	"pos/internal/db"
	httpapi "pos/internal/http"
	"pos/internal/repository"
	"pos/internal/service"
	"pos/internal/session"
	"pos/internal/suggest"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	users, err := auth.LoadDirectory(cfg.UsersFile)
	if err != nil {
		log.Fatalf("users error: %v", err)
	}

	ctx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	var repo service.Repository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database error: %v", err)
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Fatalf("migration error: %v", err)
		}
		repo = repository.New(pool)
		log.Printf("using postgres storage")
	} else {
		repo = repository.NewMemory()
		log.Printf("DATABASE_URL not set, using in-memory storage")
	}

	var suggester suggest.Suggester = suggest.Disabled{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := suggest.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("gemini error: %v", err)
		}
		defer gemini.Close()
		suggester = gemini
	}

	sessions := session.NewStore(cfg.SessionTTL)
	go sweepSessions(ctx, sessions)

	svc := service.New(repo, users, sessions, suggester, service.Options{
		Buyers:        cfg.Buyers,
		WhatsAppPhone: cfg.WhatsAppPhone,
		PublicBaseURL: cfg.PublicBaseURL,
		StrictPrice:   cfg.ImportStrictPrice,
	})
	handler := httpapi.NewHandler(svc, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(handler)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("pos server listening on %s (%d users)", server.Addr, users.Len())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil {
			log.Printf("force close failed: %v", closeErr)
		}
	}
}

func sweepSessions(ctx context.Context, sessions *session.Store) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Sweep(); removed > 0 {
				log.Printf("expired %d sessions", removed)
			}
		}
	}
}
