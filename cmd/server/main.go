package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ddsapp/cashflow/internal/ai"
	"github.com/ddsapp/cashflow/internal/bot"
	"github.com/ddsapp/cashflow/internal/config"
	"github.com/ddsapp/cashflow/internal/database"
	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/memstore"
	"github.com/ddsapp/cashflow/internal/repository"
	"github.com/ddsapp/cashflow/internal/scheduler"
	"github.com/ddsapp/cashflow/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store ledger.Store
		users ledger.UserStore
		rules ledger.RecurringStore
	)
	if cfg.DatabaseURI != "" {
		db, err := database.New(ctx, cfg.DatabaseURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("Connected to database")

		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Database migrations completed")

		store = repository.NewTransactionRepository(db)
		users = repository.NewUserRepository(db)
		rules = repository.NewRecurringRepository(db)
	} else {
		// Local development fallback: everything lives in memory and is
		// lost on restart.
		log.Println("DATABASE_URI not set, using in-memory store")
		mem := memstore.New()
		store, users, rules = mem, mem, mem
	}

	svc := ledger.NewService(store, rules)

	sched := scheduler.New(svc, rules)
	go sched.Start(ctx)

	if cfg.TelegramToken != "" {
		var aiClient *ai.Client
		if cfg.AIAPIKey != "" {
			aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
			log.Printf("AI client initialized (model: %s)", cfg.AIModel)
		} else {
			log.Println("AI client not configured, free-text entry disabled")
		}

		b, err := bot.New(cfg.TelegramToken, svc, users, aiClient)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		go func() {
			if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Bot error: %v", err)
			}
		}()
	} else {
		log.Println("TELEGRAM_TOKEN not set, bot disabled")
	}

	server := web.New(cfg.HTTPAddr, cfg.SessionSecret, svc, users)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server error: %v", err)
	}
}
