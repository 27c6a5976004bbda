// Command seed populates a fresh database with a default user and a
// couple of sample transactions, mirroring what a new installation
// needs to be usable right away.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/auth"
	"github.com/ddsapp/cashflow/internal/config"
	"github.com/ddsapp/cashflow/internal/database"
	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/repository"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

const (
	defaultUsername = "defaultuser"
	defaultPassword = "defaultpassword"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	store := repository.NewTransactionRepository(db)
	rules := repository.NewRecurringRepository(db)
	svc := ledger.NewService(store, rules)

	user, err := seedUser(ctx, users)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	existing, err := svc.List(ctx, user.UserID, ledger.Filter{})
	if err != nil {
		log.Fatalf("Failed to list transactions: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("User %q already has %d transactions, skipping sample data", user.Username, len(existing))
		return
	}

	samples := []*models.Transaction{
		{
			UserID:      user.UserID,
			Date:        time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
			Status:      taxonomy.StatusBusiness,
			Type:        taxonomy.TypeIncome,
			Category:    taxonomy.CategorySalary,
			Subcategory: taxonomy.SubcategoryMainSalary,
			Amount:      decimal.RequireFromString("50000.00"),
			Comment:     "Зарплата за июль",
		},
		{
			UserID:      user.UserID,
			Date:        time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
			Status:      taxonomy.StatusPersonal,
			Type:        taxonomy.TypeExpense,
			Category:    taxonomy.CategoryFood,
			Subcategory: taxonomy.SubcategoryProducts,
			Amount:      decimal.RequireFromString("5000.00"),
			Comment:     "Продукты в Ашане",
		},
	}
	for _, tx := range samples {
		if err := svc.Create(ctx, tx); err != nil {
			log.Fatalf("Failed to create sample transaction: %v", err)
		}
		log.Printf("Created transaction %d (%s %s)", tx.TransactionID, tx.Type, tx.Amount.StringFixed(2))
	}

	log.Printf("Seed complete: user %q, password %q", defaultUsername, defaultPassword)
}

func seedUser(ctx context.Context, users ledger.UserStore) (*models.User, error) {
	hash, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: defaultUsername, PasswordHash: hash}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ledger.ErrExists) {
			log.Printf("User %q already exists", defaultUsername)
			return users.GetUserByUsername(ctx, defaultUsername)
		}
		return nil, err
	}
	log.Printf("Created user %q", defaultUsername)
	return user, nil
}
