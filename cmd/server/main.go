package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/hamsefx10-lgtm/revlo/internal/adapters/web"
	"github.com/hamsefx10-lgtm/revlo/internal/core"
	"github.com/hamsefx10-lgtm/revlo/internal/db"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ledger := core.NewLedger(pool)
	svcs := web.Services{
		Users:     core.NewUserService(pool),
		Accounts:  core.NewAccountService(pool, ledger),
		Ledger:    ledger,
		Transfers: core.NewTransferService(pool, ledger),
		Expenses:  core.NewExpenseService(pool, ledger),
		Payments:  core.NewPaymentService(pool, ledger),
		Sales:     core.NewSalesService(pool, ledger),
		Purchases: core.NewPurchaseService(pool),
		Partners:  core.NewPartnerService(pool),
		Till:      core.NewTillService(pool),
		Assets:    core.NewAssetService(pool, ledger),
		Reports:   core.NewReportingService(pool),
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := web.NewHandler(svcs, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
