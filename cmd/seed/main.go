// seed loads a demo company with two users and a small chart of accounts so
// the API can be exercised right after a fresh migrate. Running it twice
// leaves existing rows untouched.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

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

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("seeding demo company...")
	var companyID int
	err = tx.QueryRow(ctx,
		"SELECT id FROM companies WHERE name = 'Revlo Demo'",
	).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
			INSERT INTO companies (name, currency)
			VALUES ('Revlo Demo', 'USD')
			RETURNING id`,
		).Scan(&companyID)
	}
	if err != nil {
		log.Fatalf("seed company: %v", err)
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	staffHash, err := bcrypt.GenerateFromPassword([]byte("staff123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	log.Println("seeding users...")
	_, err = tx.Exec(ctx, `
		INSERT INTO users (company_id, username, password_hash, role)
		VALUES
		    ($1, 'admin', $2, 'admin'),
		    ($1, 'cashier', $3, 'staff')
		ON CONFLICT (username) DO NOTHING`,
		companyID, string(adminHash), string(staffHash),
	)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}

	log.Println("seeding accounts...")
	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (company_id, name, type, currency)
		VALUES
		    ($1, 'Till Cash',    'CASH',         'USD'),
		    ($1, 'Main Bank',    'BANK',         'USD'),
		    ($1, 'Mobile Wallet','MOBILE_MONEY', 'USD')
		ON CONFLICT (company_id, name) DO NOTHING`,
		companyID,
	)
	if err != nil {
		log.Fatalf("seed accounts: %v", err)
	}

	log.Println("seeding partners...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (company_id, name, phone)
		VALUES ($1, 'Walk-in Customer', NULL)
		ON CONFLICT (company_id, name) DO NOTHING`,
		companyID,
	)
	if err != nil {
		log.Fatalf("seed customers: %v", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO vendors (company_id, name, phone)
		VALUES ($1, 'General Supplies Co', NULL)
		ON CONFLICT (company_id, name) DO NOTHING`,
		companyID,
	)
	if err != nil {
		log.Fatalf("seed vendors: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}
	log.Printf("seed complete, company id %d (admin/admin123, cashier/staff123)", companyID)
}
