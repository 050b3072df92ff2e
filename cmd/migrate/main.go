// migrate applies the database schema in migrations/schema.sql. The schema
// uses CREATE TABLE IF NOT EXISTS throughout, so re-running it is safe.
//
// Usage: go run ./cmd/migrate
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

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

	schema, err := os.ReadFile("migrations/schema.sql")
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}

	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	log.Println("schema applied")
}
