// seed-products creates the starter product catalogue. Products whose name
// already exists are left untouched, so it is safe to rerun.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-products
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/models"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	created, err := models.SeedProducts(ctx, models.CatalogueProducts())
	for _, name := range created {
		fmt.Printf("Created product: %q\n", name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed products: %v\n", err)
		os.Exit(1)
	}
	if len(created) == 0 {
		fmt.Println("All catalogue products already exist")
	}
}
