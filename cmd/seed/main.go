package main

import (
	"context"
	"log"
	"os"

	"storefront-be/internal/repository/specification"
	"storefront-be/internal/repository/unitofwork"
	"storefront-be/internal/seeddata"
	"storefront-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, os.Getenv("DB_LOG_LEVEL"))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)

	existing, err := factory.NewUnitOfWork(ctx).ProductRepository().Count(ctx, specification.NotSoftDeleted{})
	if err != nil {
		log.Fatalf("Error: Failed to count products: %v", err)
	}
	if existing > 0 {
		log.Printf("Catalog already has %d products, skipping...", existing)
		return
	}

	log.Println("Seeding demo catalog...")
	if err := seeddata.Load(ctx, factory); err != nil {
		log.Fatalf("Error: Seeding failed: %v", err)
	}
	log.Printf("✅ Seeded %d products", len(seeddata.Catalog))
}
