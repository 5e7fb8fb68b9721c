package main // Drops and recreates the full schema. Destructive; development only.

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/accuaim/accuaim-server/internal/config"
	"github.com/accuaim/accuaim-server/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Rebuild(ctx, db); err != nil {
		log.Fatalf("rebuild: %v", err)
	}
	log.Printf("schema rebuilt on %s/%s", cfg.DBHost, cfg.DBName)
}
