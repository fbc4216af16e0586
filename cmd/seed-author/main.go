package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/playmatatu/minigolf/internal/authors"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	name := os.Getenv("AUTHOR_NAME")
	if name == "" {
		name = "admin"
		log.Printf("Using default author name: %s", name)
	}

	token := os.Getenv("AUTHOR_TOKEN")
	if token == "" {
		token = "change-me-in-production"
		log.Printf("WARNING: Using default author token. Set AUTHOR_TOKEN env var in production!")
	}

	roles := []string{"author"}
	if err := authors.CreateAuthor(context.Background(), db, name, token, roles); err != nil {
		log.Fatalf("Failed to create author account: %v", err)
	}

	log.Printf("Author account created/updated")
	log.Printf("  Name:  %s", name)
	log.Printf("  Roles: %v", roles)
	log.Println("Log in with POST /api/v1/auth/login {\"author\": ..., \"token\": ...}")
}
