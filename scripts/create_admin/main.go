// Seeds the first admin account. Usage:
//
//	go run ./scripts/create_admin -username admin -email admin@example.com -password <secret>
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/silvergrain/portfoliobackend/config"
	"github.com/silvergrain/portfoliobackend/database"
)

func main() {
	username := flag.String("username", "admin", "display name for the admin account")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", "", "password, min 8 characters (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	user, err := database.SeedAdminUser(db, *username, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Created admin user %q (ID %d)", user.Email, user.ID)
}
