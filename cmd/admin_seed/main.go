// Seeds the initial admin account. Intended to run once against a fresh
// database; exits cleanly if the admin already exists.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"walletapi/internal/config"
	"walletapi/internal/models"
	"walletapi/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminName := os.Getenv("ADMIN_NAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}
	if adminName == "" {
		adminName = "Administrator"
	}

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}
	}()

	ctx := context.Background()
	repos := repositories.NewRepositories(db)

	if _, err := repos.Users.GetByEmail(ctx, adminEmail); err == nil {
		log.Println("Admin user already exists")
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.Fatal("Failed to look up admin user:", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.User{
		Name:     adminName,
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	if err := repos.Users.Create(ctx, admin); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin account created successfully")
}
