package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/config"
	"github.com/ShujaShah/starte/internal/infrastructure/database"
	"github.com/ShujaShah/starte/internal/infrastructure/repositories"
	"github.com/ShujaShah/starte/internal/logging"
	"github.com/ShujaShah/starte/internal/services"
)

// Operator check: connect, migrate, report table sizes and optionally promote a user to admin.
func main() {
	promote := flag.String("promote", "", "email of a user to promote to admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(os.Stderr, cfg.Env, cfg.LogLevel)

	fmt.Println("Database check")
	fmt.Println("==============")

	db, err := database.Open(cfg.DSN, true)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Ping(db); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("✓ Database connection successful")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("✓ AutoMigrate completed successfully")

	ctx := context.Background()
	users := repositories.NewUserRepository(db)
	userCount, err := users.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to query users table: %v", err)
	}
	fmt.Printf("✓ Users table accessible (current count: %d)\n", userCount)

	var policyCount int64
	if err := db.Raw("SELECT COUNT(*) FROM casbin_rule").Scan(&policyCount).Error; err != nil {
		log.Fatalf("Failed to query casbin_rule table: %v", err)
	}
	fmt.Printf("✓ Casbin rules table accessible (current count: %d)\n", policyCount)

	if *promote == "" {
		return
	}
	user, err := users.FindByEmail(ctx, *promote)
	if err != nil {
		log.Fatalf("Failed to find %s: %v", *promote, err)
	}
	svc := services.NewUserService(users, logging.NewSlogAuditLogger(logger))
	if _, err := svc.ChangeRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		log.Fatalf("Failed to promote %s: %v", *promote, err)
	}
	fmt.Printf("✓ %s is now an admin\n", user.Email)
}
