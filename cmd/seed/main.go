package main

import (
	"context"
	"flag"
	"os"

	"github.com/asad-as1/BlogBuddy/internal/config"
	"github.com/asad-as1/BlogBuddy/internal/database"
	"github.com/asad-as1/BlogBuddy/internal/middleware"
	"github.com/asad-as1/BlogBuddy/internal/seed"
)

func main() {
	userCount := flag.Int("users", 10, "number of users to create")
	postsPerUser := flag.Int("posts", 3, "posts per user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		middleware.Logger.Error("Refusing to seed a production database")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := seed.Run(context.Background(), db, *userCount, *postsPerUser); err != nil {
		middleware.Logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	middleware.Logger.Info("Seeding complete",
		"users", *userCount,
		"posts_per_user", *postsPerUser,
		"password", seed.DefaultPassword,
	)
}
