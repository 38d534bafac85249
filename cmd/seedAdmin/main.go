package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"estateadmin/frontend/login"
	"estateadmin/infrastructure/sqlite"
)

type seedConfig struct {
	SQLitePath string `env:"SQLITE_PATH"    env-default:"estateadmin.db"`
	Username   string `env:"ADMIN_USERNAME" env-default:"admin"`
	Password   string `env:"ADMIN_PASSWORD" env-required:"true"`
}

func main() {
	_ = godotenv.Load()

	var cfg seedConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("read env: %v", err)
	}

	if err := seed(context.Background(), cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	fmt.Printf("seeded admin user (username=%s)\n", cfg.Username)
}

// seed creates the account, or resets its password when it already exists.
func seed(ctx context.Context, cfg seedConfig) error {
	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return login.UpsertUserPasswordHash(ctx, db, cfg.Username, cfg.Password)
}
