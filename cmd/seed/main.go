package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/giggleglory/backoffice/internal/taxonomy"
	"github.com/giggleglory/backoffice/pkg/config"
	"github.com/giggleglory/backoffice/pkg/db"
	"github.com/giggleglory/backoffice/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	resolver, err := taxonomy.NewResolver(taxonomy.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create reference resolver", err)
		os.Exit(1)
	}

	counts, err := taxonomy.Seed(ctx, resolver)
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"categories": counts[taxonomy.KindCategory],
		"age_groups": counts[taxonomy.KindAgeGroup],
		"brands":     counts[taxonomy.KindBrand],
	}), "seed.complete")
	fmt.Println("seeded categories, age groups and brands")
}
