// Command seed resets the Mongo database to the development fixtures.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/bookstore/bookstore/internal/infrastructure/config"
	dbmongo "github.com/bookstore/bookstore/internal/infrastructure/db/mongo"
	"github.com/bookstore/bookstore/pkg/logger"
)

type seedConfig struct {
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	BcryptCost int    `env:"BCRYPT_COST, default=12"`
	Mongo      config.MongoConfig
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "bookstore-seed"})

	client, db, err := dbmongo.Connect(ctx, dbmongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	res, err := dbmongo.Seed(ctx, db, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().Int("users", res.Users).Int("books", res.Books).Str("database", cfg.Mongo.Database).Msg("database seeded")
	for _, line := range []string{
		"admin: admin@test.com / admin123",
		"user:  user@test.com / user123",
	} {
		log.Info().Msg(line)
	}
}
