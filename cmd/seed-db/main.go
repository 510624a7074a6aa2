// Command seed-db upserts the snack catalog from a JSON file. It is an ops
// tool for refreshing catalog rows in place; the API server itself performs
// the one-time empty-table seed at startup and needs no tooling for that.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/ashkit/canteen-api/internal/domain/snack"
	"github.com/ashkit/canteen-api/internal/storage/postgres"
)

type snackJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func main() {
	var (
		databaseURL string
		snacksFile  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&snacksFile, "snacks-file", "db/seed/snacks.json", "path to snacks JSON file (plain or .gz)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, snacksFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, snacksFile string) error {
	snacks, err := readSnacks(snacksFile)
	if err != nil {
		return errors.Wrap(err, "read snacks file")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewSnackRepository(pool)

	slog.Info("upserting snacks", slog.Int("count", len(snacks)))

	for _, s := range snacks {
		if err := repo.Upsert(ctx, snack.Snack{ID: s.ID, Name: s.Name, Price: s.Price}); err != nil {
			return errors.Wrapf(err, "upsert snack %s", s.ID)
		}

		slog.Info("upserted snack", slog.String("id", s.ID), slog.String("name", s.Name))
	}

	return nil
}

// readSnacks parses the snacks file, transparently decompressing .gz input.
func readSnacks(path string) ([]snackJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer gz.Close()
		r = gz
	}

	var snacks []snackJSON
	if err := json.NewDecoder(r).Decode(&snacks); err != nil {
		return nil, errors.Wrap(err, "parse JSON")
	}
	return snacks, nil
}
