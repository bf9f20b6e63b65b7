// etl loads dataset snapshots into Postgres, pulls them from object
// storage, or generates a synthetic snapshot for local development.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/supplyboard/backend-go/internal/config"
	"github.com/supplyboard/backend-go/internal/repository/csv"
	"github.com/supplyboard/backend-go/internal/repository/postgres"
	"github.com/supplyboard/backend-go/internal/storage"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing the snapshot CSV files",
		Value:   "./data",
		EnvVars: []string{"DATA_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "etl",
		Usage: "Load, pull and generate supply chain dataset snapshots",
		Commands: []*cli.Command{
			{
				Name:  "load",
				Usage: "Load a snapshot directory into Postgres",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
				},
				Action: runLoad,
			},
			{
				Name:  "pull",
				Usage: "Download a snapshot from object storage",
				Flags: []cli.Flag{
					newDataDirFlag(),
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix of the snapshot",
					},
				},
				Action: runPull,
			},
			{
				Name:  "seed",
				Usage: "Generate a synthetic snapshot for local development",
				Flags: []cli.Flag{
					newDataDirFlag(),
					&cli.IntFlag{Name: "orders", Value: 5000},
					&cli.IntFlag{Name: "products", Value: 100},
					&cli.IntFlag{Name: "suppliers", Value: 20},
				},
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runLoad(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ctx := context.Background()
	if err := postgres.CreateTables(ctx, db); err != nil {
		return err
	}

	ds, err := csv.NewLoader(c.String("data-dir")).LoadDataset()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	log.Printf("Loading snapshot: %d orders, %d inventory, %d products, %d suppliers",
		len(ds.Orders), len(ds.Inventory), len(ds.Products), len(ds.Suppliers))

	// Each table loads in its own transaction; orders reference nothing at
	// the schema level so the four can run in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loadOrders(gctx, db, ds) })
	g.Go(func() error { return loadInventory(gctx, db, ds) })
	g.Go(func() error { return loadProducts(gctx, db, ds) })
	g.Go(func() error { return loadSuppliers(gctx, db, ds) })
	if err := g.Wait(); err != nil {
		return err
	}

	log.Println("Snapshot loaded successfully")
	return nil
}

func runPull(c *cli.Context) error {
	cfg := config.Load()
	store, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	ctx := context.Background()
	objects, err := store.ListObjects(ctx, c.String("prefix"))
	if err != nil {
		return err
	}

	destDir := c.String("data-dir")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	downloaded := 0
	for _, obj := range objects {
		name := filepath.Base(obj.Key)
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		if err := store.DownloadObject(ctx, obj.Key, filepath.Join(destDir, name)); err != nil {
			return err
		}
		log.Printf("Downloaded %s", name)
		downloaded++
	}
	if downloaded == 0 {
		return fmt.Errorf("no CSV objects found under prefix %q", c.String("prefix"))
	}

	log.Printf("Pulled %d files into %s", downloaded, destDir)
	return nil
}
