package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pos/internal/config"
	"pos/internal/db"
	"pos/internal/domain"
	"pos/internal/excel"
	"pos/internal/repository"
)

type options struct {
	filePath    string
	owner       string
	strictPrice bool
	persist     bool
}

func main() {
	opts := parseFlags()

	products, err := readProducts(opts)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("parsed %d products from %s", len(products), opts.filePath)

	if !opts.persist {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(products); err != nil {
			log.Fatalf("write products: %v", err)
		}
		return
	}

	databaseURL, err := config.LoadDatabaseURL()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	repo := repository.New(pool)
	if err := repo.ReplaceProducts(ctx, opts.owner, products); err != nil {
		log.Fatalf("store products: %v", err)
	}
	if err := repo.LogAction(ctx, opts.owner, domain.ActionImport, "Products imported",
		filepath.Base(opts.filePath)+" via import_products"); err != nil {
		log.Printf("log action: %v", err)
	}
	log.Printf("import complete: owner=%s products=%d", opts.owner, len(products))
}

func readProducts(opts options) ([]domain.Product, error) {
	file, err := os.Open(opts.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return excel.ImportProducts(filepath.Base(opts.filePath), file, excel.Options{StrictPrice: opts.strictPrice})
}

func parseFlags() options {
	var opts options
	flag.StringVar(
		&opts.filePath,
		"file",
		"products.xlsx",
		"path to the product spreadsheet (.xlsx or .csv)",
	)
	flag.StringVar(
		&opts.owner,
		"owner",
		"",
		"username whose product list is replaced (required with -persist)",
	)
	flag.BoolVar(
		&opts.strictPrice,
		"strict-price",
		false,
		"reject rows with a non-numeric or negative price instead of importing them at 0",
	)
	flag.BoolVar(
		&opts.persist,
		"persist",
		false,
		"store the products in DATABASE_URL instead of printing them",
	)
	flag.Parse()

	opts.owner = strings.TrimSpace(opts.owner)
	if opts.persist && opts.owner == "" {
		log.Fatalf("-owner is required with -persist")
	}
	return opts
}
