package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"foodtruck-ordering/internal/config"
	"foodtruck-ordering/internal/db"
	"foodtruck-ordering/internal/importer"
	"foodtruck-ordering/internal/logging"
	categoryrepo "foodtruck-ordering/internal/repository/category"
	menurepo "foodtruck-ordering/internal/repository/menu"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to menu CSV (category,name,description,price,available,modifier.name,modifier.price)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := logging.New("importer", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, categoryrepo.NewPostgres(pool, logger), menurepo.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d menu items in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
