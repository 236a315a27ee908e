package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/recipe-catalog/internal/app"
	"github.com/yungbote/recipe-catalog/internal/services"
)

func main() {
	file := flag.String("file", "catalog.yaml", "YAML seed file to import")
	flag.Parse()

	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	f, err := os.Open(*file)
	if err != nil {
		a.Log.Error("Open seed file failed", "file", *file, "error", err)
		a.Close()
		os.Exit(1)
	}
	defer f.Close()

	seed, err := services.ParseSeed(f)
	if err != nil {
		a.Log.Error("Parse seed file failed", "file", *file, "error", err)
		a.Close()
		os.Exit(1)
	}
	report, err := services.ImportSeed(ctx, a.Services.Catalog, a.Log, seed)
	if err != nil {
		a.Log.Error("Seed import failed", "file", *file, "error", err)
		a.Close()
		os.Exit(1)
	}
	fmt.Printf("categories=%d ingredients=%d recipes=%d skipped=%d\n",
		report.CategoriesCreated, report.IngredientsCreated, report.RecipesCreated, len(report.Skipped))
}
