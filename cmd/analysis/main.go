package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"merger_analysis/pkg/core/analysis"
	"merger_analysis/pkg/core/concentration"
	"merger_analysis/pkg/core/config"
	"merger_analysis/pkg/core/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	var (
		subject    = flag.String("subject", "", "subject bank identifier (required)")
		target     = flag.String("target", "", "target bank identifier (required)")
		year       = flag.Int("year", 0, "reference deposit year (required)")
		areasPath  = flag.String("areas", "", "assessment-area spec file (JSON or HJSON)")
		auto       = flag.Bool("auto", false, "derive assessment area from the subject bank's footprint")
		configPath = flag.String("config", "config/analysis.yaml", "engine config file")
	)
	flag.Parse()

	if *subject == "" || *target == "" || *year == 0 {
		log.Fatal("Error: -subject, -target and -year are required.")
	}
	if (*areasPath == "") == !*auto {
		log.Fatal("Error: provide exactly one of -areas or -auto.")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[WARNING] Failed to load config: %v\n", err)
		fmt.Println("  Falling back to engine defaults")
		cfg = config.Default()
	}

	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		log.Fatalf("Error: database init failed: %v", err)
	}
	defer store.Close()

	engine := analysis.NewEngine(store.NewCrosswalkRepo(), store.NewDepositRepo(), concentration.Options{
		Precision:        cfg.HHIPrecision,
		FetchConcurrency: cfg.FetchConcurrency,
	})

	var screen *analysis.MergerScreen
	if *auto {
		screen, err = engine.ScreenAuto(ctx, *subject, *target, *year, cfg.MinNationalShare)
	} else {
		raw, readErr := os.ReadFile(*areasPath)
		if readErr != nil {
			log.Fatalf("Error: reading %s: %v", *areasPath, readErr)
		}
		screen, err = engine.ScreenWithSpec(ctx, raw, *subject, *target, *year)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Println(screen.Summary())
	for _, w := range screen.Warnings {
		fmt.Printf("[WARNING] %s\n", w)
	}
	for _, row := range screen.FlatRows() {
		fmt.Println(strings.Join(row, "\t"))
	}
}
