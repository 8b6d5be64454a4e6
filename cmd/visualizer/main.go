package main

import (
	"fmt"
	"os"

	"github.com/abeelha/btc-tracker/internal/charts"
	"github.com/abeelha/btc-tracker/internal/config"
	"github.com/abeelha/btc-tracker/internal/dataset"
)

const banner = `
╔══════════════════════════════════════╗
║    BTC Tracker — Visualizer v1.0     ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	builder := charts.NewBuilder(cfg.ChartsDir)

	path := dataset.Path(cfg.DataDir)
	records, err := dataset.Load(path)
	if err != nil || len(records) == 0 {
		if _, perr := builder.WritePlaceholders(); perr != nil {
			fmt.Fprintf(os.Stderr, "[CHARTS] placeholder write failed: %v\n", perr)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "[CHARTS] dataset unreadable (%s): %v\n", path, err)
		} else {
			fmt.Fprintf(os.Stderr, "[CHARTS] dataset %s is empty — run the collector first\n", path)
		}
		os.Exit(1)
	}

	paths, err := builder.RenderAll(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CHARTS] render failed: %v\n", err)
		os.Exit(1)
	}

	summary, err := charts.Summarize(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[CHARTS] %v\n", err)
		os.Exit(1)
	}
	summary.Print()

	fmt.Println("[CHARTS] artifacts written:")
	for _, p := range paths {
		fmt.Printf("  - %s\n", p)
	}
}
