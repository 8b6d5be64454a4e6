package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abeelha/btc-tracker/internal/collector"
	"github.com/abeelha/btc-tracker/internal/config"
	"github.com/abeelha/btc-tracker/internal/dataset"
	"github.com/abeelha/btc-tracker/internal/db"
	"github.com/abeelha/btc-tracker/internal/external"
	"github.com/abeelha/btc-tracker/internal/notifications"
	"github.com/abeelha/btc-tracker/internal/repository"
	"github.com/abeelha/btc-tracker/internal/snapshot"
)

const banner = `
╔══════════════════════════════════════╗
║     BTC Tracker — Collector v1.0     ║
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
	cfg.Print()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := external.NewClient(external.ClientOptions{
		BaseURL:      cfg.APIBaseURL,
		CoinID:       cfg.CoinID,
		VsCurrency:   cfg.VsCurrency,
		LookbackDays: cfg.LookbackDays,
		Timeout:      time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
	})

	var archiver collector.Archiver
	if cfg.ArchiveEnabled {
		fmt.Printf("[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err := db.Connect(cfg.DSN())
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		repo := repository.NewArchiveRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "[DB] %v\n", err)
			os.Exit(1)
		}
		archiver = repo
	}

	svc := collector.NewService(collector.Options{
		Client:      client,
		Snapshots:   snapshot.NewStore(cfg.DataDir),
		DatasetPath: dataset.Path(cfg.DataDir),
		Notifier:    notifications.NewSender(cfg.WebhookURL, cfg.BotName),
		Archiver:    archiver,
	})

	if err := svc.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[COLLECT] run failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("[COLLECT] collection completed successfully")
}
