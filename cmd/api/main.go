package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/practiva/ledger/internal/config"
	"github.com/practiva/ledger/internal/database"
	"github.com/practiva/ledger/internal/export"
	ledgerHttp "github.com/practiva/ledger/internal/http"
	exportHandler "github.com/practiva/ledger/internal/http/export"
	ledgerHandler "github.com/practiva/ledger/internal/http/ledger"
	shiftHandler "github.com/practiva/ledger/internal/http/shift"
	walletHandler "github.com/practiva/ledger/internal/http/wallet"
	"github.com/practiva/ledger/internal/ledger"
	ledgerStore "github.com/practiva/ledger/internal/ledger/store"
	"github.com/practiva/ledger/internal/money"
	"github.com/practiva/ledger/internal/shift"
	shiftStore "github.com/practiva/ledger/internal/shift/store"
	"github.com/practiva/ledger/internal/wallet"
	walletStore "github.com/practiva/ledger/internal/wallet/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	formatter, err := money.NewFormatter(cfg.Ledger.Currency)
	if err != nil {
		slog.Error("failed to set up currency formatting", "error", err)
		os.Exit(1)
	}

	var (
		ledgerService = ledger.NewService(ledgerStore.New(db))
		walletService = wallet.NewService(walletStore.New(db), ledgerService)
		shiftService  = shift.NewService(shiftStore.New(db))
		exportService = export.NewService(ledgerService)
	)

	var (
		transactionH = ledgerHandler.NewHandler(ledgerService, formatter)
		walletH      = walletHandler.NewHandler(walletService, formatter)
		shiftH       = shiftHandler.NewHandler(shiftService, formatter)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := ledgerHttp.New(cfg.Auth.Secret, transactionH, walletH, shiftH, exportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
