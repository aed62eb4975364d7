package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/rs/cors"
	"github.com/spf13/pflag"

	"github.com/neartasks/platform/internal/cache"
	"github.com/neartasks/platform/internal/config"
	"github.com/neartasks/platform/internal/gateway"
	"github.com/neartasks/platform/internal/lifecycle"
	"github.com/neartasks/platform/internal/session"
	"github.com/neartasks/platform/internal/storage"
	"github.com/neartasks/platform/internal/wallet"
)

func main() {
	flagSet := pflag.NewFlagSet("platform-api", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to YAML config file")
	listenAddr := flagSet.String("listen", "", "listen address override")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	blobs := storage.NewClient(cfg.BlobStoreURL, cfg.BlobStoreToken, cfg.BlobGatewayFmt)

	// One session per connected identity: its signer, gateway, cache, and
	// engine live for the lifetime of the process.
	sessions := session.NewManager(func(identity string) *session.Session {
		signer := wallet.NewBridgeClient(cfg.WalletBridgeURL, identity)
		gw := gateway.NewRPCClient(cfg.RPCURL, cfg.ContractID, signer)
		store := cache.New()
		return &session.Session{
			Identity: identity,
			Signer:   signer,
			Gateway:  gw,
			Cache:    store,
			Engine:   lifecycle.NewEngine(gw, signer, store, logger),
		}
	})

	mux := http.NewServeMux()
	RegisterRoutes(mux, sessions, blobs, []byte(cfg.SessionSecret), logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	slog.Info("Starting HTTP server", "addr", cfg.ListenAddr, "contract", cfg.ContractID)
	if err := http.ListenAndServe(cfg.ListenAddr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
