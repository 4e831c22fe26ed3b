package main

import (
	"log/slog"
	"net/http"
	"os"

	"techblog/internal/config"
	"techblog/internal/db"
	"techblog/internal/server"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}

	srv, err := server.New(database, cfg, logger, "web/templates")
	if err != nil {
		logger.Error("init server", "err", err)
		os.Exit(1)
	}

	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		logger.Error("serve", "err", err)
		os.Exit(1)
	}
}
