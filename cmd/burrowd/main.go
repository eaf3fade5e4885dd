package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/amphipod/internal/config"
	"github.com/lawnchairsociety/amphipod/internal/database"
	"github.com/lawnchairsociety/amphipod/internal/logger"
	"github.com/lawnchairsociety/amphipod/internal/search"
	"github.com/lawnchairsociety/amphipod/internal/server"
	"github.com/lawnchairsociety/amphipod/internal/solver"
)

func main() {
	configFile := flag.String("config", "data/amphipod.yaml", "Path to config YAML file")
	loggingConfig := flag.String("logging", "", "Path to logging config YAML file (default: the -config file)")
	telnetAddr := flag.String("telnet", "", "Telnet listen address (overrides server.telnet_addr)")
	wsAddr := flag.String("ws", "", "WebSocket listen address (overrides server.websocket_addr)")
	dbFile := flag.String("db", "", "SQLite solution cache; enables the cache (overrides store settings)")
	flag.Parse()

	if *loggingConfig == "" {
		*loggingConfig = *configFile
	}

	// Initialize logger first (before any logging)
	logConfig, logErr := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()
	if logErr != nil {
		logger.Warning("Failed to load logging config, using defaults", "path", *loggingConfig, "error", logErr)
	}

	logger.Info("Starting amphipod solve server")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
	}
	if *telnetAddr != "" {
		cfg.Server.TelnetAddr = *telnetAddr
	}
	if *wsAddr != "" {
		cfg.Server.WebSocketAddr = *wsAddr
	}
	if *dbFile != "" {
		cfg.Store.Enabled = true
		cfg.Store.Driver = "sqlite"
		cfg.Store.SQLitePath = *dbFile
	}

	var store solver.Store
	if cfg.Store.Enabled {
		db, err := database.OpenWithConfig(cfg.Store.DatabaseConfig())
		if err != nil {
			log.Fatalf("Failed to open solution cache: %v", err)
		}
		defer db.Close()

		count, err := db.CountSolutions()
		if err != nil {
			logger.Warning("Failed to count cached solutions", "error", err)
		}
		logger.Info("Solution cache opened", "driver", cfg.Store.Driver, "solutions", count)
		store = db
	} else {
		logger.Info("Solution cache disabled")
	}

	var opts []search.Option
	if cfg.Search.ProgressEvery > 0 {
		opts = append(opts, search.WithProgressEvery(cfg.Search.ProgressEvery))
	}
	srv := server.NewServer(cfg, solver.NewService(store, opts...))

	origins := cfg.Server.WebSocket.AllowedOrigins
	if len(origins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(origins) == 1 && origins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", origins)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Telnet server error: %v", err)
		}
	}()

	if cfg.Server.WebSocketAddr != "" {
		go func() {
			if err := srv.StartWebSocket(cfg.Server.WebSocketAddr); err != nil {
				log.Fatalf("WebSocket server error: %v", err)
			}
		}()
	}

	logger.Info("Solve server running",
		"telnet_addr", cfg.Server.TelnetAddr,
		"websocket_addr", cfg.Server.WebSocketAddr,
		"max_expanded", cfg.Server.MaxExpanded)
	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	srv.Shutdown()
	logger.Info("Server stopped")
}
