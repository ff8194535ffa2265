package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/agenthands/nasab/internal/cache"
	"github.com/agenthands/nasab/internal/config"
	"github.com/agenthands/nasab/internal/core"
	"github.com/agenthands/nasab/internal/core/federation"
	"github.com/agenthands/nasab/internal/driver"
	"github.com/agenthands/nasab/internal/logger"
	"github.com/agenthands/nasab/internal/server"
	"github.com/agenthands/nasab/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.Server.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, lg)
	if err != nil {
		lg.Fatal("Failed to connect to Memgraph", "uri", cfg.Memgraph.URI, "error", err)
	}
	defer d.Close(context.Background())

	graph := store.NewGraphStore(d)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := graph.BuildIndices(ctx); err != nil {
		lg.Warn("index build failed", "error", err)
	}
	cancel()

	var reads federation.GroupStore = graph
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(cfg.Redis, lg)
		if err != nil {
			lg.Warn("redis unavailable, serving without member cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer rc.Close()
			ttl, _ := cfg.Redis.CacheTTL()
			reads = cache.NewCachedStore(graph, rc, ttl, lg)
		}
	}

	svc := core.NewService(reads, graph, cfg, lg)
	r := server.NewServer(svc, lg).SetupRouter()

	lg.Info("Starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		lg.Fatal("server stopped", "error", err)
	}
}
