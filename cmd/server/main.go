package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"

	"waterhole/internal/config"
	"waterhole/internal/engine"
	"waterhole/internal/handlers"
	"waterhole/internal/middleware"
	"waterhole/internal/records"
	"waterhole/internal/session"
	"waterhole/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	store, err := newRecordStore(cfg, log)
	if err != nil {
		log.Error("failed to initialize record store", "error", err)
		os.Exit(1)
	}

	sessions, err := newSessionStore(cfg, log)
	if err != nil {
		log.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()

	eng := engine.NewEngine(system, store, sessions, metrics, log)
	server := handlers.NewServer(system, eng, metrics, log)

	handler := middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))(
		middleware.AuthMiddleware(server.Routes()),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting server", "addr", addr, "store", cfg.Store.Type, "sessions", cfg.Session.Type)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newRecordStore(cfg *config.Config, log *slog.Logger) (records.Client, error) {
	switch cfg.Store.Type {
	case "mongo":
		client, err := records.NewMongoClient(cfg.Store.URI, cfg.Store.Name)
		if err != nil {
			return nil, err
		}
		log.Info("connected to MongoDB", "database", cfg.Store.Name)
		return client, nil
	case "memory":
		log.Warn("using in-memory record store, data will not persist")
		return records.NewMemoryClient(), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}
}

func newSessionStore(cfg *config.Config, log *slog.Logger) (session.Store, error) {
	switch cfg.Session.Type {
	case "redis":
		store, err := session.NewRedisStore(cfg.Session.Addr, cfg.Session.Password)
		if err != nil {
			return nil, err
		}
		log.Info("connected to Redis", "addr", cfg.Session.Addr)
		return store, nil
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", cfg.Session.Type)
	}
}
