package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"infobot/internal/config"
	"infobot/internal/infrastructure"
	"infobot/internal/interfaces"
	"infobot/internal/interfaces/http"
	"infobot/internal/repository"
	"infobot/internal/usecases"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Pick the data source
	var source interfaces.RowSource
	switch cfg.DataSource {
	case config.SourceSheets:
		source, err = repository.NewSheetsSource(ctx, cfg.CredsFile, cfg.SheetID, log)
		if err != nil {
			log.Fatal("failed to create sheets source", zap.Error(err))
		}
	case config.SourceCSV:
		source = repository.NewCSVSource(cfg.CSVPath, log)
	case config.SourcePostgres:
		pg, err := repository.NewPostgresSource(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pg.Close()
		source = pg
	}

	cache := usecases.NewCache(source, cfg.CacheTTL, log)
	renderer := usecases.NewRenderer(cfg)
	sessions := infrastructure.NewSessionManager(2 * time.Second)
	limiter := infrastructure.NewChatRateLimiter(1, 5)

	telegramClient, err := infrastructure.NewTelegramClient(cfg.TelegramToken, log)
	if err != nil {
		log.Fatal("failed to connect to Telegram", zap.Error(err))
	}

	dispatcher := usecases.NewDispatcher(cfg, cache, sessions, limiter, renderer, telegramClient, log)

	// Warm the cache; a failing source is not fatal, the first
	// interaction will retry.
	if _, err := cache.Get(ctx, false); err != nil {
		log.Warn("initial content fetch failed", zap.Error(err))
	}

	// Admin API is optional: it only runs when credentials are set
	if cfg.JWTSecret != "" && cfg.AdminPassword != "" {
		auth, err := usecases.NewAuth(cfg)
		if err != nil {
			log.Fatal("failed to initialize admin auth", zap.Error(err))
		}

		r := gin.Default()
		http.SetupRoutes(r, cache, source, auth, http.NewMiddleware(cfg.JWTSecret), log)
		go func() {
			if err := r.Run(cfg.HTTPAddr); err != nil {
				log.Error("HTTP server stopped", zap.Error(err))
				os.Exit(1)
			}
		}()
		log.Info("admin API listening", zap.String("addr", cfg.HTTPAddr))
	} else {
		log.Info("admin API disabled (JWT_SECRET/ADMIN_PASSWORD not set)")
	}

	log.Info("bot connected", zap.String("username", telegramClient.Username()))

	for update := range telegramClient.Updates() {
		go dispatcher.HandleUpdate(update)
	}
}
