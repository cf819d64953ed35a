// Package app wires the database, the catalog syncer, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelmirror/modelmirror/internal/catalog"
	"github.com/modelmirror/modelmirror/internal/config"
	"github.com/modelmirror/modelmirror/internal/db"
	"github.com/modelmirror/modelmirror/internal/http/api"
	"github.com/modelmirror/modelmirror/internal/ratelimit"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(cfg config.AppConfig) error {
	conn, err := openDB(cfg)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the catalog mirror: migrations, the background syncer,
// and the REST and MCP endpoints. It blocks until ctx is canceled.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	serverCfg, err := config.LoadServerConfig(configPath)
	if err != nil {
		return err
	}

	conn, err := db.Open(serverCfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	syncer := catalog.NewSyncer(conn, catalog.SyncerOptions{
		URL:      serverCfg.CatalogURL,
		Interval: serverCfg.SyncInterval,
	})
	syncer.Start(ctx)

	engine := gin.New()
	engine.Use(gin.Recovery())
	if serverCfg.RateLimitPerSecond > 0 {
		limiter, errLimiter := buildLimiter(serverCfg)
		if errLimiter != nil {
			return errLimiter
		}
		engine.Use(ratelimit.Middleware(limiter, serverCfg.RateLimitPerSecond, nil))
	}
	api.RegisterRoutes(engine, conn, syncer)

	port := serverCfg.Port
	if port <= 0 {
		port = defaultPort
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("catalog mirror listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("app: shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", errServe)
	}
}

// buildLimiter picks the rate limiter backend: Redis when configured,
// otherwise a per-process in-memory window.
func buildLimiter(cfg config.ServerConfig) (ratelimit.Limiter, error) {
	if redisURL := cfg.RedisURL; redisURL != "" {
		return ratelimit.NewRedisLimiterFromURL(redisURL, "modelmirror")
	}
	return ratelimit.NewMemoryLimiter(), nil
}

func openDB(cfg config.AppConfig) (*gorm.DB, error) {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	serverCfg, err := config.LoadServerConfig(configPath)
	if err != nil {
		return nil, err
	}
	return db.Open(serverCfg.DatabaseDSN)
}
