package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intechdl/config"
	"intechdl/router"
	"intechdl/services"
	util "intechdl/utils"
	ytdlp "intechdl/yt-dlp"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Config error")
	}

	configureLogging(cfg)
	gin.SetMode(cfg.GinMode)

	if err := util.EnsureDirectory(cfg.DownloadDir); err != nil {
		log.Fatal().Err(err).Msg("❌ Cannot prepare download directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CleanupMaxAge > 0 {
		go cleanupLoop(ctx, cfg.DownloadDir, cfg.CleanupMaxAge, cfg.CleanupInterval)
	}

	runner := ytdlp.NewRunner(cfg.YTDLPPath)
	dispatcher := services.NewDispatcher(
		runner,
		services.OptionSettings{OutputDir: cfg.DownloadDir, Verbose: cfg.YTDLPVerbose},
		util.NewDownloadSlots(cfg.MaxConcurrentDownloads),
	)

	r := router.SetupRouter(router.Dependencies{
		Dispatcher: dispatcher,
		Prober:     runner,
		RateLimit:  router.RateLimitConfig{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Info().Msg("Shutting down, waiting for in-flight requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("download_dir", cfg.DownloadDir).Msg("🚀 Server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("❌ Server failed")
	}
	<-shutdownDone
}

func configureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func cleanupLoop(ctx context.Context, dir string, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		removed, err := util.DeleteFilesOlderThan(dir, maxAge)
		if err != nil {
			log.Error().Err(err).Msg("❌ Cleanup error")
		} else if removed > 0 {
			log.Info().Int("removed", removed).Msg("[Cleanup] removed old files")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
