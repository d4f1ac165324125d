package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/db"
	"bookstore/internal/logger"
	"bookstore/internal/router"
	"bookstore/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Msg("Uygulama başlıyor")

	database := db.InitDB(cfg.DBUrl)
	defer database.Close()

	db.RunMigrations(database)

	if cfg.SeedDemo {
		if err := db.LoadFixtures(database); err != nil {
			log.Fatal().Err(err).Msg("Demo verisi yüklenemedi")
		}
		log.Info().Msg("Demo verisi yüklendi")
	}

	st := store.NewMySQLStore(database)
	r := router.SetupRouter(st, cfg.JWTSecret, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Sunucu %s portunda çalışıyor", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Sunucu hatası")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Kapatma sinyali alındı...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown başarısız")
	}

	log.Info().Msg("Sunucu kapatıldı")
}
