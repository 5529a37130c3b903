package handlers

import (
	"log/slog"
	"os"

	"sniplink/internal/config"
	"sniplink/internal/models"
	"sniplink/internal/repository"
	"sniplink/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestHandler() (*Handler, *gorm.DB) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.Link{}, &models.ClickEvent{})
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{AppHost: "app.test"}

	links := repository.NewGormLinkStore(db)
	clicks := repository.NewGormClickStore(db)
	cache := repository.NewNoopLinkCache()

	geoIP := services.NewGeoIPService(cfg, logger)
	recorder := services.NewClickService(links, clicks, geoIP, logger)
	resolver := services.NewResolver(cache, links, recorder, logger, 0)
	shortener := services.NewShortenerService(links, cache, logger)
	stats := services.NewStatsService(clicks)
	qr := services.NewQRService()

	h := NewHandler(cfg, logger, resolver, shortener, stats, qr)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}
