package handlers

import (
	"log/slog"

	"sniplink/internal/config"
	"sniplink/internal/services"
)

type Handler struct {
	cfg       config.Config
	logger    *slog.Logger
	resolver  *services.Resolver
	shortener *services.ShortenerService
	stats     *services.StatsService
	qr        *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	resolver *services.Resolver,
	shortener *services.ShortenerService,
	stats *services.StatsService,
	qr *services.QRService,
) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		resolver:  resolver,
		shortener: shortener,
		stats:     stats,
		qr:        qr,
	}
}
