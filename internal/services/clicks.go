package services

import (
	"context"
	"log/slog"
	"time"

	"sniplink/internal/models"
	"sniplink/internal/repository"
	"sniplink/pkg/useragent"
	"sniplink/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var clicksDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "clicks_dropped_total",
	Help: "Click events dropped because the recording queue was full",
})

// CountryResolver resolves a raw client IP to an ISO country code, "" when
// unknown. Satisfied by GeoIPService.
type CountryResolver interface {
	Country(ip string) string
}

// RequestMeta is the untrusted request context captured at redirect time.
// Every field may be empty.
type RequestMeta struct {
	UserAgent   string
	Referer     string
	RemoteIP    string
	CountryHint string
}

// PendingClick is one click observation queued for out-of-band recording.
type PendingClick struct {
	LinkID    string
	ShortCode string
	Meta      RequestMeta
	At        time.Time
}

// ClickService records click events off the redirect hot path. Enqueue is
// non-blocking; a worker goroutine drains the queue, derives the
// privacy-preserving analytics fields and performs two independent
// best-effort writes: the event append and the aggregate counter increment.
// Neither failure is ever surfaced to the redirect that triggered it.
type ClickService struct {
	links     repository.LinkStore
	clicks    repository.ClickStore
	countries CountryResolver
	logger    *slog.Logger
	queue     chan PendingClick
}

func NewClickService(links repository.LinkStore, clicks repository.ClickStore, countries CountryResolver, logger *slog.Logger) *ClickService {
	return &ClickService{
		links:     links,
		clicks:    clicks,
		countries: countries,
		logger:    logger,
		queue:     make(chan PendingClick, 1000),
	}
}

// Start runs the recording loop until ctx is cancelled.
func (s *ClickService) Start(ctx context.Context) {
	s.logger.Info("Click worker starting")
	for {
		select {
		case click := <-s.queue:
			s.Record(ctx, click)
		case <-ctx.Done():
			s.logger.Info("Click worker stopping")
			return
		}
	}
}

// Enqueue schedules a click for recording and returns immediately. When the
// queue is full the click is dropped; a lost click is an accepted loss, a
// blocked redirect is not.
func (s *ClickService) Enqueue(click PendingClick) {
	select {
	case s.queue <- click:
	default:
		clicksDropped.Inc()
		s.logger.Warn("Click queue full, dropping click event", "short_code", click.ShortCode)
	}
}

// Record performs the two writes for one click. Failures are logged with
// enough context to diagnose and then swallowed; the writes stay independent
// so a failed append does not prevent the counter increment or vice versa.
func (s *ClickService) Record(ctx context.Context, click PendingClick) {
	event := s.buildEvent(click)

	if err := s.clicks.Append(ctx, event); err != nil {
		s.logger.Error("Failed to append click event",
			"short_code", click.ShortCode, "link_id", click.LinkID, "error", err)
	}

	if err := s.links.IncrementClicks(ctx, click.LinkID); err != nil {
		s.logger.Error("Failed to increment click counter",
			"short_code", click.ShortCode, "link_id", click.LinkID, "error", err)
	}
}

// buildEvent derives the classification fields. A malformed user agent,
// referer or IP degrades that one field to NULL; it never aborts recording.
func (s *ClickService) buildEvent(click PendingClick) *models.ClickEvent {
	ua := useragent.Classify(click.Meta.UserAgent)

	event := &models.ClickEvent{
		LinkID:     click.LinkID,
		OccurredAt: click.At,
		Device:     ua.Device,
		Browser:    ua.Browser,
		OS:         ua.OS,
	}

	if host := utils.RefererDomain(click.Meta.Referer); host != "" {
		event.RefererDomain = &host
	}

	if click.Meta.RemoteIP != "" {
		hash := utils.HashIdentity(click.Meta.RemoteIP)
		event.IdentityHash = &hash
	}

	country := click.Meta.CountryHint
	if country == "" && s.countries != nil && click.Meta.RemoteIP != "" {
		country = s.countries.Country(click.Meta.RemoteIP)
	}
	if country != "" {
		event.Country = &country
	}

	return event
}
