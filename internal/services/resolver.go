package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sniplink/internal/repository"
)

// ResolutionStatus is the typed outcome of resolving a short code. The
// non-redirect values double as the stable error reasons surfaced to the
// end user in the fallback redirect's query parameter.
type ResolutionStatus string

const (
	StatusRedirect     ResolutionStatus = "redirect"
	StatusNotFound     ResolutionStatus = "not_found"
	StatusInactive     ResolutionStatus = "inactive"
	StatusExpired      ResolutionStatus = "expired"
	StatusLimitReached ResolutionStatus = "limit_reached"
	// StatusReserved marks system paths like favicon.ico that are not short
	// codes at all: no lookup, no click.
	StatusReserved ResolutionStatus = "reserved"
)

// Outcome is the result of one resolution attempt. DestinationURL is only
// set when Status is StatusRedirect.
type Outcome struct {
	Status         ResolutionStatus
	DestinationURL string
}

var reservedPaths = map[string]bool{
	"favicon.ico": true,
	"robots.txt":  true,
}

// Resolver turns a short code into a redirect target or a typed failure,
// and schedules click recording without blocking the caller.
//
// Cache hits are served as-is: entries are not re-validated against expiry
// or click caps per request. Link mutations invalidate the cache entry, so
// staleness is bounded by how promptly invalidation runs, which keeps the
// hit path at a single cache round trip.
type Resolver struct {
	cache    repository.LinkCache
	links    repository.LinkStore
	recorder *ClickService
	logger   *slog.Logger
	cacheTTL time.Duration
}

func NewResolver(cache repository.LinkCache, links repository.LinkStore, recorder *ClickService, logger *slog.Logger, cacheTTL time.Duration) *Resolver {
	return &Resolver{
		cache:    cache,
		links:    links,
		recorder: recorder,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Resolve maps shortCode to an Outcome. A non-nil error means the durable
// store was unreachable during a cache miss: that is a server failure, not
// a not-found, and the transport layer must report it as such.
func (r *Resolver) Resolve(ctx context.Context, shortCode string, meta RequestMeta) (Outcome, error) {
	if reservedPaths[shortCode] {
		return Outcome{Status: StatusReserved}, nil
	}

	now := time.Now()

	if entry, err := r.cache.Get(ctx, shortCode); err == nil {
		r.scheduleClick(entry.LinkID, shortCode, meta, now)
		return Outcome{Status: StatusRedirect, DestinationURL: entry.DestinationURL}, nil
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		// A broken cache degrades to a miss; the link store still answers.
		r.logger.Warn("Cache lookup failed", "short_code", shortCode, "error", err)
	}

	link, err := r.links.ByShortCode(ctx, shortCode)
	if errors.Is(err, repository.ErrLinkNotFound) {
		return Outcome{Status: StatusNotFound}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("link lookup for %q: %w", shortCode, err)
	}

	// Any one disqualifier is enough; checks short-circuit in this order.
	if !link.IsActive {
		return Outcome{Status: StatusInactive}, nil
	}
	if link.ExpiresAt != nil && now.After(*link.ExpiresAt) {
		return Outcome{Status: StatusExpired}, nil
	}
	if link.ClickLimit != nil && link.TotalClicks >= int64(*link.ClickLimit) {
		return Outcome{Status: StatusLimitReached}, nil
	}

	ttl := r.cacheTTL
	if link.ExpiresAt != nil {
		ttl = link.ExpiresAt.Sub(now)
	}
	entry := repository.CachedLink{
		DestinationURL: link.DestinationURL,
		LinkID:         link.ID,
		OwnerID:        link.OwnerID,
	}
	if err := r.cache.Put(ctx, shortCode, entry, ttl); err != nil {
		r.logger.Warn("Cache write failed", "short_code", shortCode, "error", err)
	}

	r.scheduleClick(link.ID, shortCode, meta, now)
	return Outcome{Status: StatusRedirect, DestinationURL: link.DestinationURL}, nil
}

func (r *Resolver) scheduleClick(linkID, shortCode string, meta RequestMeta, at time.Time) {
	r.recorder.Enqueue(PendingClick{
		LinkID:    linkID,
		ShortCode: shortCode,
		Meta:      meta,
		At:        at,
	})
}
