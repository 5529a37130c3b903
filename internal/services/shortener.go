package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sniplink/internal/models"
	"sniplink/internal/repository"
	"sniplink/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrAliasTaken   = errors.New("custom alias already taken")
	ErrInvalidAlias = errors.New("custom alias must be 3-20 alphanumeric characters or hyphens")
)

const maxCodeAttempts = 3

// CreateLinkInput is the request to mint a new link.
type CreateLinkInput struct {
	OwnerID        string
	DestinationURL string
	CustomAlias    string
	ExpiresAt      *time.Time
	ClickLimit     *int
}

// UpdateLinkInput carries the mutable link attributes; nil fields are left
// untouched. ClearExpiry removes an existing expiry.
type UpdateLinkInput struct {
	DestinationURL *string
	IsActive       *bool
	ExpiresAt      *time.Time
	ClearExpiry    bool
	ClickLimit     *int
}

// ShortenerService owns the link lifecycle outside the redirect hot path:
// creation with destination validation and short-code assignment, updates,
// and deletion. Every mutation proactively invalidates the resolution cache
// entry, which is what bounds the staleness of un-revalidated cache hits.
type ShortenerService struct {
	links         repository.LinkStore
	cache         repository.LinkCache
	logger        *slog.Logger
	codeGenerator func() string
}

func NewShortenerService(links repository.LinkStore, cache repository.LinkCache, logger *slog.Logger) *ShortenerService {
	return &ShortenerService{
		links:         links,
		cache:         cache,
		logger:        logger,
		codeGenerator: utils.GenerateShortCode,
	}
}

func (s *ShortenerService) CreateLink(ctx context.Context, in CreateLinkInput) (*models.Link, error) {
	destination, err := utils.ValidateDestination(in.DestinationURL)
	if err != nil {
		return nil, err
	}

	shortCode, err := s.pickShortCode(ctx, in.CustomAlias)
	if err != nil {
		return nil, err
	}

	link := &models.Link{
		ID:             uuid.NewString(),
		OwnerID:        in.OwnerID,
		ShortCode:      shortCode,
		DestinationURL: destination,
		IsActive:       true,
		ExpiresAt:      in.ExpiresAt,
		ClickLimit:     in.ClickLimit,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	// Warm the resolution cache so the first redirect is already a hit.
	ttl := time.Duration(0)
	if link.ExpiresAt != nil {
		ttl = time.Until(*link.ExpiresAt)
	}
	entry := repository.CachedLink{
		DestinationURL: link.DestinationURL,
		LinkID:         link.ID,
		OwnerID:        link.OwnerID,
	}
	if err := s.cache.Put(ctx, link.ShortCode, entry, ttl); err != nil {
		s.logger.Warn("Cache warm failed", "short_code", link.ShortCode, "error", err)
	}

	s.logger.Info("Link created", "short_code", link.ShortCode, "link_id", link.ID)
	return link, nil
}

func (s *ShortenerService) pickShortCode(ctx context.Context, customAlias string) (string, error) {
	if customAlias != "" {
		if !utils.IsValidCustomAlias(customAlias) {
			return "", ErrInvalidAlias
		}
		_, err := s.links.ByShortCode(ctx, customAlias)
		if err == nil {
			return "", ErrAliasTaken
		}
		if !errors.Is(err, repository.ErrLinkNotFound) {
			return "", err
		}
		return customAlias, nil
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.codeGenerator()
		_, err := s.links.ByShortCode(ctx, code)
		if errors.Is(err, repository.ErrLinkNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("unable to generate unique short code after %d attempts", maxCodeAttempts)
}

func (s *ShortenerService) UpdateLink(ctx context.Context, id string, in UpdateLinkInput) (*models.Link, error) {
	link, err := s.links.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DestinationURL != nil {
		destination, err := utils.ValidateDestination(*in.DestinationURL)
		if err != nil {
			return nil, err
		}
		link.DestinationURL = destination
	}
	if in.IsActive != nil {
		link.IsActive = *in.IsActive
	}
	if in.ExpiresAt != nil {
		link.ExpiresAt = in.ExpiresAt
	} else if in.ClearExpiry {
		link.ExpiresAt = nil
	}
	if in.ClickLimit != nil {
		link.ClickLimit = in.ClickLimit
	}
	link.UpdatedAt = time.Now()

	if err := s.links.Update(ctx, link); err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}

	// Invalidate rather than refresh: the next redirect re-validates against
	// the store and repopulates the cache itself.
	if err := s.cache.Delete(ctx, link.ShortCode); err != nil {
		s.logger.Warn("Cache invalidation failed", "short_code", link.ShortCode, "error", err)
	}

	return link, nil
}

func (s *ShortenerService) DeleteLink(ctx context.Context, id string) error {
	link, err := s.links.ByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.links.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	if err := s.cache.Delete(ctx, link.ShortCode); err != nil {
		s.logger.Warn("Cache invalidation failed", "short_code", link.ShortCode, "error", err)
	}

	s.logger.Info("Link deleted", "short_code", link.ShortCode, "link_id", link.ID)
	return nil
}

// LinkByShortCode exposes a plain lookup for read-only consumers that must
// not count as clicks, like QR rendering.
func (s *ShortenerService) LinkByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	return s.links.ByShortCode(ctx, shortCode)
}

// LinkForOwner loads a link and verifies ownership. It backs the
// management and stats endpoints, where identity is asserted upstream.
func (s *ShortenerService) LinkForOwner(ctx context.Context, id, ownerID string) (*models.Link, error) {
	link, err := s.links.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return link, nil
}

// ErrNotOwner is returned when a caller addresses a link it does not own.
var ErrNotOwner = errors.New("link does not belong to caller")
