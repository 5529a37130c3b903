package repository

import (
	"context"
	"errors"

	"sniplink/internal/models"

	"gorm.io/gorm"
)

// ErrLinkNotFound is returned when no link matches the given key.
var ErrLinkNotFound = errors.New("link not found")

// LinkStore is the durable source of truth for link records.
type LinkStore interface {
	ByShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	ByID(ctx context.Context, id string) (*models.Link, error)
	Create(ctx context.Context, link *models.Link) error
	// Update persists the given mutable fields. TotalClicks is deliberately
	// excluded; it only moves through IncrementClicks.
	Update(ctx context.Context, link *models.Link) error
	Delete(ctx context.Context, id string) error
	// IncrementClicks adds exactly 1 to total_clicks as a single store-level
	// operation, safe under concurrent traffic on the same link.
	IncrementClicks(ctx context.Context, id string) error
}

type GormLinkStore struct {
	db *gorm.DB
}

func NewGormLinkStore(db *gorm.DB) *GormLinkStore {
	return &GormLinkStore{db: db}
}

func (s *GormLinkStore) ByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *GormLinkStore) ByID(ctx context.Context, id string) (*models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *GormLinkStore) Create(ctx context.Context, link *models.Link) error {
	return s.db.WithContext(ctx).Create(link).Error
}

func (s *GormLinkStore) Update(ctx context.Context, link *models.Link) error {
	return s.db.WithContext(ctx).Model(&models.Link{}).
		Where("id = ?", link.ID).
		Select("destination_url", "is_active", "expires_at", "click_limit", "updated_at").
		Updates(link).Error
}

func (s *GormLinkStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Link{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (s *GormLinkStore) IncrementClicks(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.Link{}).
		Where("id = ?", id).
		UpdateColumn("total_clicks", gorm.Expr("total_clicks + ?", 1)).Error
}
