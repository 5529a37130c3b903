package repository

import (
	"context"
	"time"

	"sniplink/internal/models"

	"gorm.io/gorm"
)

// ClickSummary is the headline aggregate for a link over a window.
type ClickSummary struct {
	TotalClicks    int64 `json:"total_clicks"`
	UniqueVisitors int64 `json:"unique_visitors"`
}

// DailyClicks is one calendar day with at least one recorded click.
type DailyClicks struct {
	Date           string `json:"date"`
	Clicks         int64  `json:"clicks"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// BreakdownRow is one label/count pair of a grouped aggregation.
type BreakdownRow struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// ClickStore is the append-only store of click events plus the read-side
// aggregations layered on them. Since bounds the window; nil means all time.
type ClickStore interface {
	Append(ctx context.Context, event *models.ClickEvent) error
	Summary(ctx context.Context, linkID string, since *time.Time) (ClickSummary, error)
	Daily(ctx context.Context, linkID string, since *time.Time) ([]DailyClicks, error)
	Countries(ctx context.Context, linkID string, since *time.Time, limit int) ([]BreakdownRow, error)
	Devices(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error)
	Browsers(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error)
	OperatingSystems(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error)
	Referers(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error)
}

type GormClickStore struct {
	db *gorm.DB
}

func NewGormClickStore(db *gorm.DB) *GormClickStore {
	return &GormClickStore{db: db}
}

func (s *GormClickStore) Append(ctx context.Context, event *models.ClickEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *GormClickStore) scoped(ctx context.Context, linkID string, since *time.Time) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.ClickEvent{}).Where("link_id = ?", linkID)
	if since != nil {
		q = q.Where("occurred_at >= ?", *since)
	}
	return q
}

func (s *GormClickStore) Summary(ctx context.Context, linkID string, since *time.Time) (ClickSummary, error) {
	var summary ClickSummary
	err := s.scoped(ctx, linkID, since).
		Select("COUNT(*) AS total_clicks, COUNT(DISTINCT identity_hash) AS unique_visitors").
		Scan(&summary).Error
	return summary, err
}

func (s *GormClickStore) Daily(ctx context.Context, linkID string, since *time.Time) ([]DailyClicks, error) {
	var rows []DailyClicks
	err := s.scoped(ctx, linkID, since).
		Select("CAST(DATE(occurred_at) AS TEXT) AS date, COUNT(*) AS clicks, COUNT(DISTINCT identity_hash) AS unique_visitors").
		Group("DATE(occurred_at)").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormClickStore) breakdown(ctx context.Context, linkID string, since *time.Time, expr string, limit int) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	q := s.scoped(ctx, linkID, since).
		Select(expr + " AS label, COUNT(*) AS count").
		Group("label").
		Order("count DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&rows).Error
	return rows, err
}

func (s *GormClickStore) Countries(ctx context.Context, linkID string, since *time.Time, limit int) ([]BreakdownRow, error) {
	return s.breakdown(ctx, linkID, since, "COALESCE(country, 'unknown')", limit)
}

func (s *GormClickStore) Devices(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error) {
	return s.breakdown(ctx, linkID, since, "COALESCE(device, 'unknown')", 0)
}

func (s *GormClickStore) Browsers(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error) {
	return s.breakdown(ctx, linkID, since, "COALESCE(browser, 'unknown')", 0)
}

func (s *GormClickStore) OperatingSystems(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error) {
	return s.breakdown(ctx, linkID, since, "COALESCE(os, 'unknown')", 0)
}

// Referers reports absent referers under the literal label "direct"; an
// unparseable referer was stored as NULL too, so the two are conflated on
// purpose.
func (s *GormClickStore) Referers(ctx context.Context, linkID string, since *time.Time) ([]BreakdownRow, error) {
	return s.breakdown(ctx, linkID, since, "COALESCE(referer_domain, 'direct')", 0)
}
