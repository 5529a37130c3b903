package services

import (
	"context"
	"math"
	"time"

	"sniplink/internal/repository"
)

const topCountries = 10

// LinkStats is the aggregated analytics report for one link over a window.
type LinkStats struct {
	Period    string                     `json:"period"`
	Summary   StatsSummary               `json:"summary"`
	Daily     []repository.DailyClicks   `json:"daily"`
	Countries []repository.BreakdownRow  `json:"countries"`
	Devices   []repository.BreakdownRow  `json:"devices"`
	Browsers  []repository.BreakdownRow  `json:"browsers"`
	OS        []repository.BreakdownRow  `json:"os"`
	Referers  []repository.BreakdownRow  `json:"referers"`
}

type StatsSummary struct {
	TotalClicks    int64 `json:"total_clicks"`
	UniqueVisitors int64 `json:"unique_visitors"`
	AvgDailyClicks int64 `json:"avg_daily_clicks"`
}

// StatsService is the read-side reporting layer over click events. It never
// mutates anything and shares no state with the redirect hot path beyond
// the click store itself.
type StatsService struct {
	clicks repository.ClickStore
}

func NewStatsService(clicks repository.ClickStore) *StatsService {
	return &StatsService{clicks: clicks}
}

// NormalizePeriod maps the caller-supplied period to a supported one;
// anything unrecognized falls back to 7d.
func NormalizePeriod(period string) string {
	switch period {
	case "7d", "30d", "90d", "all":
		return period
	default:
		return "7d"
	}
}

func periodStart(period string, now time.Time) *time.Time {
	var days int
	switch period {
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	case "all":
		return nil
	default:
		days = 7
	}
	start := now.AddDate(0, 0, -days)
	return &start
}

// LinkStats aggregates click events for linkID over the given period.
func (s *StatsService) LinkStats(ctx context.Context, linkID, period string) (*LinkStats, error) {
	period = NormalizePeriod(period)
	since := periodStart(period, time.Now())

	summary, err := s.clicks.Summary(ctx, linkID, since)
	if err != nil {
		return nil, err
	}

	daily, err := s.clicks.Daily(ctx, linkID, since)
	if err != nil {
		return nil, err
	}

	countries, err := s.clicks.Countries(ctx, linkID, since, topCountries)
	if err != nil {
		return nil, err
	}
	devices, err := s.clicks.Devices(ctx, linkID, since)
	if err != nil {
		return nil, err
	}
	browsers, err := s.clicks.Browsers(ctx, linkID, since)
	if err != nil {
		return nil, err
	}
	osRows, err := s.clicks.OperatingSystems(ctx, linkID, since)
	if err != nil {
		return nil, err
	}
	referers, err := s.clicks.Referers(ctx, linkID, since)
	if err != nil {
		return nil, err
	}

	// Average over days that actually saw traffic, not calendar days.
	var avg int64
	if len(daily) > 0 {
		avg = int64(math.Round(float64(summary.TotalClicks) / float64(len(daily))))
	}

	return &LinkStats{
		Period: period,
		Summary: StatsSummary{
			TotalClicks:    summary.TotalClicks,
			UniqueVisitors: summary.UniqueVisitors,
			AvgDailyClicks: avg,
		},
		Daily:     daily,
		Countries: countries,
		Devices:   devices,
		Browsers:  browsers,
		OS:        osRows,
		Referers:  referers,
	}, nil
}
