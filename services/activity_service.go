package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolioAPI/internal/progress"
	"portfolioAPI/internal/types/activity"
	"portfolioAPI/internal/types/calendar"
)

var (
	ErrInvalidRecord = errors.New("invalid activity record")
	// ErrReadOnly is returned by write operations when no database is configured.
	ErrReadOnly = errors.New("storage is not configured")
)

type ActivityRepository interface {
	ListActivities(ctx context.Context) ([]progress.ActivityRecord, error)
	InsertActivity(ctx context.Context, rec progress.ActivityRecord) (string, error)
}

// ActivityService serves the progress log: the static records from the
// content file plus, when configured, records stored in Postgres.
type ActivityService struct {
	static []progress.ActivityRecord
	repo   ActivityRepository
	logger *zap.Logger
}

// NewActivityService creates the service. repo may be nil, in which case
// only the static records are served and writes fail with ErrReadOnly.
func NewActivityService(static []progress.ActivityRecord, repo ActivityRepository, logger *zap.Logger) *ActivityService {
	records := make([]progress.ActivityRecord, len(static))
	copy(records, static)

	return &ActivityService{
		static: records,
		repo:   repo,
		logger: logger,
	}
}

func (s *ActivityService) records(ctx context.Context) ([]progress.ActivityRecord, error) {
	all := make([]progress.ActivityRecord, 0, len(s.static))
	all = append(all, s.static...)

	if s.repo != nil {
		stored, err := s.repo.ListActivities(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list activities: %w", err)
		}
		all = append(all, stored...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date < all[j].Date
	})
	return all, nil
}

// ListRecords returns the progress log filtered by category, together with
// the categories available for filtering.
func (s *ActivityService) ListRecords(ctx context.Context, category string) (*activity.ProgressResponse, error) {
	all, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	if category == "" {
		category = progress.AllCategories
	}
	filtered := progress.FilterByCategory(all, category)

	return &activity.ProgressResponse{
		Records:    filtered,
		Categories: progress.Categories(all),
		Selected:   category,
		Count:      len(filtered),
	}, nil
}

// MonthView builds the contribution calendar over the whole, unfiltered log.
func (s *ActivityService) MonthView(ctx context.Context, offset int, today time.Time) (*calendar.MonthView, error) {
	all, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return progress.BuildMonthView(all, offset, today), nil
}

// AddRecord validates and stores a new record, returning its id.
func (s *ActivityService) AddRecord(ctx context.Context, req *activity.CreateActivityRequest) (string, error) {
	if s.repo == nil {
		return "", ErrReadOnly
	}

	rec, err := validateActivity(req)
	if err != nil {
		return "", err
	}

	id, err := s.repo.InsertActivity(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("failed to add activity: %w", err)
	}

	s.logger.Info("activity recorded",
		zap.String("id", id),
		zap.String("date", rec.Date),
		zap.String("category", rec.Category),
		zap.Bool("status", rec.Status))
	return id, nil
}

func validateActivity(req *activity.CreateActivityRequest) (progress.ActivityRecord, error) {
	date := strings.TrimSpace(req.Date)
	if _, ok := progress.ParseDate(date); !ok {
		return progress.ActivityRecord{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRecord)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" || category == progress.AllCategories {
		return progress.ActivityRecord{}, fmt.Errorf("%w: category is required", ErrInvalidRecord)
	}

	links := make([]string, 0, len(req.Links))
	for _, l := range req.Links {
		u, err := url.Parse(l)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return progress.ActivityRecord{}, fmt.Errorf("%w: invalid link %q", ErrInvalidRecord, l)
		}
		links = append(links, l)
	}

	return progress.ActivityRecord{
		Date:     date,
		Category: category,
		Status:   req.Status,
		Note:     strings.TrimSpace(req.Note),
		Links:    links,
	}, nil
}
