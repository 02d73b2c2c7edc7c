package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/ical"
	"github.com/hebdo-app/hebdo-api/internal/models"
	"github.com/hebdo-app/hebdo-api/internal/scheduler"
	appErrors "github.com/hebdo-app/hebdo-api/pkg/errors"
)

type planActivityRepository interface {
	ListAll(ctx context.Context) ([]models.Activity, error)
}

type busyFetcher interface {
	FetchBusy(ctx context.Context, url string, windowStart, windowEnd time.Time, loc *time.Location) ([]models.BusyInterval, error)
}

// PlanService produces the weekly plan for the upcoming week: it gathers
// activities and external busy time, runs the allocation engine and caches
// the result until the inputs change.
type PlanService struct {
	activities planActivityRepository
	fetcher    busyFetcher
	engine     *scheduler.Engine
	cache      *CacheService
	metrics    *MetricsService
	sources    []string
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewPlanService creates a new plan service.
func NewPlanService(activities planActivityRepository, fetcher busyFetcher, engine *scheduler.Engine, cache *CacheService, metrics *MetricsService, sources []string, cacheTTL time.Duration, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		activities: activities,
		fetcher:    fetcher,
		engine:     engine,
		cache:      cache,
		metrics:    metrics,
		sources:    sources,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// NextWeekWindow returns the half-open [Monday 00:00, next Monday 00:00)
// window of the week after the given instant, in the planner timezone. When
// called on a Monday it still targets the following week.
func (s *PlanService) NextWeekWindow(now time.Time) (time.Time, time.Time) {
	loc := s.location()
	local := now.In(loc)
	offset := (int(time.Monday) - int(local.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, offset)
	return start, start.AddDate(0, 0, 7)
}

// GeneratePlan builds (or returns the cached) plan for the upcoming week.
func (s *PlanService) GeneratePlan(ctx context.Context) (*models.WeeklyPlan, error) {
	weekStart, weekEnd := s.NextWeekWindow(s.now())
	key := planCacheKey(weekStart)

	var cached models.WeeklyPlan
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	activities, err := s.activities.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activities")
	}

	busy, sourceWarnings := s.collectBusy(ctx, weekStart, weekEnd)

	started := time.Now()
	plan := s.engine.Plan(ctx, scheduler.PlanRequest{
		Activities: activities,
		Busy:       busy,
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
	})
	plan.Warnings = append(sourceWarnings, plan.Warnings...)

	shortfallSlots := 0
	for _, sf := range plan.Shortfalls {
		shortfallSlots += sf.SlotsMissing
	}
	s.metrics.ObservePlanRun(time.Since(started), plan.Stats, shortfallSlots)

	s.logger.Info("weekly plan generated",
		zap.Time("week_start", weekStart),
		zap.Int("activities", len(activities)),
		zap.Int("events", len(plan.Events)),
		zap.Int("shortfalls", len(plan.Shortfalls)),
	)

	if err := s.cache.Set(ctx, key, plan, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache plan", zap.Error(err))
	}
	return plan, nil
}

// collectBusy pulls busy intervals from every configured calendar source.
// An unreachable or unreadable source degrades to no busy time from that
// source plus a warning on the plan, never an error.
func (s *PlanService) collectBusy(ctx context.Context, weekStart, weekEnd time.Time) ([]models.BusyInterval, []string) {
	var all []models.BusyInterval
	var warnings []string
	loc := s.location()

	for _, url := range s.sources {
		if url == "" {
			continue
		}
		intervals, err := s.fetcher.FetchBusy(ctx, url, weekStart, weekEnd, loc)
		if err != nil {
			s.logger.Warn("calendar source unavailable", zap.String("url", url), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("calendar source unavailable: %s", url))
			continue
		}
		all = append(all, intervals...)
	}
	return ical.MergeIntervals(all), warnings
}

func (s *PlanService) location() *time.Location {
	loc, err := time.LoadLocation(s.engine.Policy().Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func planCacheKey(weekStart time.Time) string {
	return fmt.Sprintf("plan:%s", weekStart.UTC().Format("2006-01-02"))
}
