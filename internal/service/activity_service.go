package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/models"
	appErrors "github.com/hebdo-app/hebdo-api/pkg/errors"
)

type activityRepository interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, int, error)
	FindByID(ctx context.Context, id string) (*models.Activity, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateActivityRequest captures fields for creating activities.
type CreateActivityRequest struct {
	Name          string `json:"name" validate:"required"`
	WeeklyMinutes int    `json:"weekly_minutes" validate:"required,gt=0"`
	Category      string `json:"category" validate:"required"`
}

// UpdateActivityRequest modifies activity fields. Nil fields are left unchanged.
type UpdateActivityRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	WeeklyMinutes *int    `json:"weekly_minutes" validate:"omitempty,gt=0"`
	Category      *string `json:"category" validate:"omitempty,min=1"`
}

// ActivityService handles activity domain workflows.
type ActivityService struct {
	repo      activityRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(repo activityRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns paginated activities.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, *models.Pagination, error) {
	activities, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, Total: total, TotalPages: (total + size - 1) / size}
	return activities, pagination, nil
}

// Get returns an activity by identifier.
func (s *ActivityService) Get(ctx context.Context, id string) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return activity, nil
}

// Create adds a new activity ensuring name uniqueness.
func (s *ActivityService) Create(ctx context.Context, req CreateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))

	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check activity name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "activity name already exists")
	}

	activity := &models.Activity{
		Name:          req.Name,
		WeeklyMinutes: req.WeeklyMinutes,
		Category:      req.Category,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create activity")
	}

	s.invalidatePlans(ctx)
	return activity, nil
}

// Update modifies an existing activity.
func (s *ActivityService) Update(ctx context.Context, id string, req UpdateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}

	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		exists, err := s.repo.ExistsByName(ctx, name, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check activity name")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "activity name already exists")
		}
		activity.Name = name
	}
	if req.WeeklyMinutes != nil {
		activity.WeeklyMinutes = *req.WeeklyMinutes
	}
	if req.Category != nil {
		activity.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update activity")
	}

	s.invalidatePlans(ctx)
	return activity, nil
}

// Delete removes an activity.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete activity")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}

	s.invalidatePlans(ctx)
	return nil
}

// invalidatePlans drops cached plans and feeds after any activity mutation.
func (s *ActivityService) invalidatePlans(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "plan:*"); err != nil {
		s.logger.Warn("failed to invalidate plan cache", zap.Error(err))
	}
}
