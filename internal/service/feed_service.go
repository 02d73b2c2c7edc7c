package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/ical"
	"github.com/hebdo-app/hebdo-api/internal/models"
	"github.com/hebdo-app/hebdo-api/pkg/config"
	appErrors "github.com/hebdo-app/hebdo-api/pkg/errors"
)

type planProvider interface {
	GeneratePlan(ctx context.Context) (*models.WeeklyPlan, error)
	NextWeekWindow(now time.Time) (time.Time, time.Time)
}

// FeedService exposes the weekly plan as a subscribable iCalendar feed,
// optionally protected by signed tokens.
type FeedService struct {
	plans   planProvider
	builder *ical.FeedBuilder
	cache   *CacheService
	cfg     config.FeedConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewFeedService creates a new feed service.
func NewFeedService(plans planProvider, builder *ical.FeedBuilder, cache *CacheService, cfg config.FeedConfig, logger *zap.Logger) *FeedService {
	if builder == nil {
		builder = ical.NewFeedBuilder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedService{plans: plans, builder: builder, cache: cache, cfg: cfg, logger: logger, now: time.Now}
}

// IssueToken signs a new feed access token.
func (s *FeedService) IssueToken(ctx context.Context) (*models.FeedToken, error) {
	if s.cfg.TokenSecret == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "feed token secret not configured")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.cfg.TokenTTL)
	claims := &models.FeedClaims{
		Scope: models.FeedScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "calendar-feed",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign feed token")
	}
	return &models.FeedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and validates a feed token.
func (s *FeedService) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &models.FeedClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid feed token")
	}

	claims, ok := token.Claims.(*models.FeedClaims)
	if !ok || !token.Valid || claims.Scope != models.FeedScope {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid feed token claims")
	}
	return nil
}

// Feed returns the rendered .ics document for the upcoming week. When token
// protection is enabled the caller's token is validated first.
func (s *FeedService) Feed(ctx context.Context, tokenString string) (string, error) {
	if s.cfg.RequireToken {
		if tokenString == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "feed token required")
		}
		if err := s.ValidateToken(tokenString); err != nil {
			return "", err
		}
	}

	weekStart, _ := s.plans.NextWeekWindow(s.now())
	key := feedCacheKey(weekStart)

	var cached string
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	plan, err := s.plans.GeneratePlan(ctx)
	if err != nil {
		return "", err
	}

	rendered := s.builder.Render(plan)
	if err := s.cache.Set(ctx, key, rendered, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache feed", zap.Error(err))
	}
	return rendered, nil
}

func feedCacheKey(weekStart time.Time) string {
	return fmt.Sprintf("plan:feed:%s", weekStart.UTC().Format("2006-01-02"))
}
