package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdo-app/hebdo-api/internal/models"
	"github.com/hebdo-app/hebdo-api/pkg/config"
	appErrors "github.com/hebdo-app/hebdo-api/pkg/errors"
)

type planProviderStub struct {
	plan  *models.WeeklyPlan
	err   error
	calls int
}

func (s *planProviderStub) GeneratePlan(ctx context.Context) (*models.WeeklyPlan, error) {
	s.calls++
	return s.plan, s.err
}

func (s *planProviderStub) NextWeekWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

func feedTestPlan() *models.WeeklyPlan {
	start := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
	return &models.WeeklyPlan{
		WeekStart: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Timezone:  "UTC",
		Events: []models.ScheduledEvent{
			{ActivityID: "run", Name: "Running", Category: "sport", Start: start, End: start.Add(30 * time.Minute)},
		},
	}
}

func TestFeedServiceTokenRoundTrip(t *testing.T) {
	cfg := config.FeedConfig{RequireToken: true, TokenSecret: "secret", TokenTTL: time.Hour}
	svc := NewFeedService(&planProviderStub{plan: feedTestPlan()}, nil, nil, cfg, nil)

	token, err := svc.IssueToken(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Minute)

	require.NoError(t, svc.ValidateToken(token.Token))
}

func TestFeedServiceRejectsForeignToken(t *testing.T) {
	issuer := NewFeedService(&planProviderStub{}, nil, nil, config.FeedConfig{TokenSecret: "one", TokenTTL: time.Hour}, nil)
	verifier := NewFeedService(&planProviderStub{}, nil, nil, config.FeedConfig{TokenSecret: "two", TokenTTL: time.Hour}, nil)

	token, err := issuer.IssueToken(context.Background())
	require.NoError(t, err)

	err = verifier.ValidateToken(token.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestFeedServiceFeedRequiresToken(t *testing.T) {
	cfg := config.FeedConfig{RequireToken: true, TokenSecret: "secret", TokenTTL: time.Hour}
	svc := NewFeedService(&planProviderStub{plan: feedTestPlan()}, nil, nil, cfg, nil)

	_, err := svc.Feed(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	token, err := svc.IssueToken(context.Background())
	require.NoError(t, err)

	feed, err := svc.Feed(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Contains(t, feed, "BEGIN:VCALENDAR")
	assert.Contains(t, feed, "SUMMARY:Running")
}

func TestFeedServiceFeedOpenAccess(t *testing.T) {
	provider := &planProviderStub{plan: feedTestPlan()}
	svc := NewFeedService(provider, nil, nil, config.FeedConfig{}, nil)

	feed, err := svc.Feed(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, feed, "SUMMARY:Running")
	assert.Equal(t, 1, provider.calls)
}

func TestFeedServiceFeedCachesRendered(t *testing.T) {
	provider := &planProviderStub{plan: feedTestPlan()}
	cache := NewCacheService(newCacheRepoStub(), nil, time.Minute, nil, true)
	svc := NewFeedService(provider, nil, cache, config.FeedConfig{CacheTTL: time.Minute}, nil)

	first, err := svc.Feed(context.Background(), "")
	require.NoError(t, err)
	second, err := svc.Feed(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
}
