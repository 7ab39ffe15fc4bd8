package store

import (
	"context"

	"github.com/dragon88888888888/dashboard-serenity/internal/profile"
)

// Store provides database access to all analytics row sets.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) GetHeadlineCounts(ctx context.Context, monthStart int64) (*HeadlineCounts, error) {
	return s.driver.GetHeadlineCounts(ctx, monthStart)
}

func (s *Store) ListScoreInterpretationCounts(ctx context.Context, scale TestScale) ([]*NamedBucket, error) {
	return s.driver.ListScoreInterpretationCounts(ctx, scale)
}

func (s *Store) ListAgeBucketCounts(ctx context.Context) ([]*NamedBucket, error) {
	return s.driver.ListAgeBucketCounts(ctx)
}

func (s *Store) ListGenderCounts(ctx context.Context) ([]*NamedBucket, error) {
	return s.driver.ListGenderCounts(ctx)
}

func (s *Store) ListMonthlyNewUsers(ctx context.Context, since int64) ([]*MonthCount, error) {
	return s.driver.ListMonthlyNewUsers(ctx, since)
}

func (s *Store) ListMonthlyTests(ctx context.Context, since int64) ([]*MonthCount, error) {
	return s.driver.ListMonthlyTests(ctx, since)
}

func (s *Store) ListWeekdayMessageCounts(ctx context.Context, since int64) ([]*WeekdayMessageCount, error) {
	return s.driver.ListWeekdayMessageCounts(ctx, since)
}

func (s *Store) ListUserEngagement(ctx context.Context) ([]*UserEngagement, error) {
	return s.driver.ListUserEngagement(ctx)
}

func (s *Store) ListAnxietyTestPoints(ctx context.Context) ([]*TestPoint, error) {
	return s.driver.ListAnxietyTestPoints(ctx)
}

func (s *Store) ListUserActivitySpans(ctx context.Context) ([]*UserActivitySpan, error) {
	return s.driver.ListUserActivitySpans(ctx)
}

func (s *Store) ListTopUsageHours(ctx context.Context, since int64, limit int) ([]*UsageHourPoint, error) {
	return s.driver.ListTopUsageHours(ctx, since, limit)
}

func (s *Store) ListFreeTextSamples(ctx context.Context, limit int) ([]*FreeTextSample, error) {
	return s.driver.ListFreeTextSamples(ctx, limit)
}

func (s *Store) ListChatAnalytics(ctx context.Context, limit int) ([]*ChatAnalyticRow, error) {
	return s.driver.ListChatAnalytics(ctx, limit)
}
