package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all analytics queries a database driver should implement.
// Every query is parameterized; drivers never interpolate caller values.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// GetHeadlineCounts returns the headline totals. monthStart bounds the
	// "new this month" count (first day of the current calendar month).
	GetHeadlineCounts(ctx context.Context, monthStart int64) (*HeadlineCounts, error)

	// ListScoreInterpretationCounts groups non-null interpretation labels of
	// the given scale by exact string match.
	ListScoreInterpretationCounts(ctx context.Context, scale TestScale) ([]*NamedBucket, error)

	// ListAgeBucketCounts buckets users by the fixed age ranges; null age is
	// reported as "unspecified". Bucket order is not guaranteed.
	ListAgeBucketCounts(ctx context.Context) ([]*NamedBucket, error)

	// ListGenderCounts groups users by raw gender value, substituting
	// "unspecified" for null/empty.
	ListGenderCounts(ctx context.Context) ([]*NamedBucket, error)

	// ListMonthlyNewUsers returns per-month user signups since the given
	// timestamp, ascending by month key.
	ListMonthlyNewUsers(ctx context.Context, since int64) ([]*MonthCount, error)

	// ListMonthlyTests returns per-month tests taken since the given
	// timestamp, ascending by month key.
	ListMonthlyTests(ctx context.Context, since int64) ([]*MonthCount, error)

	// ListWeekdayMessageCounts groups messages since the given timestamp by
	// weekday (0 = Sunday) with a bot-originated subtotal.
	ListWeekdayMessageCounts(ctx context.Context, since int64) ([]*WeekdayMessageCount, error)

	// ListUserEngagement returns one row per user with the latest anxiety
	// score and the total message count across the user's chats.
	ListUserEngagement(ctx context.Context) ([]*UserEngagement, error)

	// ListAnxietyTestPoints returns all scored anxiety tests ordered by
	// (user, time).
	ListAnxietyTestPoints(ctx context.Context) ([]*TestPoint, error)

	// ListUserActivitySpans returns first-seen and last-active timestamps per
	// user.
	ListUserActivitySpans(ctx context.Context) ([]*UserActivitySpan, error)

	// ListTopUsageHours returns the busiest hours of day since the given
	// timestamp, descending by volume, capped at limit.
	ListTopUsageHours(ctx context.Context, since int64, limit int) ([]*UsageHourPoint, error)

	// ListFreeTextSamples returns up to limit non-null open-ended responses.
	ListFreeTextSamples(ctx context.Context, limit int) ([]*FreeTextSample, error)

	// ListChatAnalytics returns per-chat rollups, descending by message
	// count, capped at limit.
	ListChatAnalytics(ctx context.Context, limit int) ([]*ChatAnalyticRow, error)
}
