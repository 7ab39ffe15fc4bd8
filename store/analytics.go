package store

// Typed row records produced by the analytics queries. Mapping from raw SQL
// rows happens once inside the drivers; nothing untyped leaves this layer.

// HeadlineCounts holds the headline totals of the dashboard.
type HeadlineCounts struct {
	TotalUsers        int
	NewUsersThisMonth int
	TotalTests        int
	TotalMessages     int
}

// TestScale selects which clinical scale a distribution query groups by.
type TestScale string

const (
	TestScaleAnxiety    TestScale = "anxiety"
	TestScaleDepression TestScale = "depression"
)

// NamedBucket is one entry of a categorical distribution.
type NamedBucket struct {
	Name  string
	Value int
}

// MonthCount is one month of a per-month activity series, keyed by "YYYY-MM".
type MonthCount struct {
	Month string
	Count int
}

// WeekdayMessageCount is one weekday's message activity.
// Weekday follows the SQL convention: 0 = Sunday through 6 = Saturday.
type WeekdayMessageCount struct {
	Weekday    int
	Total      int
	BotReplies int
}

// UserEngagement joins a user's latest anxiety score with that user's total
// message count across all chats. AnxietyScore is nil when the user has no
// scored test.
type UserEngagement struct {
	UserID       int32
	AnxietyScore *int
	MessageCount int
}

// TestPoint is one scored anxiety test, ordered by (UserID, CreatedTs) when
// listed.
type TestPoint struct {
	UserID       int32
	CreatedTs    int64
	AnxietyScore int
}

// UserActivitySpan holds a user's first-seen and last-active timestamps.
// Last-active is the max across account update, any chat update and any test.
type UserActivitySpan struct {
	UserID       int32
	CreatedTs    int64
	LastActiveTs int64
}

// UsageHourPoint is one hour-of-day's message volume.
type UsageHourPoint struct {
	Hour     int
	Messages int
}

// FreeTextSample is one raw open-ended test response.
type FreeTextSample struct {
	Text string
}

// ChatAnalyticRow is a per-chat rollup joined with user demographics and peak
// test scores. Nullable columns map to nil pointers.
type ChatAnalyticRow struct {
	ChatID        int32
	ChatName      string
	Gender        *string
	Age           *int
	MessageCount  int
	MaxAnxiety    *int
	MaxDepression *int
}
