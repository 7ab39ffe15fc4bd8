// Package dashboard assembles the statistical views of the dashboard into one
// immutable snapshot per request.
package dashboard

// UserStats holds the headline counts of the dashboard.
type UserStats struct {
	TotalUsers        int `json:"totalUsers"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
	TotalTests        int `json:"totalTests"`
	TotalMessages     int `json:"totalMessages"`
}

// DistributionBucket is one entry of a categorical distribution.
type DistributionBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AgeBucket is one entry of the fixed-range age distribution.
type AgeBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthlyPoint is one month of the merged activity series.
type MonthlyPoint struct {
	Month      string `json:"month"` // "YYYY-MM"
	Label      string `json:"label"` // short month name
	NewUsers   int    `json:"newUsers"`
	TestsTaken int    `json:"testsTaken"`
}

// WeeklyMessagePoint is one weekday of message activity, Monday first.
// The day label is already locale-translated.
type WeeklyMessagePoint struct {
	Day        string `json:"day"`
	Messages   int    `json:"messages"`
	BotReplies int    `json:"botReplies"`
}

// CorrelationBucket relates an anxiety score range to mean message usage.
type CorrelationBucket struct {
	ScoreRange   string  `json:"scoreRange"`
	MeanMessages float64 `json:"meanMessages"`
}

// EffectivenessSummary summarizes the improvement cohort. The cohort only
// includes users whose first and last scored tests are at least
// EffectivenessMinSpanDays apart.
type EffectivenessSummary struct {
	TotalUsers      int     `json:"totalUsers"`
	ImprovedUsers   int     `json:"improvedUsers"`
	ImprovementRate float64 `json:"improvementRate"` // percentage, 1 decimal
}

// RetentionSummary summarizes user longevity. RetentionRate is the ratio of
// two independent active-user counts and may legitimately exceed 100.
type RetentionSummary struct {
	AvgMonthsActive  float64 `json:"avgMonthsActive"`
	ActiveThisMonth  int     `json:"activeThisMonth"`
	ActivePriorMonth int     `json:"activePriorMonth"`
	RetentionRate    float64 `json:"retentionRate"`
}

// UsageHourPoint is one hour of the peak-hour ranking.
type UsageHourPoint struct {
	Hour     int `json:"hour"`
	Messages int `json:"messages"`
}

// ChatAnalytic is one per-chat rollup with user demographics and peak scores.
type ChatAnalytic struct {
	ChatID        int32   `json:"chatId"`
	ChatName      string  `json:"chatName"`
	Gender        *string `json:"gender"`
	Age           *int    `json:"age"`
	Messages      int     `json:"messages"`
	MaxAnxiety    *int    `json:"maxAnxiety"`
	MaxDepression *int    `json:"maxDepression"`
}

// RawSnapshot is one immutable, fully-populated aggregation of all statistical
// views for a single request. All slice fields are non-nil after assembly.
type RawSnapshot struct {
	UserStats               UserStats            `json:"userStats"`
	AnxietyDistribution     []DistributionBucket `json:"anxietyDistribution"`
	DepressionDistribution  []DistributionBucket `json:"depressionDistribution"`
	AgeDistribution         []AgeBucket          `json:"ageDistribution"`
	GenderDistribution      []DistributionBucket `json:"genderDistribution"`
	MonthlyActivity         []MonthlyPoint       `json:"monthlyActivity"`
	WeeklyMessages          []WeeklyMessagePoint `json:"weeklyMessages"`
	AnxietyUsageCorrelation []CorrelationBucket  `json:"anxietyUsageCorrelation"`
	Effectiveness           EffectivenessSummary `json:"effectiveness"`
	Retention               RetentionSummary     `json:"retention"`
	PeakUsageHours          []UsageHourPoint     `json:"peakUsageHours"`
	OpenResponses           []string             `json:"openResponses"`
	ChatAnalytics           []ChatAnalytic       `json:"chatAnalytics"`
}
