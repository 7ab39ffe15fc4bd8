package dashboard

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	serrors "github.com/dragon88888888888/dashboard-serenity/internal/errors"
	"github.com/dragon88888888888/dashboard-serenity/store"
)

const (
	// EffectivenessMinSpanDays is the minimum span between a user's first and
	// last scored test for the user to enter the effectiveness cohort. The
	// threshold is a product policy carried over from the source queries.
	EffectivenessMinSpanDays = 30

	monthlyWindowMonths = 6
	weeklyWindowDays    = 7
	usageWindowDays     = 30
	peakHourCount       = 3
	freeTextSampleLimit = 100
	chatRollupLimit     = 50

	daysPerMonth = 30
)

// ageBucketOrder is the fixed presentation order of the age distribution.
var ageBucketOrder = []string{"<18", "18-24", "25-34", "35-44", "45-54", "55+", "unspecified"}

// scoreRanges are the fixed anxiety score buckets of the usage correlation,
// ordered by minimum score.
var scoreRanges = []struct {
	label string
	max   int
}{
	{"0-5", 5},
	{"6-10", 10},
	{"11-15", 15},
	{"16-20", 20},
	{"21+", math.MaxInt},
}

const scoreRangeUnavailable = "unavailable"

// Assembler runs all metric extractors against the store and packages one
// immutable RawSnapshot. Extractors are read-only and mutually independent,
// so they run concurrently; any single failure is fatal to the whole request.
type Assembler struct {
	store *store.Store
}

// NewAssembler creates a new snapshot assembler.
func NewAssembler(st *store.Store) *Assembler {
	return &Assembler{store: st}
}

// Assemble builds the snapshot for the given instant. It is a pure function
// of the stored data and now: calling it twice against an unchanged store
// within the same instant yields identical snapshots.
func (a *Assembler) Assemble(ctx context.Context, now time.Time) (*RawSnapshot, error) {
	now = now.UTC()
	snapshot := &RawSnapshot{}

	// Full join: a failed extractor does not cancel in-flight siblings, the
	// first error simply fails the assembly after all have settled.
	var g errgroup.Group

	g.Go(func() error {
		stats, err := a.userStats(ctx, now)
		if err != nil {
			return err
		}
		snapshot.UserStats = *stats
		return nil
	})
	g.Go(func() error {
		buckets, err := a.scoreDistribution(ctx, store.TestScaleAnxiety)
		if err != nil {
			return err
		}
		snapshot.AnxietyDistribution = buckets
		return nil
	})
	g.Go(func() error {
		buckets, err := a.scoreDistribution(ctx, store.TestScaleDepression)
		if err != nil {
			return err
		}
		snapshot.DepressionDistribution = buckets
		return nil
	})
	g.Go(func() error {
		buckets, err := a.ageDistribution(ctx)
		if err != nil {
			return err
		}
		snapshot.AgeDistribution = buckets
		return nil
	})
	g.Go(func() error {
		buckets, err := a.genderDistribution(ctx)
		if err != nil {
			return err
		}
		snapshot.GenderDistribution = buckets
		return nil
	})
	g.Go(func() error {
		points, err := a.monthlyActivity(ctx, now)
		if err != nil {
			return err
		}
		snapshot.MonthlyActivity = points
		return nil
	})
	g.Go(func() error {
		points, err := a.weeklyMessages(ctx, now)
		if err != nil {
			return err
		}
		snapshot.WeeklyMessages = points
		return nil
	})
	g.Go(func() error {
		buckets, err := a.anxietyUsageCorrelation(ctx)
		if err != nil {
			return err
		}
		snapshot.AnxietyUsageCorrelation = buckets
		return nil
	})
	g.Go(func() error {
		summary, err := a.effectiveness(ctx)
		if err != nil {
			return err
		}
		snapshot.Effectiveness = *summary
		return nil
	})
	g.Go(func() error {
		summary, err := a.retention(ctx, now)
		if err != nil {
			return err
		}
		snapshot.Retention = *summary
		return nil
	})
	g.Go(func() error {
		points, err := a.peakUsageHours(ctx, now)
		if err != nil {
			return err
		}
		snapshot.PeakUsageHours = points
		return nil
	})
	g.Go(func() error {
		samples, err := a.openResponses(ctx)
		if err != nil {
			return err
		}
		snapshot.OpenResponses = samples
		return nil
	})
	g.Go(func() error {
		rollups, err := a.chatAnalytics(ctx)
		if err != nil {
			return err
		}
		snapshot.ChatAnalytics = rollups
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (a *Assembler) userStats(ctx context.Context, now time.Time) (*UserStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Unix()
	counts, err := a.store.GetHeadlineCounts(ctx, monthStart)
	if err != nil {
		return nil, serrors.DataAccess("failed to load headline counts", err)
	}
	return &UserStats{
		TotalUsers:        counts.TotalUsers,
		NewUsersThisMonth: counts.NewUsersThisMonth,
		TotalTests:        counts.TotalTests,
		TotalMessages:     counts.TotalMessages,
	}, nil
}

func (a *Assembler) scoreDistribution(ctx context.Context, scale store.TestScale) ([]DistributionBucket, error) {
	rows, err := a.store.ListScoreInterpretationCounts(ctx, scale)
	if err != nil {
		return nil, serrors.DataAccess("failed to load "+string(scale)+" distribution", err)
	}
	buckets := make([]DistributionBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, DistributionBucket{Name: row.Name, Value: row.Value})
	}
	return buckets, nil
}

func (a *Assembler) ageDistribution(ctx context.Context) ([]AgeBucket, error) {
	rows, err := a.store.ListAgeBucketCounts(ctx)
	if err != nil {
		return nil, serrors.DataAccess("failed to load age distribution", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Value
	}
	// Fixed bucket order, present buckets only.
	buckets := make([]AgeBucket, 0, len(rows))
	for _, name := range ageBucketOrder {
		if count, ok := counts[name]; ok {
			buckets = append(buckets, AgeBucket{Name: name, Count: count})
		}
	}
	return buckets, nil
}

func (a *Assembler) genderDistribution(ctx context.Context) ([]DistributionBucket, error) {
	rows, err := a.store.ListGenderCounts(ctx)
	if err != nil {
		return nil, serrors.DataAccess("failed to load gender distribution", err)
	}
	buckets := make([]DistributionBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, DistributionBucket{Name: row.Name, Value: row.Value})
	}
	return buckets, nil
}

func (a *Assembler) monthlyActivity(ctx context.Context, now time.Time) ([]MonthlyPoint, error) {
	since := time.Date(now.Year(), now.Month()-(monthlyWindowMonths-1), 1, 0, 0, 0, 0, time.UTC).Unix()

	users, err := a.store.ListMonthlyNewUsers(ctx, since)
	if err != nil {
		return nil, serrors.DataAccess("failed to load monthly new users", err)
	}
	tests, err := a.store.ListMonthlyTests(ctx, since)
	if err != nil {
		return nil, serrors.DataAccess("failed to load monthly tests", err)
	}

	testsByMonth := make(map[string]int, len(tests))
	for _, mc := range tests {
		testsByMonth[mc.Month] = mc.Count
	}

	// The user series is authoritative: a month with tests but no matching
	// user-row month is not invented; a user month without tests defaults to 0.
	points := make([]MonthlyPoint, 0, len(users))
	for _, mc := range users {
		points = append(points, MonthlyPoint{
			Month:      mc.Month,
			Label:      monthLabel(mc.Month),
			NewUsers:   mc.Count,
			TestsTaken: testsByMonth[mc.Month],
		})
	}
	return points, nil
}

// monthLabel converts a "YYYY-MM" key to a short month name.
func monthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("Jan")
}

func (a *Assembler) weeklyMessages(ctx context.Context, now time.Time) ([]WeeklyMessagePoint, error) {
	since := now.AddDate(0, 0, -weeklyWindowDays).Unix()
	rows, err := a.store.ListWeekdayMessageCounts(ctx, since)
	if err != nil {
		return nil, serrors.DataAccess("failed to load weekly messages", err)
	}

	byWeekday := make(map[int]*store.WeekdayMessageCount, len(rows))
	for _, row := range rows {
		byWeekday[row.Weekday] = row
	}

	// Fixed Monday-first axis; days without traffic stay at zero.
	points := make([]WeeklyMessagePoint, 0, 7)
	for i := 0; i < 7; i++ {
		weekday := (i + 1) % 7 // SQL weekday numbering: 0 = Sunday
		point := WeeklyMessagePoint{
			Day: translateWeekday(time.Weekday(weekday).String()[:3]),
		}
		if row, ok := byWeekday[weekday]; ok {
			point.Messages = row.Total
			point.BotReplies = row.BotReplies
		}
		points = append(points, point)
	}
	return points, nil
}

func (a *Assembler) anxietyUsageCorrelation(ctx context.Context) ([]CorrelationBucket, error) {
	rows, err := a.store.ListUserEngagement(ctx)
	if err != nil {
		return nil, serrors.DataAccess("failed to load user engagement", err)
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, row := range rows {
		label := scoreRangeLabel(row.AnxietyScore)
		sums[label] += row.MessageCount
		counts[label]++
	}

	buckets := make([]CorrelationBucket, 0, len(scoreRanges)+1)
	appendBucket := func(label string) {
		if counts[label] == 0 {
			return
		}
		buckets = append(buckets, CorrelationBucket{
			ScoreRange:   label,
			MeanMessages: round1(float64(sums[label]) / float64(counts[label])),
		})
	}
	for _, r := range scoreRanges {
		appendBucket(r.label)
	}
	appendBucket(scoreRangeUnavailable)
	return buckets, nil
}

func scoreRangeLabel(score *int) string {
	if score == nil {
		return scoreRangeUnavailable
	}
	for _, r := range scoreRanges {
		if *score <= r.max {
			return r.label
		}
	}
	return scoreRangeUnavailable
}

func (a *Assembler) effectiveness(ctx context.Context) (*EffectivenessSummary, error) {
	points, err := a.store.ListAnxietyTestPoints(ctx)
	if err != nil {
		return nil, serrors.DataAccess("failed to load test points", err)
	}

	// Rows arrive ordered by (user, time): the first row per user is the
	// first test, the last one the latest.
	type span struct {
		firstTs, lastTs       int64
		firstScore, lastScore int
		tests                 int
	}
	spans := make(map[int32]*span)
	var order []int32
	for _, p := range points {
		s, ok := spans[p.UserID]
		if !ok {
			s = &span{firstTs: p.CreatedTs, firstScore: p.AnxietyScore}
			spans[p.UserID] = s
			order = append(order, p.UserID)
		}
		s.lastTs = p.CreatedTs
		s.lastScore = p.AnxietyScore
		s.tests++
	}

	minSpanSecs := int64(EffectivenessMinSpanDays) * 24 * 3600
	summary := &EffectivenessSummary{}
	for _, userID := range order {
		s := spans[userID]
		if s.tests < 2 || s.lastTs-s.firstTs < minSpanSecs {
			continue
		}
		summary.TotalUsers++
		if s.lastScore < s.firstScore {
			summary.ImprovedUsers++
		}
	}
	if summary.TotalUsers > 0 {
		summary.ImprovementRate = round1(float64(summary.ImprovedUsers) / float64(summary.TotalUsers) * 100)
	}
	return summary, nil
}

func (a *Assembler) retention(ctx context.Context, now time.Time) (*RetentionSummary, error) {
	spans, err := a.store.ListUserActivitySpans(ctx)
	if err != nil {
		return nil, serrors.DataAccess("failed to load activity spans", err)
	}

	summary := &RetentionSummary{}
	if len(spans) == 0 {
		return summary, nil
	}

	oneMonthAgo := now.AddDate(0, -1, 0).Unix()
	twoMonthsAgo := now.AddDate(0, -2, 0).Unix()

	var totalMonths float64
	for _, s := range spans {
		activeSecs := s.LastActiveTs - s.CreatedTs
		if activeSecs < 0 {
			activeSecs = 0
		}
		totalMonths += float64(activeSecs) / (daysPerMonth * 24 * 3600)

		if s.LastActiveTs >= oneMonthAgo {
			summary.ActiveThisMonth++
		}
		if s.LastActiveTs >= twoMonthsAgo {
			summary.ActivePriorMonth++
		}
	}
	summary.AvgMonthsActive = round1(totalMonths / float64(len(spans)))

	// The rate compares two independent active-user counts, so it can exceed
	// 100 when the base grows; it is intentionally not clamped.
	if summary.ActivePriorMonth > 0 {
		summary.RetentionRate = round1(float64(summary.ActiveThisMonth) / float64(summary.ActivePriorMonth) * 100)
	}
	return summary, nil
}

func (a *Assembler) peakUsageHours(ctx context.Context, now time.Time) ([]UsageHourPoint, error) {
	since := now.AddDate(0, 0, -usageWindowDays).Unix()
	rows, err := a.store.ListTopUsageHours(ctx, since, peakHourCount)
	if err != nil {
		return nil, serrors.DataAccess("failed to load peak usage hours", err)
	}
	points := make([]UsageHourPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, UsageHourPoint{Hour: row.Hour, Messages: row.Messages})
	}
	return points, nil
}

func (a *Assembler) openResponses(ctx context.Context) ([]string, error) {
	rows, err := a.store.ListFreeTextSamples(ctx, freeTextSampleLimit)
	if err != nil {
		return nil, serrors.DataAccess("failed to load open responses", err)
	}
	samples := make([]string, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, row.Text)
	}
	return samples, nil
}

func (a *Assembler) chatAnalytics(ctx context.Context) ([]ChatAnalytic, error) {
	rows, err := a.store.ListChatAnalytics(ctx, chatRollupLimit)
	if err != nil {
		return nil, serrors.DataAccess("failed to load chat analytics", err)
	}
	rollups := make([]ChatAnalytic, 0, len(rows))
	for _, row := range rows {
		rollups = append(rollups, ChatAnalytic{
			ChatID:        row.ChatID,
			ChatName:      row.ChatName,
			Gender:        row.Gender,
			Age:           row.Age,
			Messages:      row.MessageCount,
			MaxAnxiety:    row.MaxAnxiety,
			MaxDepression: row.MaxDepression,
		})
	}
	return rollups, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
