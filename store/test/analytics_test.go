package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dragon88888888888/dashboard-serenity/store"
)

func ts(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).Unix()
}

func TestGetHeadlineCounts(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	monthStart := ts(2026, 5, 1, 0)
	AddUser(ctx, t, s, 1, "ana", "female", 22, ts(2026, 4, 10, 9))
	AddUser(ctx, t, s, 2, "luis", "male", 31, ts(2026, 5, 3, 14))
	AddChat(ctx, t, s, 1, 1, "daily check-in", ts(2026, 4, 10, 9))
	AddMessage(ctx, t, s, 1, "user", "hola", ts(2026, 5, 4, 10))
	AddMessage(ctx, t, s, 1, "bot", "hola, como estas?", ts(2026, 5, 4, 10))
	AddTestResult(ctx, t, s, 1, 12, 8, "moderate", "mild", nil, ts(2026, 5, 4, 11))

	counts, err := s.GetHeadlineCounts(ctx, monthStart)
	require.NoError(t, err)
	require.Equal(t, 2, counts.TotalUsers)
	require.Equal(t, 1, counts.NewUsersThisMonth)
	require.Equal(t, 1, counts.TotalTests)
	require.Equal(t, 2, counts.TotalMessages)
}

func TestGetHeadlineCountsEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	counts, err := s.GetHeadlineCounts(ctx, ts(2026, 5, 1, 0))
	require.NoError(t, err)
	require.Equal(t, &store.HeadlineCounts{}, counts)
}

func TestListScoreInterpretationCounts(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	AddUser(ctx, t, s, 1, "ana", nil, nil, ts(2026, 1, 1, 0))
	AddTestResult(ctx, t, s, 1, 5, 3, "mild", "minimal", nil, ts(2026, 2, 1, 0))
	AddTestResult(ctx, t, s, 1, 14, 11, "moderate", "moderate", nil, ts(2026, 3, 1, 0))
	AddTestResult(ctx, t, s, 1, 16, nil, "moderate", "", nil, ts(2026, 4, 1, 0))

	buckets, err := s.ListScoreInterpretationCounts(ctx, store.TestScaleAnxiety)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	// Most frequent level first.
	require.Equal(t, "moderate", buckets[0].Name)
	require.Equal(t, 2, buckets[0].Value)
	require.Equal(t, "mild", buckets[1].Name)
	require.Equal(t, 1, buckets[1].Value)

	_, err = s.ListScoreInterpretationCounts(ctx, store.TestScale("stress"))
	require.Error(t, err)
}

func TestListAgeBucketCounts(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	created := ts(2026, 1, 1, 0)
	AddUser(ctx, t, s, 1, "a", nil, 16, created)
	AddUser(ctx, t, s, 2, "b", nil, 18, created)
	AddUser(ctx, t, s, 3, "c", nil, 24, created)
	AddUser(ctx, t, s, 4, "d", nil, 40, created)
	AddUser(ctx, t, s, 5, "e", nil, 70, created)
	AddUser(ctx, t, s, 6, "f", nil, nil, created)

	buckets, err := s.ListAgeBucketCounts(ctx)
	require.NoError(t, err)

	byName := map[string]int{}
	for _, b := range buckets {
		byName[b.Name] = b.Value
	}
	require.Equal(t, map[string]int{
		"<18":         1,
		"18-24":       2,
		"35-44":       1,
		"55+":         1,
		"unspecified": 1,
	}, byName)
}

func TestListGenderCounts(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	created := ts(2026, 1, 1, 0)
	AddUser(ctx, t, s, 1, "a", "female", 20, created)
	AddUser(ctx, t, s, 2, "b", "female", 25, created)
	AddUser(ctx, t, s, 3, "c", "", 30, created)
	AddUser(ctx, t, s, 4, "d", nil, 30, created)

	buckets, err := s.ListGenderCounts(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, "female", buckets[0].Name)
	require.Equal(t, 2, buckets[0].Value)
	// Empty string and NULL collapse into one bucket.
	require.Equal(t, "unspecified", buckets[1].Name)
	require.Equal(t, 2, buckets[1].Value)
}

func TestListMonthlySeries(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	AddUser(ctx, t, s, 1, "a", nil, nil, ts(2026, 3, 5, 0))
	AddUser(ctx, t, s, 2, "b", nil, nil, ts(2026, 3, 28, 0))
	AddUser(ctx, t, s, 3, "c", nil, nil, ts(2026, 5, 1, 0))
	// Before the window, must be excluded.
	AddUser(ctx, t, s, 4, "d", nil, nil, ts(2025, 11, 1, 0))
	AddTestResult(ctx, t, s, 1, 10, 10, "moderate", "moderate", nil, ts(2026, 4, 2, 0))

	since := ts(2026, 1, 1, 0)

	users, err := s.ListMonthlyNewUsers(ctx, since)
	require.NoError(t, err)
	require.Equal(t, []*store.MonthCount{
		{Month: "2026-03", Count: 2},
		{Month: "2026-05", Count: 1},
	}, users)

	tests, err := s.ListMonthlyTests(ctx, since)
	require.NoError(t, err)
	require.Equal(t, []*store.MonthCount{
		{Month: "2026-04", Count: 1},
	}, tests)
}

func TestListWeekdayMessageCounts(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	AddUser(ctx, t, s, 1, "a", nil, nil, ts(2026, 1, 1, 0))
	AddChat(ctx, t, s, 1, 1, "chat", ts(2026, 1, 1, 0))

	// 2026-05-04 is a Monday.
	monday := ts(2026, 5, 4, 10)
	AddMessage(ctx, t, s, 1, "user", "m1", monday)
	AddMessage(ctx, t, s, 1, "bot", "m2", monday)
	AddMessage(ctx, t, s, 1, "bot", "m3", monday+3600)

	counts, err := s.ListWeekdayMessageCounts(ctx, ts(2026, 5, 4, 0))
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.Equal(t, 1, counts[0].Weekday) // 1 = Monday
	require.Equal(t, 3, counts[0].Total)
	require.Equal(t, 2, counts[0].BotReplies)
}

func TestListUserEngagement(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	created := ts(2026, 1, 1, 0)
	AddUser(ctx, t, s, 1, "scored", nil, nil, created)
	AddUser(ctx, t, s, 2, "unscored", nil, nil, created)
	AddChat(ctx, t, s, 1, 1, "chat", created)
	AddMessage(ctx, t, s, 1, "user", "m", ts(2026, 2, 1, 0))
	AddMessage(ctx, t, s, 1, "bot", "m", ts(2026, 2, 1, 0))
	AddTestResult(ctx, t, s, 1, 8, nil, "mild", "", nil, ts(2026, 2, 1, 0))
	AddTestResult(ctx, t, s, 1, 15, nil, "moderate", "", nil, ts(2026, 3, 1, 0))

	engagements, err := s.ListUserEngagement(ctx)
	require.NoError(t, err)
	require.Len(t, engagements, 2)

	byID := map[int32]*store.UserEngagement{}
	for _, e := range engagements {
		byID[e.UserID] = e
	}

	// Latest score wins.
	require.NotNil(t, byID[1].AnxietyScore)
	require.Equal(t, 15, *byID[1].AnxietyScore)
	require.Equal(t, 2, byID[1].MessageCount)

	require.Nil(t, byID[2].AnxietyScore)
	require.Equal(t, 0, byID[2].MessageCount)
}

func TestListAnxietyTestPoints(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	created := ts(2026, 1, 1, 0)
	AddUser(ctx, t, s, 1, "a", nil, nil, created)
	AddUser(ctx, t, s, 2, "b", nil, nil, created)
	AddTestResult(ctx, t, s, 2, 9, nil, "mild", "", nil, ts(2026, 2, 1, 0))
	AddTestResult(ctx, t, s, 1, 14, nil, "moderate", "", nil, ts(2026, 3, 1, 0))
	AddTestResult(ctx, t, s, 1, 7, nil, "mild", "", nil, ts(2026, 2, 1, 0))
	// Unscored tests never become points.
	AddTestResult(ctx, t, s, 1, nil, 10, "", "moderate", nil, ts(2026, 4, 1, 0))

	points, err := s.ListAnxietyTestPoints(ctx)
	require.NoError(t, err)
	require.Equal(t, []*store.TestPoint{
		{UserID: 1, CreatedTs: ts(2026, 2, 1, 0), AnxietyScore: 7},
		{UserID: 1, CreatedTs: ts(2026, 3, 1, 0), AnxietyScore: 14},
		{UserID: 2, CreatedTs: ts(2026, 2, 1, 0), AnxietyScore: 9},
	}, points)
}

func TestListUserActivitySpans(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	created := ts(2026, 1, 1, 0)
	chatUpdated := ts(2026, 3, 1, 0)
	testCreated := ts(2026, 4, 1, 0)

	AddUser(ctx, t, s, 1, "a", nil, nil, created)
	AddChat(ctx, t, s, 1, 1, "chat", chatUpdated)
	AddTestResult(ctx, t, s, 1, 5, nil, "mild", "", nil, testCreated)

	spans, err := s.ListUserActivitySpans(ctx)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	require.Equal(t, created, spans[0].CreatedTs)
	// Last active is the max across account, chat and test activity.
	require.Equal(t, testCreated, spans[0].LastActiveTs)
}

func TestListTopUsageHours(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	AddUser(ctx, t, s, 1, "a", nil, nil, ts(2026, 1, 1, 0))
	AddChat(ctx, t, s, 1, 1, "chat", ts(2026, 1, 1, 0))

	day := ts(2026, 5, 10, 0)
	for i := 0; i < 3; i++ {
		AddMessage(ctx, t, s, 1, "user", "m", day+21*3600)
	}
	for i := 0; i < 2; i++ {
		AddMessage(ctx, t, s, 1, "user", "m", day+9*3600)
	}
	AddMessage(ctx, t, s, 1, "user", "m", day+14*3600)

	points, err := s.ListTopUsageHours(ctx, day, 2)
	require.NoError(t, err)
	require.Equal(t, []*store.UsageHourPoint{
		{Hour: 21, Messages: 3},
		{Hour: 9, Messages: 2},
	}, points)
}

func TestListFreeTextSamples(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	AddUser(ctx, t, s, 1, "a", nil, nil, ts(2026, 1, 1, 0))
	AddTestResult(ctx, t, s, 1, 5, nil, "mild", "", "me cuesta dormir", ts(2026, 2, 1, 0))
	AddTestResult(ctx, t, s, 1, 6, nil, "mild", "", nil, ts(2026, 3, 1, 0))
	AddTestResult(ctx, t, s, 1, 7, nil, "mild", "", "mejor esta semana", ts(2026, 4, 1, 0))

	samples, err := s.ListFreeTextSamples(ctx, 10)
	require.NoError(t, err)
	// Newest first, NULL responses skipped.
	require.Equal(t, []*store.FreeTextSample{
		{Text: "mejor esta semana"},
		{Text: "me cuesta dormir"},
	}, samples)

	limited, err := s.ListFreeTextSamples(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestListChatAnalytics(t *testing.T) {
	ctx := context.Background()
	s := NewTestingStore(ctx, t)
	defer s.Close()

	created := ts(2026, 1, 1, 0)
	AddUser(ctx, t, s, 1, "ana", "female", 22, created)
	AddUser(ctx, t, s, 2, "luis", nil, nil, created)
	AddChat(ctx, t, s, 1, 1, "busy chat", created)
	AddChat(ctx, t, s, 2, 2, "quiet chat", created)
	for i := 0; i < 3; i++ {
		AddMessage(ctx, t, s, 1, "user", "m", ts(2026, 2, 1, 0))
	}
	AddMessage(ctx, t, s, 2, "user", "m", ts(2026, 2, 1, 0))
	AddTestResult(ctx, t, s, 1, 12, 9, "moderate", "mild", nil, ts(2026, 2, 1, 0))
	AddTestResult(ctx, t, s, 1, 17, 4, "severe", "minimal", nil, ts(2026, 3, 1, 0))

	rollups, err := s.ListChatAnalytics(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rollups, 2)

	busy := rollups[0]
	require.Equal(t, int32(1), busy.ChatID)
	require.Equal(t, "busy chat", busy.ChatName)
	require.NotNil(t, busy.Gender)
	require.Equal(t, "female", *busy.Gender)
	require.NotNil(t, busy.Age)
	require.Equal(t, 22, *busy.Age)
	require.Equal(t, 3, busy.MessageCount)
	require.Equal(t, 17, *busy.MaxAnxiety)
	require.Equal(t, 9, *busy.MaxDepression)

	quiet := rollups[1]
	require.Equal(t, int32(2), quiet.ChatID)
	require.Nil(t, quiet.Gender)
	require.Nil(t, quiet.Age)
	require.Nil(t, quiet.MaxAnxiety)
	require.Nil(t, quiet.MaxDepression)
}
