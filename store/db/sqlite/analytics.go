package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dragon88888888888/dashboard-serenity/store"
)

func (d *DB) GetHeadlineCounts(ctx context.Context, monthStart int64) (*store.HeadlineCounts, error) {
	counts := &store.HeadlineCounts{}

	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user`).Scan(&counts.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user WHERE created_ts >= ?`, monthStart).Scan(&counts.NewUsersThisMonth); err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM test_result`).Scan(&counts.TotalTests); err != nil {
		return nil, fmt.Errorf("failed to count tests: %w", err)
	}
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM message`).Scan(&counts.TotalMessages); err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	return counts, nil
}

func (d *DB) ListScoreInterpretationCounts(ctx context.Context, scale store.TestScale) ([]*store.NamedBucket, error) {
	var query string
	switch scale {
	case store.TestScaleAnxiety:
		query = `
			SELECT anxiety_level, COUNT(*)
			FROM test_result
			WHERE anxiety_level IS NOT NULL
			GROUP BY anxiety_level
			ORDER BY COUNT(*) DESC
		`
	case store.TestScaleDepression:
		query = `
			SELECT depression_level, COUNT(*)
			FROM test_result
			WHERE depression_level IS NOT NULL
			GROUP BY depression_level
			ORDER BY COUNT(*) DESC
		`
	default:
		return nil, fmt.Errorf("unknown test scale: %s", scale)
	}

	return d.listNamedBuckets(ctx, query, fmt.Sprintf("%s interpretation counts", scale))
}

func (d *DB) ListAgeBucketCounts(ctx context.Context) ([]*store.NamedBucket, error) {
	query := `
		SELECT
			CASE
				WHEN age IS NULL THEN 'unspecified'
				WHEN age < 18 THEN '<18'
				WHEN age <= 24 THEN '18-24'
				WHEN age <= 34 THEN '25-34'
				WHEN age <= 44 THEN '35-44'
				WHEN age <= 54 THEN '45-54'
				ELSE '55+'
			END AS bucket,
			COUNT(*)
		FROM user
		GROUP BY bucket
	`
	return d.listNamedBuckets(ctx, query, "age bucket counts")
}

func (d *DB) ListGenderCounts(ctx context.Context) ([]*store.NamedBucket, error) {
	query := `
		SELECT
			CASE WHEN gender IS NULL OR gender = '' THEN 'unspecified' ELSE gender END AS g,
			COUNT(*)
		FROM user
		GROUP BY g
		ORDER BY COUNT(*) DESC
	`
	return d.listNamedBuckets(ctx, query, "gender counts")
}

func (d *DB) listNamedBuckets(ctx context.Context, query string, label string) ([]*store.NamedBucket, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", label, err)
	}
	defer rows.Close()

	var buckets []*store.NamedBucket
	for rows.Next() {
		var b store.NamedBucket
		if err := rows.Scan(&b.Name, &b.Value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", label, err)
		}
		buckets = append(buckets, &b)
	}

	return buckets, rows.Err()
}

func (d *DB) ListMonthlyNewUsers(ctx context.Context, since int64) ([]*store.MonthCount, error) {
	query := `
		SELECT strftime('%Y-%m', created_ts, 'unixepoch') AS month, COUNT(*)
		FROM user
		WHERE created_ts >= ?
		GROUP BY month
		ORDER BY month
	`
	return d.listMonthCounts(ctx, query, since, "monthly new users")
}

func (d *DB) ListMonthlyTests(ctx context.Context, since int64) ([]*store.MonthCount, error) {
	query := `
		SELECT strftime('%Y-%m', created_ts, 'unixepoch') AS month, COUNT(*)
		FROM test_result
		WHERE created_ts >= ?
		GROUP BY month
		ORDER BY month
	`
	return d.listMonthCounts(ctx, query, since, "monthly tests")
}

func (d *DB) listMonthCounts(ctx context.Context, query string, since int64, label string) ([]*store.MonthCount, error) {
	rows, err := d.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", label, err)
	}
	defer rows.Close()

	var counts []*store.MonthCount
	for rows.Next() {
		var mc store.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", label, err)
		}
		counts = append(counts, &mc)
	}

	return counts, rows.Err()
}

func (d *DB) ListWeekdayMessageCounts(ctx context.Context, since int64) ([]*store.WeekdayMessageCount, error) {
	query := `
		SELECT
			CAST(strftime('%w', created_ts, 'unixepoch') AS INTEGER) AS weekday,
			COUNT(*),
			SUM(CASE WHEN sender = 'bot' THEN 1 ELSE 0 END)
		FROM message
		WHERE created_ts >= ?
		GROUP BY weekday
	`

	rows, err := d.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekday message counts: %w", err)
	}
	defer rows.Close()

	var counts []*store.WeekdayMessageCount
	for rows.Next() {
		var wc store.WeekdayMessageCount
		if err := rows.Scan(&wc.Weekday, &wc.Total, &wc.BotReplies); err != nil {
			return nil, fmt.Errorf("failed to scan weekday message row: %w", err)
		}
		counts = append(counts, &wc)
	}

	return counts, rows.Err()
}

func (d *DB) ListUserEngagement(ctx context.Context) ([]*store.UserEngagement, error) {
	query := `
		SELECT
			u.id,
			(SELECT tr.anxiety_score FROM test_result tr
				WHERE tr.user_id = u.id AND tr.anxiety_score IS NOT NULL
				ORDER BY tr.created_ts DESC LIMIT 1) AS anxiety_score,
			(SELECT COUNT(*) FROM message m
				JOIN chat c ON m.chat_id = c.id
				WHERE c.user_id = u.id) AS message_count
		FROM user u
	`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user engagement: %w", err)
	}
	defer rows.Close()

	var engagements []*store.UserEngagement
	for rows.Next() {
		var e store.UserEngagement
		var score sql.NullInt64
		if err := rows.Scan(&e.UserID, &score, &e.MessageCount); err != nil {
			return nil, fmt.Errorf("failed to scan user engagement row: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			e.AnxietyScore = &v
		}
		engagements = append(engagements, &e)
	}

	return engagements, rows.Err()
}

func (d *DB) ListAnxietyTestPoints(ctx context.Context) ([]*store.TestPoint, error) {
	query := `
		SELECT user_id, created_ts, anxiety_score
		FROM test_result
		WHERE anxiety_score IS NOT NULL
		ORDER BY user_id, created_ts
	`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list anxiety test points: %w", err)
	}
	defer rows.Close()

	var points []*store.TestPoint
	for rows.Next() {
		var p store.TestPoint
		if err := rows.Scan(&p.UserID, &p.CreatedTs, &p.AnxietyScore); err != nil {
			return nil, fmt.Errorf("failed to scan test point: %w", err)
		}
		points = append(points, &p)
	}

	return points, rows.Err()
}

func (d *DB) ListUserActivitySpans(ctx context.Context) ([]*store.UserActivitySpan, error) {
	query := `
		SELECT
			u.id,
			u.created_ts,
			MAX(
				u.updated_ts,
				COALESCE((SELECT MAX(c.updated_ts) FROM chat c WHERE c.user_id = u.id), 0),
				COALESCE((SELECT MAX(t.created_ts) FROM test_result t WHERE t.user_id = u.id), 0)
			) AS last_active_ts
		FROM user u
	`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user activity spans: %w", err)
	}
	defer rows.Close()

	var spans []*store.UserActivitySpan
	for rows.Next() {
		var s store.UserActivitySpan
		if err := rows.Scan(&s.UserID, &s.CreatedTs, &s.LastActiveTs); err != nil {
			return nil, fmt.Errorf("failed to scan activity span: %w", err)
		}
		spans = append(spans, &s)
	}

	return spans, rows.Err()
}

func (d *DB) ListTopUsageHours(ctx context.Context, since int64, limit int) ([]*store.UsageHourPoint, error) {
	query := `
		SELECT
			CAST(strftime('%H', created_ts, 'unixepoch') AS INTEGER) AS hour,
			COUNT(*) AS message_count
		FROM message
		WHERE created_ts >= ?
		GROUP BY hour
		ORDER BY message_count DESC, hour ASC
		LIMIT ?
	`

	rows, err := d.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top usage hours: %w", err)
	}
	defer rows.Close()

	var points []*store.UsageHourPoint
	for rows.Next() {
		var p store.UsageHourPoint
		if err := rows.Scan(&p.Hour, &p.Messages); err != nil {
			return nil, fmt.Errorf("failed to scan usage hour row: %w", err)
		}
		points = append(points, &p)
	}

	return points, rows.Err()
}

func (d *DB) ListFreeTextSamples(ctx context.Context, limit int) ([]*store.FreeTextSample, error) {
	query := `
		SELECT open_response
		FROM test_result
		WHERE open_response IS NOT NULL
		ORDER BY created_ts DESC
		LIMIT ?
	`

	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list free text samples: %w", err)
	}
	defer rows.Close()

	var samples []*store.FreeTextSample
	for rows.Next() {
		var s store.FreeTextSample
		if err := rows.Scan(&s.Text); err != nil {
			return nil, fmt.Errorf("failed to scan free text sample: %w", err)
		}
		samples = append(samples, &s)
	}

	return samples, rows.Err()
}

func (d *DB) ListChatAnalytics(ctx context.Context, limit int) ([]*store.ChatAnalyticRow, error) {
	query := `
		SELECT
			c.id,
			c.name,
			u.gender,
			u.age,
			(SELECT COUNT(*) FROM message m WHERE m.chat_id = c.id) AS message_count,
			(SELECT MAX(t.anxiety_score) FROM test_result t WHERE t.user_id = c.user_id) AS max_anxiety,
			(SELECT MAX(t.depression_score) FROM test_result t WHERE t.user_id = c.user_id) AS max_depression
		FROM chat c
		JOIN user u ON u.id = c.user_id
		ORDER BY message_count DESC
		LIMIT ?
	`

	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat analytics: %w", err)
	}
	defer rows.Close()

	var results []*store.ChatAnalyticRow
	for rows.Next() {
		var r store.ChatAnalyticRow
		var gender sql.NullString
		var age, maxAnxiety, maxDepression sql.NullInt64
		if err := rows.Scan(&r.ChatID, &r.ChatName, &gender, &age, &r.MessageCount, &maxAnxiety, &maxDepression); err != nil {
			return nil, fmt.Errorf("failed to scan chat analytics row: %w", err)
		}
		if gender.Valid {
			r.Gender = &gender.String
		}
		if age.Valid {
			v := int(age.Int64)
			r.Age = &v
		}
		if maxAnxiety.Valid {
			v := int(maxAnxiety.Int64)
			r.MaxAnxiety = &v
		}
		if maxDepression.Valid {
			v := int(maxDepression.Int64)
			r.MaxDepression = &v
		}
		results = append(results, &r)
	}

	return results, rows.Err()
}
