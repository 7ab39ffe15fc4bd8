// Package test provides a disposable store for package-level tests.
package test

import (
	"context"
	"testing"

	"github.com/dragon88888888888/dashboard-serenity/internal/profile"
	"github.com/dragon88888888888/dashboard-serenity/store"
	"github.com/dragon88888888888/dashboard-serenity/store/db"
)

// NewTestingStore returns a migrated sqlite-backed store rooted in a
// throwaway directory. The database is removed with the test's temp dir.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	testProfile := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(testProfile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	testStore := store.New(dbDriver, testProfile)
	if err := testStore.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return testStore
}

func getTestingProfile(t *testing.T) *profile.Profile {
	testProfile := &profile.Profile{
		Mode:   "dev",
		Data:   t.TempDir(),
		Driver: "sqlite",
	}
	if err := testProfile.Validate(); err != nil {
		t.Fatalf("invalid testing profile: %v", err)
	}
	return testProfile
}

// mustExec runs a seed statement and fails the test on error.
func mustExec(ctx context.Context, t *testing.T, s *store.Store, query string, args ...any) {
	t.Helper()
	if _, err := s.GetDriver().GetDB().ExecContext(ctx, query, args...); err != nil {
		t.Fatalf("failed to exec %q: %v", query, err)
	}
}

// AddUser seeds one user row. Pass nil for unknown gender or age.
func AddUser(ctx context.Context, t *testing.T, s *store.Store, id int, name string, gender any, age any, createdTs int64) {
	t.Helper()
	mustExec(ctx, t, s,
		"INSERT INTO user (id, name, gender, age, created_ts, updated_ts) VALUES (?, ?, ?, ?, ?, ?)",
		id, name, gender, age, createdTs, createdTs)
}

// AddChat seeds one chat row.
func AddChat(ctx context.Context, t *testing.T, s *store.Store, id, userID int, name string, createdTs int64) {
	t.Helper()
	mustExec(ctx, t, s,
		"INSERT INTO chat (id, user_id, name, created_ts, updated_ts) VALUES (?, ?, ?, ?, ?)",
		id, userID, name, createdTs, createdTs)
}

// AddMessage seeds one message row. Sender must be "user" or "bot".
func AddMessage(ctx context.Context, t *testing.T, s *store.Store, chatID int, sender, content string, createdTs int64) {
	t.Helper()
	mustExec(ctx, t, s,
		"INSERT INTO message (chat_id, sender, content, created_ts) VALUES (?, ?, ?, ?)",
		chatID, sender, content, createdTs)
}

// AddTestResult seeds one test_result row. Scores and openResponse may be nil.
func AddTestResult(ctx context.Context, t *testing.T, s *store.Store, userID int, anxietyScore, depressionScore any, anxietyLevel, depressionLevel string, openResponse any, createdTs int64) {
	t.Helper()
	mustExec(ctx, t, s,
		"INSERT INTO test_result (user_id, anxiety_score, depression_score, anxiety_level, depression_level, open_response, created_ts) VALUES (?, ?, ?, ?, ?, ?, ?)",
		userID, anxietyScore, depressionScore, anxietyLevel, depressionLevel, openResponse, createdTs)
}
