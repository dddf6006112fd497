package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorybase/memorybase-go/pkg/session"
	"github.com/memorybase/memorybase-go/pkg/session/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Client {
	t.Helper()
	store, err := sqlite.NewClient(&sqlite.Config{
		DBPath: filepath.Join(t.TempDir(), "sessions.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGetSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "onboarding chat", map[string]interface{}{
		"channel": "web",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, session.StatusActive, created.Status)

	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "onboarding chat", got.Title)
	assert.Equal(t, "web", got.Metadata["channel"])
}

func TestGetSessionAbsent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetSession(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateSessionStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	require.NoError(t, store.UpdateSessionStatus(ctx, created.ID, session.StatusColdArchived))

	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, session.StatusColdArchived, got.Status)
}

func TestAddMessageBumpsSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "chat", nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	msg, err := store.AddMessage(ctx, created.ID, "user", "hello")
	require.NoError(t, err)
	assert.Equal(t, created.ID, msg.SessionID)

	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
}

func TestGetMessagesOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "chat", nil)
	require.NoError(t, err)

	contents := []string{"first", "second", "third"}
	for _, content := range contents {
		_, err := store.AddMessage(ctx, created.ID, "user", content)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	all, err := store.GetMessages(ctx, created.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, content := range contents {
		assert.Equal(t, content, all[i].Content)
	}

	limited, err := store.GetMessages(ctx, created.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "first", limited[0].Content)
}

func TestSummariesNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "chat", nil)
	require.NoError(t, err)

	first, err := store.AddSummary(ctx, &session.Summary{
		SessionID:   created.ID,
		Strategy:    "sliding_window",
		SummaryJSON: map[string]interface{}{"turns": float64(10)},
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	time.Sleep(5 * time.Millisecond)
	_, err = store.AddSummary(ctx, &session.Summary{
		SessionID:   created.ID,
		Strategy:    "structured",
		SummaryText: "user prefers terse answers",
		SummaryJSON: map[string]interface{}{"decision_points": []interface{}{"use sqlite"}},
	})
	require.NoError(t, err)

	summaries, err := store.GetSummaries(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "structured", summaries[0].Strategy)
	assert.Equal(t, "sliding_window", summaries[1].Strategy)
	assert.Equal(t, float64(10), summaries[1].SummaryJSON["turns"])
}

func TestArchiveMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSession(ctx, "chat", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.AddMessage(ctx, created.ID, "user", "old message")
		require.NoError(t, err)
	}

	moved, err := store.ArchiveMessages(ctx, time.Now().UTC().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(3), moved)

	remaining, err := store.GetMessages(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// A second pass has nothing left to move.
	moved, err = store.ArchiveMessages(ctx, time.Now().UTC().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(0), moved)
}

func TestAuditLogsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.LogAudit(ctx, "session.create", "session", "s-1", map[string]interface{}{
		"actor": "api",
	}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.LogAudit(ctx, "session.archive", "session", "s-1", nil))

	entries, err := store.GetAuditLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "session.archive", entries[0].Action)
	assert.Equal(t, "session.create", entries[1].Action)
	assert.Equal(t, "api", entries[1].Details["actor"])
}
