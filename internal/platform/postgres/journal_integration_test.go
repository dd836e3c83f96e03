//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/patientedu/internal/events"
)

func TestJournalStore_Integration(t *testing.T) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := Open(ctx, databaseURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, MigrateUp, nil))

	journal := NewJournalStore(db, nil)
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(),
			"DELETE FROM catalog_revisions WHERE session_id = $1", journal.SessionID())
		_, _ = db.ExecContext(context.Background(),
			"DELETE FROM catalog_sessions WHERE session_id = $1", journal.SessionID())
	})

	now := time.Now().UTC().Truncate(time.Millisecond)
	first, err := events.NewCatalogEvent(events.TypeCatalogInstalled, 1, struct{}{}, now)
	require.NoError(t, err)
	second, err := events.NewCatalogEvent(events.TypeSectionAdded, 2, events.Target{SectionID: "cardiology"}, now.Add(time.Second))
	require.NoError(t, err)

	require.NoError(t, journal.HandleEvent(ctx, first))
	require.NoError(t, journal.HandleEvent(ctx, second))

	dup := *second
	dup.ID = first.ID
	assert.Error(t, journal.HandleEvent(ctx, &dup), "a revision is journaled once per session")

	var head int64
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT head_revision FROM catalog_sessions WHERE session_id = $1", journal.SessionID()).Scan(&head))
	assert.Equal(t, int64(2), head)

	entries, err := journal.Recent(ctx, 10)
	require.NoError(t, err)
	var mine []Entry
	for _, e := range entries {
		if e.SessionID == journal.SessionID() {
			mine = append(mine, e)
		}
	}
	require.Len(t, mine, 2)
	assert.Equal(t, uint64(2), mine[0].Revision)
	assert.Equal(t, events.TypeSectionAdded, mine[0].EventType)
	assert.JSONEq(t, `{"sectionId":"cardiology"}`, string(mine[0].Payload))
}
