package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/patientedu/internal/events"
	"github.com/phrazzld/patientedu/internal/platform/logger"
)

// Entry is one journaled catalog revision.
type Entry struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Revision  uint64
	EventType string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// JournalStore appends catalog events to catalog_revisions. Revisions
// restart with every process, so rows are keyed by a per-process session.
type JournalStore struct {
	db        *sql.DB
	sessionID uuid.UUID
	logger    *slog.Logger
}

var _ events.EventHandler = (*JournalStore)(nil)

// NewJournalStore creates a JournalStore writing under a fresh session.
func NewJournalStore(db *sql.DB, logger *slog.Logger) *JournalStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalStore{
		db:        db,
		sessionID: uuid.New(),
		logger:    logger.With(slog.String("component", "revision_journal")),
	}
}

// SessionID identifies the rows written by this process.
func (s *JournalStore) SessionID() uuid.UUID {
	return s.sessionID
}

// HandleEvent journals event and advances the session head in one
// transaction.
func (s *JournalStore) HandleEvent(ctx context.Context, event *events.CatalogEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := insertRevision(ctx, tx, s.sessionID, event); err != nil {
			return err
		}
		return upsertSessionHead(ctx, tx, s.sessionID, event.Revision)
	})
	if err != nil {
		log.Error("failed to journal catalog revision",
			slog.String("event_type", event.Type),
			slog.Uint64("revision", event.Revision),
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("catalog revision journaled",
		slog.String("event_type", event.Type),
		slog.Uint64("revision", event.Revision))
	return nil
}

// Recent returns up to limit journal entries, newest first.
func (s *JournalStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return listRevisions(ctx, s.db, limit)
}

const insertRevisionSQL = `
	INSERT INTO catalog_revisions (id, session_id, revision, event_type, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

func insertRevision(ctx context.Context, db DBTX, sessionID uuid.UUID, event *events.CatalogEvent) error {
	if event == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidEntry)
	}
	if event.Revision == 0 || event.Type == "" {
		return fmt.Errorf("%w: revision %d of type %q", ErrInvalidEntry, event.Revision, event.Type)
	}

	payload := []byte(event.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	_, err := db.ExecContext(ctx, insertRevisionSQL,
		event.ID, sessionID, int64(event.Revision), event.Type, string(payload), event.CreatedAt.UTC())
	if err != nil {
		return MapError(err)
	}
	return nil
}

const upsertSessionHeadSQL = `
	INSERT INTO catalog_sessions (session_id, head_revision)
	VALUES ($1, $2)
	ON CONFLICT (session_id)
	DO UPDATE SET head_revision = GREATEST(catalog_sessions.head_revision, EXCLUDED.head_revision),
	              updated_at = NOW()
`

func upsertSessionHead(ctx context.Context, db DBTX, sessionID uuid.UUID, revision uint64) error {
	result, err := db.ExecContext(ctx, upsertSessionHeadSQL, sessionID, int64(revision))
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "catalog session")
}

const listRevisionsSQL = `
	SELECT id, session_id, revision, event_type, payload, created_at
	FROM catalog_revisions
	ORDER BY created_at DESC, revision DESC
	LIMIT $1
`

func listRevisions(ctx context.Context, db DBTX, limit int) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, listRevisionsSQL, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			rev     int64
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &rev, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		e.Revision = uint64(rev)
		e.Payload = json.RawMessage(payload)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}
