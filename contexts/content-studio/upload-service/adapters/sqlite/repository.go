// Package sqliteadapter persists upload sessions and locks in a single-node SQLite database.
package sqliteadapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS upload_sessions (
		session_id TEXT PRIMARY KEY,
		storage_upload_id TEXT NOT NULL DEFAULT '',
		object_key TEXT NOT NULL,
		owner_actor_id TEXT NOT NULL,
		team_id TEXT NOT NULL DEFAULT '',
		content_id TEXT NOT NULL,
		filename TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		parts TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_upload_sessions_status_updated ON upload_sessions(status, updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_upload_sessions_owner ON upload_sessions(owner_actor_id)`,
	`CREATE TABLE IF NOT EXISTS upload_locks (
		owner_actor_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		acquired_at TEXT NOT NULL
	)`,
}

const sessionColumns = `session_id, storage_upload_id, object_key, owner_actor_id, team_id, content_id,
	filename, content_type, kind, status, parts, created_at, updated_at`

// Fixed-width UTC timestamps compare lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Migrate(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upload migration: %w", err)
	}
	for _, statement := range migrations {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply upload migration: %w", err)
		}
	}
	return tx.Commit()
}

func (r *Repository) CreateSessionWithLock(ctx context.Context, session entities.UploadSession, lock entities.UploadLock) error {
	parts, err := encodeParts(session.Parts)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO upload_locks (owner_actor_id, session_id, acquired_at) VALUES (?, ?, ?)`,
		lock.OwnerActorID, lock.SessionID, formatTime(lock.AcquiredAt),
	); err != nil {
		_ = tx.Rollback()
		if isConstraintViolation(err) {
			return domainerrors.ErrUploadInProgress
		}
		return fmt.Errorf("insert upload lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO upload_sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.SessionID,
		session.StorageUploadID,
		session.ObjectKey,
		session.OwnerActorID,
		session.TeamID,
		session.ContentID,
		session.Filename,
		session.ContentType,
		string(session.Kind),
		string(session.Status),
		parts,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	); err != nil {
		_ = tx.Rollback()
		if isConstraintViolation(err) {
			return domainerrors.ErrUploadInProgress
		}
		return fmt.Errorf("insert upload session: %w", err)
	}
	return tx.Commit()
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.UploadSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM upload_sessions WHERE session_id = ?`, sessionID,
	)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.UploadSession{}, domainerrors.ErrSessionNotFound
		}
		return entities.UploadSession{}, err
	}
	return session, nil
}

func (r *Repository) AttachStorageUpload(ctx context.Context, sessionID string, storageUploadID string, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_sessions SET storage_upload_id = ?, updated_at = ? WHERE session_id = ?`,
		storageUploadID, formatTime(updatedAt), sessionID,
	)
	if err != nil {
		return fmt.Errorf("attach storage upload: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) TransitionSession(ctx context.Context, transition ports.SessionTransition) error {
	query := `UPDATE upload_sessions SET status = ?, updated_at = ?`
	args := []any{string(transition.To), formatTime(transition.UpdatedAt)}
	if transition.Parts != nil {
		parts, err := encodeParts(transition.Parts)
		if err != nil {
			return err
		}
		query += `, parts = ?`
		args = append(args, parts)
	}
	query += ` WHERE session_id = ? AND status = ?`
	args = append(args, transition.SessionID, string(transition.From))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("transition upload session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetSession(ctx, transition.SessionID); err != nil {
			return err
		}
		return domainerrors.ErrSessionNotOpen
	}
	return nil
}

func (r *Repository) ReleaseLock(ctx context.Context, ownerActorID string, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM upload_locks WHERE owner_actor_id = ? AND session_id = ?`,
		ownerActorID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("release upload lock: %w", err)
	}
	return nil
}

func (r *Repository) ListSessions(ctx context.Context, filter ports.SessionFilter) ([]entities.UploadSession, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.OwnerActorID != "" {
		clauses = append(clauses, "owner_actor_id = ?")
		args = append(args, filter.OwnerActorID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + sessionColumns + ` FROM upload_sessions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC, session_id ASC LIMIT ?"
	args = append(args, limit)
	return r.query(ctx, query, args...)
}

func (r *Repository) ListStaleSessions(ctx context.Context, olderThan time.Time, limit int) ([]entities.UploadSession, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.query(ctx,
		`SELECT `+sessionColumns+` FROM upload_sessions
		WHERE status IN (?, ?) AND updated_at < ?
		ORDER BY updated_at ASC LIMIT ?`,
		string(entities.SessionStatusOpen),
		string(entities.SessionStatusCompleting),
		formatTime(olderThan),
		limit,
	)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]entities.UploadSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query upload sessions: %w", err)
	}
	defer rows.Close()

	items := make([]entities.UploadSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, session)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

type partRow struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

func encodeParts(parts []entities.Part) (string, error) {
	rows := make([]partRow, 0, len(parts))
	for _, part := range parts {
		rows = append(rows, partRow{PartNumber: part.PartNumber, ETag: part.ETag})
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func scanSession(row rowScanner) (entities.UploadSession, error) {
	var (
		session   entities.UploadSession
		kind      string
		status    string
		parts     string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&session.SessionID,
		&session.StorageUploadID,
		&session.ObjectKey,
		&session.OwnerActorID,
		&session.TeamID,
		&session.ContentID,
		&session.Filename,
		&session.ContentType,
		&kind,
		&status,
		&parts,
		&createdAt,
		&updatedAt,
	); err != nil {
		return entities.UploadSession{}, err
	}
	var decoded []partRow
	if parts != "" {
		if err := json.Unmarshal([]byte(parts), &decoded); err != nil {
			return entities.UploadSession{}, fmt.Errorf("decode session parts: %w", err)
		}
	}
	for _, part := range decoded {
		session.Parts = append(session.Parts, entities.Part{PartNumber: part.PartNumber, ETag: part.ETag})
	}
	session.Kind = entities.ContentKind(kind)
	session.Status = entities.SessionStatus(status)
	session.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	session.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return session, nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
