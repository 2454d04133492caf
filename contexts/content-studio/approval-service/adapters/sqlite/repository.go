// Package sqliteadapter persists approval state in a single-node SQLite database.
package sqliteadapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	"contentflow/contexts/content-studio/approval-service/ports"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS content_objects (
		content_id TEXT PRIMARY KEY,
		owner_actor_id TEXT NOT NULL,
		team_id TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		object_key TEXT NOT NULL,
		derivative_key TEXT NOT NULL DEFAULT '',
		content_type TEXT NOT NULL DEFAULT '',
		size_bytes INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		requested_by_actor_id TEXT NOT NULL DEFAULT '',
		approved_by_actor_id TEXT NOT NULL DEFAULT '',
		scheduled_for TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_objects_team ON content_objects(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_content_objects_owner ON content_objects(owner_actor_id)`,
	`CREATE TABLE IF NOT EXISTS teams (
		team_id TEXT PRIMARY KEY,
		owner_actor_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS team_memberships (
		team_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (team_id, actor_id)
	)`,
}

const contentColumns = `content_id, owner_actor_id, team_id, kind, object_key, derivative_key,
	content_type, size_bytes, status, requested_by_actor_id, approved_by_actor_id,
	scheduled_for, created_at, updated_at`

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
	for _, statement := range migrations {
		if _, err := r.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply approval migration: %w", err)
		}
	}
	return nil
}

// UpsertTeam and UpsertMembership load the read-only directory for single-node setups.
func (r *Repository) UpsertTeam(ctx context.Context, team entities.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (team_id, owner_actor_id) VALUES (?, ?)
		ON CONFLICT(team_id) DO UPDATE SET owner_actor_id = excluded.owner_actor_id`,
		team.TeamID, team.OwnerActorID,
	)
	return err
}

func (r *Repository) UpsertMembership(ctx context.Context, membership entities.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_memberships (team_id, actor_id, role, status) VALUES (?, ?, ?, ?)
		ON CONFLICT(team_id, actor_id) DO UPDATE SET role = excluded.role, status = excluded.status`,
		membership.TeamID, membership.ActorID, string(membership.Role), string(membership.Status),
	)
	return err
}

func (r *Repository) CreateContent(ctx context.Context, content entities.ContentObject) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO content_objects (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		content.ContentID,
		content.OwnerActorID,
		content.TeamID,
		string(content.Kind),
		content.ObjectKey,
		content.DerivativeKey,
		content.ContentType,
		content.SizeBytes,
		string(content.Status),
		content.RequestedBy,
		content.ApprovedBy,
		formatOptionalTime(content.ScheduledFor),
		formatTime(content.CreatedAt),
		formatTime(content.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domainerrors.ErrContentExists
		}
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, contentID string) (entities.ContentObject, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content_objects WHERE content_id = ?`,
		contentID,
	)
	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ContentObject{}, domainerrors.ErrContentNotFound
		}
		return entities.ContentObject{}, err
	}
	return content, nil
}

func (r *Repository) ListContent(ctx context.Context, filter ports.ContentFilter) ([]entities.ContentObject, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.TeamID != "" {
		clauses = append(clauses, "team_id = ?")
		args = append(args, filter.TeamID)
	}
	if filter.OwnerActorID != "" {
		clauses = append(clauses, "owner_actor_id = ? AND team_id = ''")
		args = append(args, filter.OwnerActorID)
	}
	if filter.Status != "" {
		statuses := storedStatuses(filter.Status)
		clauses = append(clauses, "status IN ("+placeholders(len(statuses))+")")
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query := `SELECT ` + contentColumns + ` FROM content_objects`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC, content_id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	items := make([]entities.ContentObject, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, content)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, update ports.StatusUpdate) error {
	expected := storedStatuses(update.Expected)
	args := []any{
		string(update.Next),
		update.RequestedBy,
		update.ApprovedBy,
		formatOptionalTime(update.ScheduledFor),
		formatTime(update.UpdatedAt),
		update.ContentID,
	}
	for _, status := range expected {
		args = append(args, status)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE content_objects
		SET status = ?, requested_by_actor_id = ?, approved_by_actor_id = ?, scheduled_for = ?, updated_at = ?
		WHERE content_id = ? AND status IN (`+placeholders(len(expected))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update content status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetContent(ctx, update.ContentID); err != nil {
			return err
		}
		return domainerrors.ErrStaleStatus
	}
	return nil
}

func (r *Repository) SetDerivativeKey(ctx context.Context, contentID string, derivativeKey string, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE content_objects SET derivative_key = ?, updated_at = ? WHERE content_id = ?`,
		derivativeKey, formatTime(updatedAt), contentID,
	)
	if err != nil {
		return fmt.Errorf("set derivative key: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainerrors.ErrContentNotFound
	}
	return nil
}

func (r *Repository) GetTeam(ctx context.Context, teamID string) (entities.Team, error) {
	var team entities.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT team_id, owner_actor_id FROM teams WHERE team_id = ?`, teamID,
	).Scan(&team.TeamID, &team.OwnerActorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Team{}, domainerrors.ErrTeamNotFound
		}
		return entities.Team{}, err
	}
	return team, nil
}

func (r *Repository) GetMembership(ctx context.Context, teamID string, actorID string) (entities.Membership, bool, error) {
	var (
		membership entities.Membership
		role       string
		status     string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT team_id, actor_id, role, status FROM team_memberships WHERE team_id = ? AND actor_id = ?`,
		teamID, actorID,
	).Scan(&membership.TeamID, &membership.ActorID, &role, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Membership{}, false, nil
		}
		return entities.Membership{}, false, err
	}
	membership.Role = entities.Role(role)
	membership.Status = entities.MembershipStatus(status)
	return membership, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (entities.ContentObject, error) {
	var (
		content      entities.ContentObject
		kind         string
		status       string
		scheduledFor sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(
		&content.ContentID,
		&content.OwnerActorID,
		&content.TeamID,
		&kind,
		&content.ObjectKey,
		&content.DerivativeKey,
		&content.ContentType,
		&content.SizeBytes,
		&status,
		&content.RequestedBy,
		&content.ApprovedBy,
		&scheduledFor,
		&createdAt,
		&updatedAt,
	); err != nil {
		return entities.ContentObject{}, err
	}
	content.Kind = entities.ContentKind(kind)
	if parsed, ok := entities.ParseStatus(status); ok {
		content.Status = parsed
	} else {
		content.Status = entities.ContentStatus(status)
	}
	if scheduledFor.Valid && scheduledFor.String != "" {
		if value, err := time.Parse(timeLayout, scheduledFor.String); err == nil {
			content.ScheduledFor = &value
		}
	}
	content.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	content.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return content, nil
}

func storedStatuses(status entities.ContentStatus) []string {
	if status == entities.ContentStatusPending {
		return []string{string(status), "ready"}
	}
	return []string{string(status)}
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func formatOptionalTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
