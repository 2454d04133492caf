package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&sessionModel{}, &lockModel{})
}

// CreateSessionWithLock writes the session and the per-actor lock in one
// transaction; the lock's primary key turns a second open upload into a conflict.
func (r *Repository) CreateSessionWithLock(ctx context.Context, session entities.UploadSession, lock entities.UploadLock) error {
	row, err := sessionModelFromEntity(session)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lockModel{
			OwnerActorID: lock.OwnerActorID,
			SessionID:    lock.SessionID,
			AcquiredAt:   lock.AcquiredAt.UTC(),
		}).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrUploadInProgress
		}
		return err
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.UploadSession, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.UploadSession{}, domainerrors.ErrSessionNotFound
		}
		return entities.UploadSession{}, err
	}
	return row.toEntity()
}

func (r *Repository) AttachStorageUpload(ctx context.Context, sessionID string, storageUploadID string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"storage_upload_id": storageUploadID,
			"updated_at":        updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) TransitionSession(ctx context.Context, transition ports.SessionTransition) error {
	updates := map[string]any{
		"status":     string(transition.To),
		"updated_at": transition.UpdatedAt.UTC(),
	}
	if transition.Parts != nil {
		encoded, err := json.Marshal(partRows(transition.Parts))
		if err != nil {
			return err
		}
		updates["parts"] = string(encoded)
	}
	result := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ? AND status = ?", transition.SessionID, string(transition.From)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetSession(ctx, transition.SessionID); err != nil {
			return err
		}
		r.logger.Warn("upload session transition lost race",
			"event", "upload_session_cas_miss",
			"module", "content-studio/upload-service",
			"layer", "adapter",
			"session_id", transition.SessionID,
			"from_status", string(transition.From),
			"to_status", string(transition.To),
		)
		return domainerrors.ErrSessionNotOpen
	}
	return nil
}

func (r *Repository) ReleaseLock(ctx context.Context, ownerActorID string, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("owner_actor_id = ? AND session_id = ?", ownerActorID, sessionID).
		Delete(&lockModel{}).
		Error
}

func (r *Repository) ListSessions(ctx context.Context, filter ports.SessionFilter) ([]entities.UploadSession, error) {
	tx := r.db.WithContext(ctx).Model(&sessionModel{})
	if filter.OwnerActorID != "" {
		tx = tx.Where("owner_actor_id = ?", filter.OwnerActorID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	var rows []sessionModel
	if err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows)
}

func (r *Repository) ListStaleSessions(ctx context.Context, olderThan time.Time, limit int) ([]entities.UploadSession, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []sessionModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []string{
			string(entities.SessionStatusOpen),
			string(entities.SessionStatusCompleting),
		}, olderThan.UTC()).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows)
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type sessionModel struct {
	SessionID       string    `gorm:"column:session_id;primaryKey"`
	StorageUploadID string    `gorm:"column:storage_upload_id"`
	ObjectKey       string    `gorm:"column:object_key;not null"`
	OwnerActorID    string    `gorm:"column:owner_actor_id;index;not null"`
	TeamID          string    `gorm:"column:team_id"`
	ContentID       string    `gorm:"column:content_id;not null"`
	Filename        string    `gorm:"column:filename"`
	ContentType     string    `gorm:"column:content_type"`
	Kind            string    `gorm:"column:kind"`
	Status          string    `gorm:"column:status;index;not null"`
	Parts           string    `gorm:"column:parts;type:jsonb;default:'[]'"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;index"`
}

func (sessionModel) TableName() string {
	return "upload_sessions"
}

type lockModel struct {
	OwnerActorID string    `gorm:"column:owner_actor_id;primaryKey"`
	SessionID    string    `gorm:"column:session_id;not null"`
	AcquiredAt   time.Time `gorm:"column:acquired_at"`
}

func (lockModel) TableName() string {
	return "upload_locks"
}

type partRow struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

func partRows(parts []entities.Part) []partRow {
	rows := make([]partRow, 0, len(parts))
	for _, part := range parts {
		rows = append(rows, partRow{PartNumber: part.PartNumber, ETag: part.ETag})
	}
	return rows
}

func sessionModelFromEntity(session entities.UploadSession) (sessionModel, error) {
	encoded, err := json.Marshal(partRows(session.Parts))
	if err != nil {
		return sessionModel{}, err
	}
	return sessionModel{
		SessionID:       session.SessionID,
		StorageUploadID: session.StorageUploadID,
		ObjectKey:       session.ObjectKey,
		OwnerActorID:    session.OwnerActorID,
		TeamID:          session.TeamID,
		ContentID:       session.ContentID,
		Filename:        session.Filename,
		ContentType:     session.ContentType,
		Kind:            string(session.Kind),
		Status:          string(session.Status),
		Parts:           string(encoded),
		CreatedAt:       session.CreatedAt.UTC(),
		UpdatedAt:       session.UpdatedAt.UTC(),
	}, nil
}

func (m sessionModel) toEntity() (entities.UploadSession, error) {
	var rows []partRow
	if m.Parts != "" {
		if err := json.Unmarshal([]byte(m.Parts), &rows); err != nil {
			return entities.UploadSession{}, err
		}
	}
	parts := make([]entities.Part, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, entities.Part{PartNumber: row.PartNumber, ETag: row.ETag})
	}
	return entities.UploadSession{
		SessionID:       m.SessionID,
		StorageUploadID: m.StorageUploadID,
		ObjectKey:       m.ObjectKey,
		OwnerActorID:    m.OwnerActorID,
		TeamID:          m.TeamID,
		ContentID:       m.ContentID,
		Filename:        m.Filename,
		ContentType:     m.ContentType,
		Kind:            entities.ContentKind(m.Kind),
		Status:          entities.SessionStatus(m.Status),
		Parts:           parts,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}, nil
}

func toEntities(rows []sessionModel) ([]entities.UploadSession, error) {
	items := make([]entities.UploadSession, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
