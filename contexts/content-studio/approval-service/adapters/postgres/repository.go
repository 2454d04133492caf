package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	"contentflow/contexts/content-studio/approval-service/ports"

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

// Migrate creates the tables owned or read by this service.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&contentModel{}, &teamModel{}, &membershipModel{})
}

func (r *Repository) CreateContent(ctx context.Context, content entities.ContentObject) error {
	row := contentModelFromEntity(content)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrContentExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, contentID string) (entities.ContentObject, error) {
	var row contentModel
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ContentObject{}, domainerrors.ErrContentNotFound
		}
		return entities.ContentObject{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListContent(ctx context.Context, filter ports.ContentFilter) ([]entities.ContentObject, error) {
	tx := r.db.WithContext(ctx).Model(&contentModel{})
	if filter.TeamID != "" {
		tx = tx.Where("team_id = ?", filter.TeamID)
	}
	if filter.OwnerActorID != "" {
		tx = tx.Where("owner_actor_id = ? AND (team_id IS NULL OR team_id = '')", filter.OwnerActorID)
	}
	if filter.Status != "" {
		tx = tx.Where("status IN ?", storedStatuses(filter.Status))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows []contentModel
	if err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "content_id"}, Desc: false}).
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.ContentObject, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpdateStatus is a compare-and-set on status; the row count tells a stale
// read apart from a successful write.
func (r *Repository) UpdateStatus(ctx context.Context, update ports.StatusUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("content_id = ? AND status IN ?", update.ContentID, storedStatuses(update.Expected)).
		Updates(map[string]any{
			"status":                string(update.Next),
			"requested_by_actor_id": update.RequestedBy,
			"approved_by_actor_id":  update.ApprovedBy,
			"scheduled_for":         utcPtr(update.ScheduledFor),
			"updated_at":            update.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetContent(ctx, update.ContentID); err != nil {
			return err
		}
		r.logger.Warn("stale content status write",
			"event", "content_status_cas_miss",
			"module", "content-studio/approval-service",
			"layer", "adapter",
			"content_id", update.ContentID,
			"expected_status", string(update.Expected),
		)
		return domainerrors.ErrStaleStatus
	}
	return nil
}

func (r *Repository) SetDerivativeKey(ctx context.Context, contentID string, derivativeKey string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("content_id = ?", contentID).
		Updates(map[string]any{
			"derivative_key": derivativeKey,
			"updated_at":     updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContentNotFound
	}
	return nil
}

func (r *Repository) GetTeam(ctx context.Context, teamID string) (entities.Team, error) {
	var row teamModel
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Team{}, domainerrors.ErrTeamNotFound
		}
		return entities.Team{}, err
	}
	return entities.Team{TeamID: row.TeamID, OwnerActorID: row.OwnerActorID}, nil
}

func (r *Repository) GetMembership(ctx context.Context, teamID string, actorID string) (entities.Membership, bool, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND actor_id = ?", teamID, actorID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Membership{}, false, nil
		}
		return entities.Membership{}, false, err
	}
	return entities.Membership{
		TeamID:  row.TeamID,
		ActorID: row.ActorID,
		Role:    entities.Role(row.Role),
		Status:  entities.MembershipStatus(row.Status),
	}, true, nil
}

func (r *Repository) UpsertTeam(ctx context.Context, team entities.Team) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"owner_actor_id"}),
		}).
		Create(&teamModel{TeamID: team.TeamID, OwnerActorID: team.OwnerActorID}).
		Error
}

func (r *Repository) UpsertMembership(ctx context.Context, membership entities.Membership) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "actor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "status"}),
		}).
		Create(&membershipModel{
			TeamID:  membership.TeamID,
			ActorID: membership.ActorID,
			Role:    string(membership.Role),
			Status:  string(membership.Status),
		}).
		Error
}

// Ping satisfies readiness checks.
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

type contentModel struct {
	ContentID          string     `gorm:"column:content_id;primaryKey"`
	OwnerActorID       string     `gorm:"column:owner_actor_id;index"`
	TeamID             string     `gorm:"column:team_id;index"`
	Kind               string     `gorm:"column:kind"`
	ObjectKey          string     `gorm:"column:object_key"`
	DerivativeKey      string     `gorm:"column:derivative_key"`
	ContentType        string     `gorm:"column:content_type"`
	SizeBytes          int64      `gorm:"column:size_bytes"`
	Status             string     `gorm:"column:status;index"`
	RequestedByActorID string     `gorm:"column:requested_by_actor_id"`
	ApprovedByActorID  string     `gorm:"column:approved_by_actor_id"`
	ScheduledFor       *time.Time `gorm:"column:scheduled_for"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (contentModel) TableName() string {
	return "content_objects"
}

func contentModelFromEntity(content entities.ContentObject) contentModel {
	return contentModel{
		ContentID:          content.ContentID,
		OwnerActorID:       content.OwnerActorID,
		TeamID:             content.TeamID,
		Kind:               string(content.Kind),
		ObjectKey:          content.ObjectKey,
		DerivativeKey:      content.DerivativeKey,
		ContentType:        content.ContentType,
		SizeBytes:          content.SizeBytes,
		Status:             string(content.Status),
		RequestedByActorID: content.RequestedBy,
		ApprovedByActorID:  content.ApprovedBy,
		ScheduledFor:       utcPtr(content.ScheduledFor),
		CreatedAt:          content.CreatedAt.UTC(),
		UpdatedAt:          content.UpdatedAt.UTC(),
	}
}

func (m contentModel) toEntity() entities.ContentObject {
	status, ok := entities.ParseStatus(m.Status)
	if !ok {
		status = entities.ContentStatus(m.Status)
	}
	return entities.ContentObject{
		ContentID:     m.ContentID,
		OwnerActorID:  m.OwnerActorID,
		TeamID:        m.TeamID,
		Kind:          entities.ContentKind(m.Kind),
		ObjectKey:     m.ObjectKey,
		DerivativeKey: m.DerivativeKey,
		ContentType:   m.ContentType,
		SizeBytes:     m.SizeBytes,
		Status:        status,
		RequestedBy:   m.RequestedByActorID,
		ApprovedBy:    m.ApprovedByActorID,
		ScheduledFor:  utcPtr(m.ScheduledFor),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type teamModel struct {
	TeamID       string `gorm:"column:team_id;primaryKey"`
	OwnerActorID string `gorm:"column:owner_actor_id"`
}

func (teamModel) TableName() string {
	return "teams"
}

type membershipModel struct {
	TeamID  string `gorm:"column:team_id;primaryKey"`
	ActorID string `gorm:"column:actor_id;primaryKey"`
	Role    string `gorm:"column:role"`
	Status  string `gorm:"column:status"`
}

func (membershipModel) TableName() string {
	return "team_memberships"
}

// storedStatuses expands pending to include rows still carrying the legacy alias.
func storedStatuses(status entities.ContentStatus) []string {
	if status == entities.ContentStatusPending {
		return []string{string(status), "ready"}
	}
	return []string{string(status)}
}

func utcPtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
