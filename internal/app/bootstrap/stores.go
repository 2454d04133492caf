package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	approvalpostgres "contentflow/contexts/content-studio/approval-service/adapters/postgres"
	approvalsqlite "contentflow/contexts/content-studio/approval-service/adapters/sqlite"
	"contentflow/contexts/content-studio/approval-service/domain/entities"
	approvalports "contentflow/contexts/content-studio/approval-service/ports"
	uploadpostgres "contentflow/contexts/content-studio/upload-service/adapters/postgres"
	uploadsqlite "contentflow/contexts/content-studio/upload-service/adapters/sqlite"
	uploadports "contentflow/contexts/content-studio/upload-service/ports"
	"contentflow/internal/platform/config"
	"contentflow/internal/platform/db"
	"contentflow/internal/platform/health"
	"contentflow/internal/platform/objectstore"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// TeamDirectory loads teams and memberships into a persistent store.
type TeamDirectory interface {
	UpsertTeam(ctx context.Context, team entities.Team) error
	UpsertMembership(ctx context.Context, membership entities.Membership) error
}

// stores leaves the repository fields nil for the memory driver so the
// modules fall back to their in-memory stores.
type stores struct {
	sessions     uploadports.SessionRepository
	uploadClock  uploadports.Clock
	uploadIDGen  uploadports.IDGenerator
	contents     approvalports.ContentRepository
	directory    approvalports.MembershipDirectory
	contentClock approvalports.Clock
	contentIDGen approvalports.IDGenerator
	teams        TeamDirectory

	checks  []health.NamedCheck
	closers []func() error
}

func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pg, err := db.Connect(ctx, cfg.PostgresDSN, db.PostgresOptions{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return stores{}, err
		}
		sessions := uploadpostgres.NewRepository(pg.DB, logger)
		contents := approvalpostgres.NewRepository(pg.DB, logger)
		if cfg.AutoMigrate {
			if err := sessions.Migrate(ctx); err != nil {
				_ = pg.Close()
				return stores{}, fmt.Errorf("migrate upload sessions: %w", err)
			}
			if err := contents.Migrate(ctx); err != nil {
				_ = pg.Close()
				return stores{}, fmt.Errorf("migrate content objects: %w", err)
			}
		}
		return stores{
			sessions:     sessions,
			uploadClock:  uploadpostgres.SystemClock{},
			uploadIDGen:  uploadpostgres.UUIDGenerator{},
			contents:     contents,
			directory:    contents,
			contentClock: approvalpostgres.SystemClock{},
			contentIDGen: approvalpostgres.UUIDGenerator{},
			teams:        contents,
			checks:       []health.NamedCheck{{Name: "postgres", Check: pg}},
			closers:      []func() error{pg.Close},
		}, nil

	case config.StoreSQLite:
		lite, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		sessions := uploadsqlite.NewRepository(lite.DB, logger)
		contents := approvalsqlite.NewRepository(lite.DB, logger)
		// SQLite schemas are always applied; the file may be brand new.
		if err := sessions.Migrate(ctx); err != nil {
			_ = lite.Close()
			return stores{}, fmt.Errorf("migrate upload sessions: %w", err)
		}
		if err := contents.Migrate(ctx); err != nil {
			_ = lite.Close()
			return stores{}, fmt.Errorf("migrate content objects: %w", err)
		}
		return stores{
			sessions:     sessions,
			uploadClock:  uploadpostgres.SystemClock{},
			uploadIDGen:  uploadpostgres.UUIDGenerator{},
			contents:     contents,
			directory:    contents,
			contentClock: approvalpostgres.SystemClock{},
			contentIDGen: approvalpostgres.UUIDGenerator{},
			teams:        contents,
			checks:       []health.NamedCheck{{Name: "sqlite", Check: lite}},
			closers:      []func() error{lite.Close},
		}, nil

	default:
		logger.Warn("using in-memory stores; state is lost on restart",
			"event", "bootstrap_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return stores{}, nil
	}
}

type objectStorage interface {
	objectstore.Store
	health.ReadinessCheck
}

func openObjects(ctx context.Context, cfg config.Config, logger *slog.Logger) (objectStorage, error) {
	if cfg.StorageDriver != config.StorageS3 {
		return objectstore.NewMemoryStore(), nil
	}
	client, err := objectstore.NewS3Client(ctx, objectstore.S3Options{
		Region:       cfg.S3Region,
		Bucket:       cfg.S3Bucket,
		Endpoint:     cfg.S3Endpoint,
		UsePathStyle: cfg.S3UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	return objectstore.NewS3Store(client, cfg.S3Bucket, logger), nil
}

func newSQSClient(ctx context.Context, cfg config.Config) (*sqs.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return sqs.NewFromConfig(awsCfg), nil
}

func closeAll(closers []func() error) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
