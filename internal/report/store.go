package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/envutil"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
)

// Store persists sync reports to Postgres. History is optional: a syncer
// run with no POSTGRES_HOST configured skips the store entirely and the
// report is not persisted, since the report itself is derivable from
// logs and isn't required for correctness of the sync.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewFromEnv opens the report history store. Returns (nil, nil) when
// POSTGRES_HOST is unset, the signal the CLI uses to treat history as
// disabled rather than a startup failure.
func NewFromEnv(baseLog *logger.Logger) (*Store, error) {
	host := envutil.String("POSTGRES_HOST", "")
	if host == "" {
		return nil, nil
	}

	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "umls_graph_syncer")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, name,
	)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})

	if err != nil {
		return nil, fmt.Errorf("report: connect postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("report: enable uuid-ossp: %w", err)
	}

	if err := db.AutoMigrate(&Report{}, &PhaseResult{}); err != nil {
		return nil, fmt.Errorf("report: automigrate: %w", err)
	}

	return &Store{db: db, log: baseLog.With("component", "ReportStore")}, nil
}

// Save writes a completed report, including its phase results, in one
// transaction.
func (s *Store) Save(ctx context.Context, r *Report) error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("report: save: %w", err)
	}
	return nil
}

// Recent returns the most recent reports, newest first, for operators
// checking sync history before kicking off the next quarterly release.
func (s *Store) Recent(ctx context.Context, limit int) ([]Report, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var reports []Report
	q := s.db.WithContext(ctx).Preload("Phases").Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("report: recent: %w", err)
	}
	return reports, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
