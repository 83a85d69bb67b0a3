package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/circuitboard-backend/internal/platform/envutil"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.Get("POSTGRES_HOST", "localhost", log)
	port := envutil.Get("POSTGRES_PORT", "5432", log)
	user := envutil.Get("POSTGRES_USER", "postgres", log)
	password := envutil.Get("POSTGRES_PASSWORD", "", log)
	name := envutil.Get("POSTGRES_NAME", "circuitboard", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&types.User{},
		&types.Circuit{},
		&types.ContentItem{},
	); err != nil {
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	stmts := []string{
		`ALTER TABLE "circuit"
		 ADD CONSTRAINT "fk_circuit_owner_user_id"
		 FOREIGN KEY ("owner_user_id") REFERENCES "user"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "content_item"
		 ADD CONSTRAINT "fk_content_item_circuit_id"
		 FOREIGN KEY ("circuit_id") REFERENCES "circuit"("id")
		 ON DELETE CASCADE`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil {
			// Re-running migrations against an existing database hits
			// duplicate-constraint errors; those are fine to skip.
			s.log.Debug("Constraint statement skipped", "error", err)
		}
	}
	return nil
}
