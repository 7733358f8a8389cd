package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hiddengem/nova-travel/internal/logger"
)

// Service owns the database handle and schema migration.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(dsn string, log *logger.Logger) (*Service, error) {
	return Open(postgres.Open(dsn), log)
}

// Open builds a Service from any gorm dialector; tests use sqlite here.
func Open(dialector gorm.Dialector, log *logger.Logger) (*Service, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Service{db: db, log: log}, nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}

func (s *Service) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&User{},
		&SavedLocation{},
		&TripPlan{},
		&LocalInsight{},
	)
}
