// Package postgres keeps a durable history of answers given to identified users.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/davidbz/lodestar/internal/domain"
)

const sqliteScheme = "sqlite:"

// Config holds database settings. An empty DSN disables the store.
// A DSN of the form "sqlite:<path>" opens a local SQLite file instead of PostgreSQL.
type Config struct {
	DSN             string        `env:"POSTGRES_DSN"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS"    envDefault:"10"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS"    envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// Enabled reports whether a DSN was configured.
func (c *Config) Enabled() bool {
	return c.DSN != ""
}

// Store implements domain.AnswerStore on GORM.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(cfg *Config) (*Store, error) {
	dialector := postgres.Open(cfg.DSN)
	if path, ok := strings.CutPrefix(cfg.DSN, sqliteScheme); ok {
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return NewFromDB(db)
}

// NewFromDB creates a store from an existing GORM DB and migrates the schema.
func NewFromDB(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if err := db.AutoMigrate(&Question{}, &Answer{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveAnswer implements domain.AnswerStore. The question and answer rows are written together.
func (s *Store) SaveAnswer(ctx context.Context, record *domain.AnswerRecord) error {
	if record == nil || record.UserID == "" {
		return fmt.Errorf("%w: answer record requires a user id", domain.ErrInvalidInput)
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	question := Question{
		ID:        uuid.NewString(),
		UserID:    record.UserID,
		Text:      record.Question,
		Language:  record.Language,
		CreatedAt: createdAt,
	}
	answer := Answer{
		ID:         uuid.NewString(),
		QuestionID: question.ID,
		Text:       record.Answer,
		Source:     string(record.Source),
		Confidence: record.Confidence,
		Model:      record.Model,
		Keywords:   record.Keywords,
		CreatedAt:  createdAt,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		return tx.Create(&answer).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

// History returns the most recent questions of a user with their answers, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]Question, error) {
	if limit <= 0 {
		limit = 20
	}

	var questions []Question
	err := s.db.WithContext(ctx).
		Preload("Answers").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return questions, nil
}

// Ping implements domain.AnswerStore.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
