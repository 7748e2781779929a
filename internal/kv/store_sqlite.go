package kv

import (
	"context"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type record struct {
	Key       string `gorm:"primaryKey;type:text"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (record) TableName() string { return "kv_records" }

// SQLiteStore keeps every document in one local sqlite file.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" and
// "file::memory:?cache=shared" work for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

func (s *SQLiteStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	var rec record
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Where("key = ?", key).Take(&rec).Error
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Value, true, nil
}

func (s *SQLiteStore) Write(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	rec := record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rec).Error

		if err != nil && isSQLiteFull(err) {
			return ErrQuotaExceeded
		}
		return err
	})
}

func isSQLiteFull(err error) bool {
	var sqErr sqlite3.Error
	return errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrFull
}
