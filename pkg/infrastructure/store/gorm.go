package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/go-railbook/pkg/application"
	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

// Record is one row of the shared records table. Every collection lives in
// the same table, told apart by Collection.
type Record struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:128"`
	Position   int    `gorm:"not null;index"`
	Payload    []byte `gorm:"not null"`
}

func (Record) TableName() string {
	return "records"
}

type gormStore[T any] struct {
	db         *gorm.DB
	collection string
	keyOf      func(T) string
	logger     application.AppLogger
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewGormStore stores the collection as rows of the records table. keyOf
// gives the primary key of a record inside its collection.
func NewGormStore[T any](db *gorm.DB, collection string, keyOf func(T) string, logger application.AppLogger) (domain.RecordStore[T], error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate records table: %w", err)
	}

	return &gormStore[T]{
		db:         db,
		collection: collection,
		keyOf:      keyOf,
		logger:     logger,
	}, nil
}

func (s *gormStore[T]) LoadAll(ctx context.Context) ([]T, error) {
	var rows []Record
	err := s.db.WithContext(ctx).
		Where("collection = ?", s.collection).
		Order("position").
		Find(&rows).Error
	if err != nil {
		application.LogError(ctx, s.logger, "failed to load records", err, map[string]interface{}{
			"collection": s.collection,
		})
		return nil, fmt.Errorf("load %s: %w", s.collection, err)
	}

	records := make([]T, 0, len(rows))
	for _, row := range rows {
		var record T
		if err := json.Unmarshal(row.Payload, &record); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", s.collection, row.ID, err)
		}
		records = append(records, record)
	}

	application.LogDebug(ctx, s.logger, "records loaded", map[string]interface{}{
		"collection": s.collection,
		"count":      len(records),
	})
	return records, nil
}

// SaveAll replaces the collection inside one transaction.
func (s *gormStore[T]) SaveAll(ctx context.Context, records []T) error {
	rows, err := s.toRows(records)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", s.collection).Delete(&Record{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save records", err, map[string]interface{}{
			"collection": s.collection,
		})
		return fmt.Errorf("save %s: %w", s.collection, err)
	}

	application.LogDebug(ctx, s.logger, "records saved", map[string]interface{}{
		"collection": s.collection,
		"count":      len(rows),
	})
	return nil
}

func (s *gormStore[T]) toRows(records []T) ([]Record, error) {
	rows := make([]Record, 0, len(records))
	for i, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode %s record %d: %w", s.collection, i, err)
		}
		rows = append(rows, Record{
			Collection: s.collection,
			ID:         s.keyOf(record),
			Position:   i,
			Payload:    payload,
		})
	}
	return rows, nil
}
