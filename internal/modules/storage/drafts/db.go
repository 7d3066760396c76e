package drafts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/morethan-log/core/internal/models"
	"github.com/morethan-log/core/internal/pkg/language"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore mirrors translation records into MySQL so multiple instances
// can share one pool of generated drafts.
type DBStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDBStore(db *gorm.DB, logger *zap.Logger) *DBStore {
	return &DBStore{db: db, logger: logger}
}

func (s *DBStore) List(ctx context.Context) ([]models.TranslationRecord, error) {
	var rows []models.TranslationModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list stored translations: %w", err)
	}

	var records []models.TranslationRecord
	for _, row := range rows {
		var record models.TranslationRecord
		if err := json.Unmarshal([]byte(row.Payload), &record); err != nil {
			s.logger.Warn("skipping unreadable translation row",
				zap.String("slug", row.Slug), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *DBStore) Write(ctx context.Context, record models.TranslationRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode translation for %s: %w", record.Slug, err)
	}
	row := models.TranslationModel{
		Slug:         record.Slug,
		SourcePostID: record.SourcePostID,
		Language:     language.Target,
		Model:        record.Model,
		GeneratedAt:  record.GeneratedAt,
		Payload:      string(payload),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "model", "generated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("store translation for %s: %w", record.Slug, err)
	}
	return nil
}

func (s *DBStore) ExistsForSlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.TranslationModel{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
