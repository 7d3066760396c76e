package posts

import (
	"context"
	"errors"

	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/models"
	"github.com/morethan-log/core/internal/modules/content/notion"
	"go.uber.org/zap"
)

// Syncer augments a post list with generated translations. The translation
// module provides the implementation; the posts service only needs this
// narrow view of it.
type Syncer interface {
	Sync(ctx context.Context, records []models.PostRecord) []models.PostRecord
	LoadRecordMap(ctx context.Context, translationID string) (*models.RecordMap, error)
}

// Service serves the merged bilingual feed.
type Service struct {
	source notion.Source
	syncer Syncer
	cfg    config.TranslationConfig
	logger *zap.Logger
}

func NewService(source notion.Source, syncer Syncer, cfg config.TranslationConfig, logger *zap.Logger) *Service {
	return &Service{source: source, syncer: syncer, cfg: cfg, logger: logger}
}

// List returns the public feed: fetched records, read-through translation
// sync, visibility filter, then the language merge.
func (s *Service) List(ctx context.Context) ([]models.PostRecord, error) {
	records := s.source.ListPosts(ctx)
	records = s.syncer.Sync(ctx, records)
	filtered := Filter(records, DefaultFilter)
	return Merge(filtered, s.cfg.DefaultLanguage)
}

// GetBySlug returns one logical post, or nil when the slug is unknown.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.PostRecord, error) {
	merged, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range merged {
		if merged[i].Slug == slug {
			return &merged[i], nil
		}
	}
	return nil, nil
}

// RecordMap resolves the block tree for a post in the requested language.
// Generated variants come out of the translation store; authored variants
// are fetched from the content source.
func (s *Service) RecordMap(ctx context.Context, slug, lang string) (*models.RecordMap, error) {
	post, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	variant := SelectVariant(*post, lang, s.cfg.DefaultLanguage)
	if variant.IsAITranslation {
		tree, err := s.syncer.LoadRecordMap(ctx, variant.ID)
		if err != nil {
			return nil, err
		}
		if tree == nil {
			return nil, errors.New("stored translation has no record map, regenerate translations")
		}
		return tree, nil
	}
	return s.source.GetRecordMap(ctx, variant.ID)
}
