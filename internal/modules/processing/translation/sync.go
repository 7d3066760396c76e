package translation

import (
	"context"
	"sync"

	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/models"
	"github.com/morethan-log/core/internal/modules/content/notion"
	"github.com/morethan-log/core/internal/modules/content/posts"
	"github.com/morethan-log/core/internal/modules/storage/drafts"
	"github.com/morethan-log/core/internal/pkg/language"
	"go.uber.org/zap"
)

// Publisher mirrors a generated draft to an external review surface.
// Publishing is best-effort; failures never block the pipeline.
type Publisher interface {
	Publish(ctx context.Context, record models.TranslationRecord) error
}

// Service keeps the translation pool in sync with the post list. It decides
// which posts still need an English draft, generates them sequentially and
// folds everything stored back into the feed.
type Service struct {
	cfg       config.TranslationConfig
	source    notion.Source
	store     drafts.Store
	creator   Creator
	publisher Publisher
	logger    *zap.Logger

	// serializes generation; readers that lose the race skip generation
	// and serve what is already stored.
	generating sync.Mutex
}

func NewService(cfg config.TranslationConfig, source notion.Source, store drafts.Store, creator Creator, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		cfg:       cfg,
		source:    source,
		store:     store,
		creator:   creator,
		publisher: publisher,
		logger:    logger,
	}
}

// Run fetches the post list and syncs translations against it. Used by the
// scheduler and the one-shot CLI.
func (s *Service) Run(ctx context.Context) error {
	records := s.source.ListPosts(ctx)
	s.Sync(ctx, records)
	return nil
}

// Sync returns the record list augmented with every stored translation whose
// slug still lacks a hand-written variant in the target language. Posts with
// no stored draft are translated first when a provider is configured; a
// failing post is logged and skipped so the rest of the pool still syncs.
func (s *Service) Sync(ctx context.Context, records []models.PostRecord) []models.PostRecord {
	grouped, order := posts.GroupBySlug(records)

	if s.generating.TryLock() {
		s.generateMissing(ctx, grouped, order)
		s.generating.Unlock()
	}

	stored, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("listing stored translations failed", zap.Error(err))
		return records
	}

	out := make([]models.PostRecord, 0, len(records)+len(stored))
	out = append(out, records...)
	for _, record := range stored {
		// a stored draft whose slug is missing from the input (partial
		// source fetch) is still served rather than dropped
		if group, ok := grouped[record.Slug]; ok && s.hasTargetVariant(group) {
			continue
		}
		out = append(out, record.Translation)
	}
	return out
}

func (s *Service) generateMissing(ctx context.Context, grouped map[string][]models.PostRecord, order []string) {
	var pending []models.PostRecord
	for _, slug := range order {
		group := grouped[slug]
		if s.hasTargetVariant(group) {
			continue
		}
		exists, err := s.store.ExistsForSlug(ctx, slug)
		if err != nil {
			s.logger.Error("checking stored translation failed",
				zap.String("slug", slug), zap.Error(err))
			continue
		}
		if exists {
			continue
		}
		source := s.selectSource(group)
		if source == nil {
			continue
		}
		pending = append(pending, *source)
	}
	if len(pending) == 0 {
		return
	}

	if s.cfg.Disabled || s.creator == nil {
		slugs := make([]string, len(pending))
		for i, post := range pending {
			slugs[i] = post.Slug
		}
		s.logger.Warn("translations pending but generation is unavailable",
			zap.Strings("slugs", slugs))
		return
	}

	for _, post := range pending {
		if err := s.translatePost(ctx, post); err != nil {
			s.logger.Error("translating post failed",
				zap.String("slug", post.Slug), zap.Error(err))
		}
	}
}

func (s *Service) translatePost(ctx context.Context, post models.PostRecord) error {
	tree, err := s.source.GetRecordMap(ctx, post.ID)
	if err != nil {
		return err
	}
	record, err := s.creator.CreateTranslation(ctx, post, tree)
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, *record); err != nil {
		return err
	}
	s.logger.Info("generated translation",
		zap.String("slug", record.Slug),
		zap.String("model", record.Model),
		zap.Int("fallbackSegments", len(record.Fallbacks)))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, *record); err != nil {
			s.logger.Warn("publishing draft failed",
				zap.String("slug", record.Slug), zap.Error(err))
		}
	}
	return nil
}

// selectSource picks the variant to translate from: the default-language
// variant, else an untagged one when configuration allows it.
func (s *Service) selectSource(group []models.PostRecord) *models.PostRecord {
	def := language.Normalize(s.cfg.DefaultLanguage)
	if def == "" {
		def = language.Default
	}
	for i := range group {
		if language.FromTags(group[i].Language) == def {
			return &group[i]
		}
	}
	if s.cfg.UntaggedAsSource() {
		for i := range group {
			if len(group[i].Language) == 0 {
				return &group[i]
			}
		}
	}
	return nil
}

func (s *Service) hasTargetVariant(group []models.PostRecord) bool {
	target := language.Normalize(s.cfg.TargetLanguage)
	if target == "" {
		target = language.Target
	}
	for _, record := range group {
		if language.FromTags(record.Language) == target {
			return true
		}
	}
	return false
}

// ListRecords exposes the stored pool for the admin surface.
func (s *Service) ListRecords(ctx context.Context) ([]models.TranslationRecord, error) {
	return s.store.List(ctx)
}

// LoadRecordMap resolves a generated variant's block tree by variant id.
// A nil tree with nil error means the id is unknown.
func (s *Service) LoadRecordMap(ctx context.Context, translationID string) (*models.RecordMap, error) {
	stored, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range stored {
		if record.Translation.ID == translationID {
			return record.RecordMap, nil
		}
	}
	return nil, nil
}
