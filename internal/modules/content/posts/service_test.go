package posts

import (
	"context"
	"errors"
	"testing"

	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	posts []models.PostRecord
	trees map[string]*models.RecordMap
}

func (s *stubSource) ListPosts(context.Context) []models.PostRecord { return s.posts }

func (s *stubSource) GetRecordMap(_ context.Context, pageID string) (*models.RecordMap, error) {
	tree, ok := s.trees[pageID]
	if !ok {
		return nil, errors.New("not found")
	}
	return tree, nil
}

// passthroughSyncer appends canned translation variants instead of calling
// a provider.
type passthroughSyncer struct {
	extra []models.PostRecord
	trees map[string]*models.RecordMap
}

func (p *passthroughSyncer) Sync(_ context.Context, records []models.PostRecord) []models.PostRecord {
	return append(records, p.extra...)
}

func (p *passthroughSyncer) LoadRecordMap(_ context.Context, translationID string) (*models.RecordMap, error) {
	return p.trees[translationID], nil
}

func visible(id, slug string, langs ...string) models.PostRecord {
	return models.PostRecord{
		ID:       id,
		Slug:     slug,
		Title:    "t-" + id,
		Status:   []string{"Public"},
		Type:     []string{"Post"},
		Language: langs,
	}
}

func newService(source *stubSource, syncer Syncer) *Service {
	return NewService(source, syncer, config.TranslationConfig{DefaultLanguage: "ko"}, zap.NewNop())
}

func TestListMergesGeneratedVariants(t *testing.T) {
	source := &stubSource{posts: []models.PostRecord{visible("p1", "hello", "ko")}}
	generated := visible("p1-en", "hello", "en")
	generated.IsAITranslation = true
	syncer := &passthroughSyncer{extra: []models.PostRecord{generated}}

	merged, err := newService(source, syncer).List(t.Context())
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "p1", merged[0].ID)
	require.Len(t, merged[0].Translations, 1)
	assert.Equal(t, "p1-en", merged[0].Translations[0].ID)
}

func TestListFiltersHiddenRecords(t *testing.T) {
	hidden := visible("p2", "draft", "ko")
	hidden.Status = []string{"Private"}
	source := &stubSource{posts: []models.PostRecord{visible("p1", "hello", "ko"), hidden}}

	merged, err := newService(source, &passthroughSyncer{}).List(t.Context())
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "hello", merged[0].Slug)
}

func TestGetBySlug(t *testing.T) {
	source := &stubSource{posts: []models.PostRecord{visible("p1", "hello", "ko")}}
	svc := newService(source, &passthroughSyncer{})

	post, err := svc.GetBySlug(t.Context(), "hello")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "p1", post.ID)

	missing, err := svc.GetBySlug(t.Context(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordMapServesGeneratedVariantFromStore(t *testing.T) {
	tree := &models.RecordMap{Block: map[string]models.BlockEnvelope{
		"b1": {Value: &models.Block{ID: "b1", Type: models.BlockParagraph}},
	}}
	source := &stubSource{
		posts: []models.PostRecord{visible("p1", "hello", "ko")},
		trees: map[string]*models.RecordMap{"p1": tree},
	}
	generated := visible("p1-en", "hello", "en")
	generated.IsAITranslation = true
	syncer := &passthroughSyncer{
		extra: []models.PostRecord{generated},
		trees: map[string]*models.RecordMap{"p1-en": tree},
	}
	svc := newService(source, syncer)

	// authored variant comes from the content source
	got, err := svc.RecordMap(t.Context(), "hello", "ko")
	require.NoError(t, err)
	assert.Same(t, tree, got)

	// generated variant comes from the draft store
	got, err = svc.RecordMap(t.Context(), "hello", "en")
	require.NoError(t, err)
	assert.Same(t, tree, got)

	missing, err := svc.RecordMap(t.Context(), "unknown", "ko")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordMapErrorsWhenStoredTreeIsGone(t *testing.T) {
	source := &stubSource{posts: []models.PostRecord{visible("p1", "hello", "ko")}}
	generated := visible("p1-en", "hello", "en")
	generated.IsAITranslation = true
	syncer := &passthroughSyncer{extra: []models.PostRecord{generated}}
	svc := newService(source, syncer)

	_, err := svc.RecordMap(t.Context(), "hello", "en")
	assert.Error(t, err)
}
