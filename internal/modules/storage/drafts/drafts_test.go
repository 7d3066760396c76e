package drafts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/morethan-log/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleRecord(slug, id string) models.TranslationRecord {
	return models.TranslationRecord{
		Slug:         slug,
		SourcePostID: id,
		GeneratedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Model:        "test-model",
		Translation: models.PostRecord{
			ID:              id + "-en",
			Slug:            slug,
			Title:           "Title " + slug,
			Language:        []string{"en"},
			IsAITranslation: true,
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zap.NewNop())

	require.NoError(t, store.Write(t.Context(), sampleRecord("hello-world", "p1")))

	ok, err := store.ExistsForSlug(t.Context(), "hello-world")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ExistsForSlug(t.Context(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	records, err := store.List(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p1-en", records[0].Translation.ID)

	// one pretty-printed json file per slug
	_, err = os.Stat(filepath.Join(dir, "hello-world-en.json"))
	require.NoError(t, err)
}

func TestFileStoreMissingDirIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	records, err := store.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zap.NewNop())
	require.NoError(t, store.Write(t.Context(), sampleRecord("good", "p1")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken-en.json"), []byte("{not json"), 0o644))

	records, err := store.List(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Slug)
}

func TestFileStoreSanitizesSlug(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zap.NewNop())
	require.NoError(t, store.Write(t.Context(), sampleRecord("../escape/attempt", "p1")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
}

type stubStore struct {
	records []models.TranslationRecord
	written []models.TranslationRecord
	err     error
}

func (s *stubStore) List(context.Context) ([]models.TranslationRecord, error) {
	return s.records, s.err
}

func (s *stubStore) Write(_ context.Context, record models.TranslationRecord) error {
	s.written = append(s.written, record)
	if s.err == nil {
		s.records = append(s.records, record)
	}
	return s.err
}

func (s *stubStore) ExistsForSlug(_ context.Context, slug string) (bool, error) {
	for _, record := range s.records {
		if record.Slug == slug {
			return true, s.err
		}
	}
	return false, s.err
}

func TestMultiStoreMergesFirstSeenWins(t *testing.T) {
	newer := sampleRecord("shared", "p1")
	newer.Model = "primary"
	older := sampleRecord("shared", "p1")
	older.Model = "legacy"

	primary := &stubStore{records: []models.TranslationRecord{newer, sampleRecord("only-primary", "p2")}}
	legacy := &stubStore{records: []models.TranslationRecord{older, sampleRecord("only-legacy", "p3")}}

	multi := NewMultiStore(primary, legacy)
	records, err := multi.List(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "primary", records[0].Model, "earlier store wins on duplicate keys")
}

func TestMultiStoreWritesEverywhere(t *testing.T) {
	a, b := &stubStore{}, &stubStore{}
	multi := NewMultiStore(a, b)
	require.NoError(t, multi.Write(t.Context(), sampleRecord("x", "p1")))
	assert.Len(t, a.written, 1)
	assert.Len(t, b.written, 1)
}

func TestMultiStoreExistsChecksAllBackends(t *testing.T) {
	a := &stubStore{}
	b := &stubStore{records: []models.TranslationRecord{sampleRecord("deep", "p1")}}
	multi := NewMultiStore(a, b)

	ok, err := multi.ExistsForSlug(t.Context(), "deep")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCachedStoreWarmsOnceAndExtendsOnWrite(t *testing.T) {
	inner := &stubStore{records: []models.TranslationRecord{sampleRecord("warm", "p1")}}
	cached := NewCachedStore(inner)

	first, err := cached.List(t.Context())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// backend changes are invisible until Reset; the cache is append-only
	inner.records = nil
	again, err := cached.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, again, 1)

	require.NoError(t, cached.Write(t.Context(), sampleRecord("new", "p2")))
	extended, err := cached.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, extended, 2)

	ok, err := cached.ExistsForSlug(t.Context(), "new")
	require.NoError(t, err)
	assert.True(t, ok)

	cached.Reset()
	reloaded, err := cached.List(t.Context())
	require.NoError(t, err)
	require.Len(t, reloaded, 1, "reset drops the cache and re-reads the backend")
	assert.Equal(t, "new", reloaded[0].Slug)
}

func TestCachedStorePropagatesErrors(t *testing.T) {
	inner := &stubStore{err: errors.New("disk gone")}
	cached := NewCachedStore(inner)
	_, err := cached.List(t.Context())
	assert.Error(t, err)
}
