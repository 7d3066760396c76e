package posts

import (
	"testing"

	"github.com/morethan-log/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, slug string, langs ...string) models.PostRecord {
	return models.PostRecord{ID: id, Slug: slug, Title: "title-" + id, Language: langs}
}

func TestMergeFoldsVariantsBySlug(t *testing.T) {
	records := []models.PostRecord{
		record("a-ko", "hello", "Korean"),
		record("b-en", "hello", "en"),
		record("c", "other"),
	}

	merged, err := Merge(records, "ko")
	require.NoError(t, err)
	require.Len(t, merged, 2)

	assert.Equal(t, "a-ko", merged[0].ID)
	require.Len(t, merged[0].Translations, 1)
	assert.Equal(t, "b-en", merged[0].Translations[0].ID)
	assert.Empty(t, merged[0].Translations[0].Translations)

	assert.Equal(t, "c", merged[1].ID)
	assert.Empty(t, merged[1].Translations)
}

func TestMergePrimaryFallsBackToFirstRecord(t *testing.T) {
	records := []models.PostRecord{
		record("a-en", "hello", "en"),
		record("b-ja", "hello", "ja"),
	}
	merged, err := Merge(records, "ko")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "a-en", merged[0].ID)
	require.Len(t, merged[0].Translations, 1)
	assert.Equal(t, "b-ja", merged[0].Translations[0].ID)
}

func TestMergeDropsSluglessRecords(t *testing.T) {
	records := []models.PostRecord{
		record("a", ""),
		record("b", "kept", "ko"),
	}
	merged, err := Merge(records, "ko")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "b", merged[0].ID)
}

func TestMergeKeepsFirstSeenOrder(t *testing.T) {
	records := []models.PostRecord{
		record("1", "charlie", "ko"),
		record("2", "alpha", "ko"),
		record("3", "charlie", "en"),
		record("4", "bravo", "ko"),
	}
	merged, err := Merge(records, "ko")
	require.NoError(t, err)
	slugs := make([]string, len(merged))
	for i, post := range merged {
		slugs[i] = post.Slug
	}
	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, slugs)
}

func TestMergeExcludesTranslationsByID(t *testing.T) {
	// two variants sharing a language tag must not shadow each other
	records := []models.PostRecord{
		record("a", "dup", "ko"),
		record("b", "dup", "ko"),
	}
	merged, err := Merge(records, "ko")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "a", merged[0].ID)
	require.Len(t, merged[0].Translations, 1)
	assert.Equal(t, "b", merged[0].Translations[0].ID)
}

func TestGroupBySlug(t *testing.T) {
	records := []models.PostRecord{
		record("1", "x", "ko"),
		record("2", "y"),
		record("3", "x", "en"),
		record("4", ""),
	}
	grouped, order := GroupBySlug(records)
	assert.Equal(t, []string{"x", "y"}, order)
	assert.Len(t, grouped["x"], 2)
	assert.Len(t, grouped["y"], 1)
}

func TestSelectVariant(t *testing.T) {
	primary := record("ko-id", "post", "ko")
	primary.Translations = []models.PostRecord{record("en-id", "post", "en")}

	assert.Equal(t, "en-id", SelectVariant(primary, "en", "ko").ID)
	assert.Equal(t, "ko-id", SelectVariant(primary, "ko", "ko").ID)
	// unknown language falls back to the default-language variant
	assert.Equal(t, "ko-id", SelectVariant(primary, "ja", "ko").ID)
	// empty request resolves to the fallback
	assert.Equal(t, "ko-id", SelectVariant(primary, "", "ko").ID)
}

func TestFilter(t *testing.T) {
	visible := models.PostRecord{ID: "1", Slug: "a", Status: []string{"Public"}, Type: []string{"Post"}}
	detail := models.PostRecord{ID: "2", Slug: "b", Status: []string{"PublicOnDetail"}, Type: []string{"Paper"}}
	private := models.PostRecord{ID: "3", Slug: "c", Status: []string{"Private"}, Type: []string{"Post"}}
	untyped := models.PostRecord{ID: "4", Slug: "d"}

	out := Filter([]models.PostRecord{visible, detail, private, untyped}, DefaultFilter)
	ids := make([]string, len(out))
	for i, record := range out {
		ids[i] = record.ID
	}
	assert.Equal(t, []string{"1", "2", "4"}, ids)
}
