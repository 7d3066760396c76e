package translation

import (
	"testing"

	"github.com/morethan-log/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySegmentsPatchesClone(t *testing.T) {
	tree := buildTree()
	segments := CollectSegments(tree)
	translated := map[string]string{
		"첫 문단":  "First paragraph",
		"둘째 조각": "Second piece",
		"그림 설명": "Figure caption",
	}

	patched, fallbacks := ApplySegments(tree, segments, translated)
	assert.Empty(t, fallbacks)

	title := patched.Block["a-paragraph"].Value.Properties["title"]
	assert.Equal(t, "First paragraph", title[0].Text())
	assert.Equal(t, "  ", title[1].Text())
	assert.Equal(t, "Second piece", title[2].Text())
	assert.Equal(t, "Figure caption", patched.Block["c-image"].Value.Properties["caption"][0].Text())

	// verbatim block untouched, source tree untouched
	assert.Equal(t, `fmt.Println("안녕")`, patched.Block["b-code"].Value.Properties["title"][0].Text())
	assert.Equal(t, "첫 문단", tree.Block["a-paragraph"].Value.Properties["title"][0].Text())
}

func TestApplySegmentsRecordsFallbacks(t *testing.T) {
	tree := buildTree()
	segments := CollectSegments(tree)

	// only one translation available
	patched, fallbacks := ApplySegments(tree, segments, map[string]string{
		"첫 문단": "First paragraph",
	})
	require.Len(t, fallbacks, 2)
	assert.Equal(t, "First paragraph", patched.Block["a-paragraph"].Value.Properties["title"][0].Text())
	// untranslated segments keep their source text
	assert.Equal(t, "둘째 조각", patched.Block["a-paragraph"].Value.Properties["title"][2].Text())
	assert.Equal(t, "그림 설명", patched.Block["c-image"].Value.Properties["caption"][0].Text())
}

func TestApplySegmentsSkipsDanglingAddresses(t *testing.T) {
	tree := buildTree()
	segments := []models.TextSegment{
		{BlockID: "missing", Property: "title", Index: 0, Text: "유령"},
		{BlockID: "a-paragraph", Property: "title", Index: 99, Text: "범위 밖"},
		{BlockID: "d-empty", Property: "title", Index: 0, Text: "빈 값"},
	}
	_, fallbacks := ApplySegments(tree, segments, map[string]string{
		"유령": "ghost", "범위 밖": "oob", "빈 값": "nil",
	})
	assert.Len(t, fallbacks, 3)
}
