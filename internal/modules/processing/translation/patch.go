package translation

import "github.com/morethan-log/core/internal/models"

// ApplySegments clones the tree and rewrites each segment's text with its
// translation. Segments whose translation is missing, or whose address no
// longer resolves in the tree, keep their source text and are reported as
// fallbacks. The input tree is never mutated.
func ApplySegments(tree *models.RecordMap, segments []models.TextSegment, translated map[string]string) (*models.RecordMap, []models.TextSegment) {
	clone := tree.Clone()
	var fallbacks []models.TextSegment

	for _, segment := range segments {
		env, ok := clone.Block[segment.BlockID]
		if !ok || env.Value == nil {
			fallbacks = append(fallbacks, segment)
			continue
		}
		spans := env.Value.Properties[segment.Property]
		if segment.Index < 0 || segment.Index >= len(spans) {
			fallbacks = append(fallbacks, segment)
			continue
		}
		replacement, ok := translated[segment.Text]
		if !ok || replacement == "" {
			fallbacks = append(fallbacks, segment)
			continue
		}
		spans[segment.Index].SetText(replacement)
	}
	return clone, fallbacks
}
