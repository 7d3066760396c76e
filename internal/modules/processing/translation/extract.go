// Package translation generates English drafts for Korean posts: it pulls
// translatable text out of a record map, runs it through an AI provider in
// batches and splices the results back into a structural clone of the tree.
package translation

import (
	"sort"
	"strings"

	"github.com/morethan-log/core/internal/models"
)

// textProperties are the only block properties that ever carry prose.
// Everything else (language hints, URLs, checkbox state) passes through.
var textProperties = []string{"title", "caption"}

// CollectSegments walks a record map and returns every translatable text
// occurrence. Blocks whose text is code or math are skipped whole, and
// whitespace-only spans are dropped. Iteration is sorted by block id so the
// output is deterministic for a given tree.
func CollectSegments(tree *models.RecordMap) []models.TextSegment {
	if tree == nil || len(tree.Block) == 0 {
		return nil
	}

	ids := make([]string, 0, len(tree.Block))
	for id := range tree.Block {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var segments []models.TextSegment
	for _, id := range ids {
		block := tree.Block[id].Value
		if block == nil {
			continue
		}
		switch block.Type.Class() {
		case models.TextVerbatim, models.TextNone:
			continue
		}
		for _, property := range textProperties {
			spans, ok := block.Properties[property]
			if !ok {
				continue
			}
			for i, span := range spans {
				text := span.Text()
				if strings.TrimSpace(text) == "" {
					continue
				}
				segments = append(segments, models.TextSegment{
					BlockID:  id,
					Property: property,
					Index:    i,
					Text:     text,
				})
			}
		}
	}
	return segments
}

// UniqueTexts dedupes segment texts preserving first-seen order.
func UniqueTexts(segments []models.TextSegment, extra ...string) []string {
	seen := make(map[string]struct{}, len(segments)+len(extra))
	out := make([]string, 0, len(segments)+len(extra))
	add := func(text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	for _, segment := range segments {
		add(segment.Text)
	}
	for _, text := range extra {
		add(text)
	}
	return out
}
