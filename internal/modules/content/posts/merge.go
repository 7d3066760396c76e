package posts

import (
	"fmt"

	"github.com/morethan-log/core/internal/models"
	"github.com/morethan-log/core/internal/pkg/language"
)

// Merge folds sibling language variants into logical posts. Records are
// bucketed by slug in first-seen order; records without a slug are dropped.
// Within a bucket the primary is the first record matching the default
// language, else the first record, and the rest become its translations
// (excluded by id, never by language).
func Merge(records []models.PostRecord, defaultLanguage string) ([]models.PostRecord, error) {
	grouped := make(map[string][]models.PostRecord)
	order := make([]string, 0, len(records))

	for _, record := range records {
		if record.Slug == "" {
			continue
		}
		if _, seen := grouped[record.Slug]; !seen {
			order = append(order, record.Slug)
		}
		grouped[record.Slug] = append(grouped[record.Slug], record.WithoutTranslations())
	}

	normalizedDefault := language.Normalize(defaultLanguage)
	if normalizedDefault == "" {
		normalizedDefault = defaultLanguage
	}

	merged := make([]models.PostRecord, 0, len(order))
	for _, slug := range order {
		group := grouped[slug]
		if len(group) == 0 {
			// unreachable given the drop-on-missing-slug rule above
			return nil, fmt.Errorf("post group %q is empty", slug)
		}

		primary := group[0]
		for _, candidate := range group {
			if language.FromTags(candidate.Language) == normalizedDefault {
				primary = candidate
				break
			}
		}

		var translations []models.PostRecord
		for _, candidate := range group {
			if candidate.ID == primary.ID {
				continue
			}
			translations = append(translations, candidate)
		}
		primary.Translations = translations
		merged = append(merged, primary)
	}
	return merged, nil
}

// GroupBySlug buckets records by slug, preserving first-seen slug order.
// Records without a slug are dropped.
func GroupBySlug(records []models.PostRecord) (map[string][]models.PostRecord, []string) {
	grouped := make(map[string][]models.PostRecord)
	order := make([]string, 0, len(records))
	for _, record := range records {
		if record.Slug == "" {
			continue
		}
		if _, seen := grouped[record.Slug]; !seen {
			order = append(order, record.Slug)
		}
		grouped[record.Slug] = append(grouped[record.Slug], record)
	}
	return grouped, order
}

// SelectVariant picks the language variant of a merged post to serve: the
// requested language if present, else the fallback language, else the
// primary itself.
func SelectVariant(post models.PostRecord, lang, fallback string) models.PostRecord {
	options := make([]models.PostRecord, 0, 1+len(post.Translations))
	options = append(options, post.WithoutTranslations())
	for _, translation := range post.Translations {
		options = append(options, translation.WithoutTranslations())
	}

	target := language.Normalize(lang)
	if target == "" {
		target = fallback
	}

	var fallbackMatch *models.PostRecord
	for i, option := range options {
		code := language.FromTags(option.Language)
		if code == target {
			return option
		}
		if fallbackMatch == nil {
			effective := code
			if effective == "" {
				effective = fallback
			}
			if effective == fallback {
				fallbackMatch = &options[i]
			}
		}
	}
	if fallbackMatch != nil {
		return *fallbackMatch
	}
	return options[0]
}
