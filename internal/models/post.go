package models

// PostDate mirrors Notion's date property shape.
type PostDate struct {
	StartDate string `json:"start_date,omitempty"`
}

// PostRecord is one language variant of a logical post, as fetched from the
// content source. JSON tags follow the original Notion property wire shape.
type PostRecord struct {
	ID              string       `json:"id"`
	Slug            string       `json:"slug,omitempty"`
	Title           string       `json:"title"`
	Summary         string       `json:"summary,omitempty"`
	Tags            []string     `json:"tags,omitempty"`
	Category        []string     `json:"category,omitempty"`
	Type            []string     `json:"type,omitempty"`
	Status          []string     `json:"status,omitempty"`
	Language        []string     `json:"language,omitempty"`
	Thumbnail       string       `json:"thumbnail,omitempty"`
	CreatedTime     string       `json:"createdTime,omitempty"`
	Date            *PostDate    `json:"date,omitempty"`
	FullWidth       bool         `json:"fullWidth,omitempty"`
	IsAITranslation bool         `json:"isAiTranslation,omitempty"`
	Translations    []PostRecord `json:"translations,omitempty"`
}

// WithoutTranslations returns a copy stripped of nested translations, so
// sibling variants never nest recursively when folded into a group.
func (p PostRecord) WithoutTranslations() PostRecord {
	p.Translations = nil
	return p
}
