package models

import "time"

// TextSegment is an addressable, translatable text occurrence inside a
// record map: enough information to reinject a translated string without
// disturbing surrounding structure.
type TextSegment struct {
	BlockID  string `json:"blockId"`
	Property string `json:"property"`
	Index    int    `json:"index"`
	Text     string `json:"text"`
}

// TranslationRecord is the persisted artifact of one generated translation.
// Fallbacks lists segments that kept their source text because the provider
// could not translate them.
type TranslationRecord struct {
	Slug         string        `json:"slug"`
	SourcePostID string        `json:"sourcePostId"`
	GeneratedAt  time.Time     `json:"generatedAt"`
	Model        string        `json:"model"`
	Translation  PostRecord    `json:"translation"`
	RecordMap    *RecordMap    `json:"recordMap"`
	Fallbacks    []TextSegment `json:"fallbackSegments,omitempty"`
}

// Key identifies a record across store backends: the generated variant's own
// id is preferred over the slug so backend migrations never collapse history.
func (r TranslationRecord) Key() string {
	if r.Translation.ID != "" {
		return r.Translation.ID
	}
	return r.Slug
}

// TranslationModel is the database row backing the durable store adapter.
// The full TranslationRecord is serialized into Payload.
type TranslationModel struct {
	Base
	Slug         string    `json:"slug"           gorm:"uniqueIndex;not null"`
	SourcePostID string    `json:"source_post_id" gorm:"index;not null"`
	Language     string    `json:"language"       gorm:"default:'en'"`
	Model        string    `json:"model"`
	GeneratedAt  time.Time `json:"generated_at"`
	Payload      string    `json:"-"              gorm:"type:longtext;not null"`
}

func (TranslationModel) TableName() string { return "ai_translations" }
