package notion

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/morethan-log/core/internal/models"
)

// collectionEnvelope wraps a collection value, tolerating the same nested
// {value:{value:{...}}} shape the block envelopes have.
type collectionEnvelope struct {
	Value json.RawMessage `json:"value"`
}

type collectionValue struct {
	ID     string                 `json:"id"`
	Schema map[string]schemaEntry `json:"schema"`
}

type schemaEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (e collectionEnvelope) value() (collectionValue, bool) {
	if len(e.Value) == 0 {
		return collectionValue{}, false
	}
	var value collectionValue
	if err := json.Unmarshal(e.Value, &value); err == nil && len(value.Schema) > 0 {
		return value, true
	}
	var nested struct {
		Value collectionValue `json:"value"`
	}
	if err := json.Unmarshal(e.Value, &nested); err == nil && len(nested.Value.Schema) > 0 {
		return nested.Value, true
	}
	return collectionValue{}, false
}

// buildPostRecord maps a collection page's properties through the database
// schema onto a PostRecord. Unknown schema columns are ignored.
func buildPostRecord(blockID string, block *models.Block, schema map[string]schemaEntry) models.PostRecord {
	record := models.PostRecord{ID: blockID}
	if block.CreatedTime > 0 {
		record.CreatedTime = time.UnixMilli(block.CreatedTime).UTC().Format(time.RFC3339)
	}

	for propID, spans := range block.Properties {
		entry, ok := schema[propID]
		if !ok {
			continue
		}
		text := plainText(spans)

		switch strings.ToLower(entry.Name) {
		case "title", "name":
			record.Title = text
		case "slug":
			record.Slug = text
		case "summary", "description":
			record.Summary = text
		case "tags":
			record.Tags = splitMulti(text)
		case "category":
			record.Category = splitMulti(text)
		case "type":
			record.Type = splitMulti(text)
		case "status":
			record.Status = splitMulti(text)
		case "language":
			record.Language = splitMulti(text)
		case "thumbnail":
			record.Thumbnail = text
		case "date":
			if start := dateStart(spans); start != "" {
				record.Date = &models.PostDate{StartDate: start}
			}
		}
	}
	return record
}

func plainText(spans []models.Span) string {
	var b strings.Builder
	for _, span := range spans {
		b.WriteString(span.Text())
	}
	return strings.TrimSpace(b.String())
}

// splitMulti splits a multi_select's comma-joined plain text.
func splitMulti(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// dateStart digs the start date out of a date property's decoration tuple:
// ["‣", [["d", {"type": "date", "start_date": "2024-01-02"}]]].
func dateStart(spans []models.Span) string {
	for _, span := range spans {
		for _, dec := range span.Decorations() {
			var group [][]json.RawMessage
			if err := json.Unmarshal(dec, &group); err != nil {
				continue
			}
			for _, tuple := range group {
				if len(tuple) < 2 {
					continue
				}
				var tag string
				if err := json.Unmarshal(tuple[0], &tag); err != nil || tag != "d" {
					continue
				}
				var date struct {
					StartDate string `json:"start_date"`
				}
				if err := json.Unmarshal(tuple[1], &date); err == nil && date.StartDate != "" {
					return date.StartDate
				}
			}
		}
	}
	return ""
}
