package posts

import "github.com/morethan-log/core/internal/models"

// FilterOptions restrict which records are visible to readers.
type FilterOptions struct {
	AcceptStatus []string
	AcceptType   []string
}

// DefaultFilter matches what the public feed has always served.
var DefaultFilter = FilterOptions{
	AcceptStatus: []string{"Public", "PublicOnDetail"},
	AcceptType:   []string{"Post", "Paper", "Page"},
}

// Filter keeps records whose first status/type entry is accepted. Records
// with no status or type at all are kept: drafts are marked explicitly.
func Filter(records []models.PostRecord, opts FilterOptions) []models.PostRecord {
	out := make([]models.PostRecord, 0, len(records))
	for _, record := range records {
		if !accepts(opts.AcceptStatus, record.Status) {
			continue
		}
		if !accepts(opts.AcceptType, record.Type) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func accepts(accepted, values []string) bool {
	if len(accepted) == 0 || len(values) == 0 {
		return true
	}
	for _, value := range values {
		for _, ok := range accepted {
			if value == ok {
				return true
			}
		}
	}
	return false
}
