// Package drafts persists generated translation records. Backends share one
// interface so the pipeline can stack a primary file store, a legacy
// directory and a database mirror behind a single read path.
package drafts

import (
	"context"

	"github.com/morethan-log/core/internal/models"
)

type Store interface {
	// List returns every stored translation record.
	List(ctx context.Context) ([]models.TranslationRecord, error)
	// Write persists one record, keyed by its source slug.
	Write(ctx context.Context, record models.TranslationRecord) error
	// ExistsForSlug reports whether a translation for the slug is stored.
	ExistsForSlug(ctx context.Context, slug string) (bool, error)
}
