package drafts

import (
	"context"

	"github.com/morethan-log/core/internal/models"
)

// MultiStore layers several backends. Reads merge every backend with
// earlier stores winning on duplicate keys; writes go to all of them.
type MultiStore struct {
	stores []Store
}

func NewMultiStore(stores ...Store) *MultiStore {
	return &MultiStore{stores: stores}
}

func (m *MultiStore) List(ctx context.Context) ([]models.TranslationRecord, error) {
	seen := make(map[string]struct{})
	var merged []models.TranslationRecord
	for _, store := range m.stores {
		records, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			key := record.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, record)
		}
	}
	return merged, nil
}

func (m *MultiStore) Write(ctx context.Context, record models.TranslationRecord) error {
	for _, store := range m.stores {
		if err := store.Write(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiStore) ExistsForSlug(ctx context.Context, slug string) (bool, error) {
	for _, store := range m.stores {
		ok, err := store.ExistsForSlug(ctx, slug)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
