package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/morethan-log/core/internal/models"
	"github.com/morethan-log/core/internal/pkg/language"
	"go.uber.org/zap"
)

// FileStore keeps one pretty-printed JSON file per translated post,
// named <slug>-<target>.json inside a flat directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) List(ctx context.Context) ([]models.TranslationRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read translation dir %s: %w", s.dir, err)
	}

	var records []models.TranslationRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read translation file %s: %w", path, err)
		}
		var record models.TranslationRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			s.logger.Warn("skipping unreadable translation file",
				zap.String("path", path), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *FileStore) Write(ctx context.Context, record models.TranslationRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create translation dir %s: %w", s.dir, err)
	}
	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode translation for %s: %w", record.Slug, err)
	}
	path := filepath.Join(s.dir, fileName(record.Slug))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write translation file %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) ExistsForSlug(ctx context.Context, slug string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, fileName(slug)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func fileName(slug string) string {
	return sanitizeSlug(slug) + "-" + language.Target + ".json"
}

// sanitizeSlug strips path separators so a hostile slug cannot escape
// the store directory.
func sanitizeSlug(slug string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", "..", "-")
	return replacer.Replace(slug)
}
