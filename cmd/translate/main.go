// Command translate runs one translation sync pass and exits. Intended for
// content build pipelines that want fresh drafts before deploying.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/database"
	"github.com/morethan-log/core/internal/modules/content/notion"
	"github.com/morethan-log/core/internal/modules/processing/translation"
	"github.com/morethan-log/core/internal/modules/publish"
	"github.com/morethan-log/core/internal/modules/storage/drafts"
	"github.com/morethan-log/core/internal/pkg/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	timeout := flag.Duration("timeout", 30*time.Minute, "Abort the sync after this duration")
	flag.Parse()

	logger, err := logging.New(false)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	// unlike the server, a one-shot run without credentials is pointless
	if cfg.Notion.PageID == "" {
		logger.Fatal("notion page id is not configured")
	}
	if !cfg.Translation.HasCredential() {
		logger.Fatal("translation provider api key is not configured")
	}

	var db *gorm.DB
	if cfg.DSN != "" {
		db, err = database.Connect(cfg, true)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
	}

	source := notion.NewClient(cfg.Notion, logger)
	store := buildStore(cfg, db, logger)
	creator := translation.NewTranslator(cfg.Translation, logger)

	var publisher translation.Publisher
	if pub := cfg.Translation.Publish; pub.Token != "" && pub.ParentPageID != "" {
		publisher = publish.NewNotionPublisher(pub, logger)
	}

	syncSvc := translation.NewService(cfg.Translation, source, store, creator, publisher, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	started := time.Now()
	if err := syncSvc.Run(ctx); err != nil {
		logger.Fatal("translation sync failed", zap.Error(err))
	}
	logger.Info("translation sync finished", zap.Duration("took", time.Since(started)))
}

func buildStore(cfg *config.AppConfig, db *gorm.DB, logger *zap.Logger) drafts.Store {
	stores := []drafts.Store{drafts.NewFileStore(cfg.Translation.StoreDir, logger)}
	if dir := cfg.Translation.LegacyStoreDir; dir != "" {
		stores = append(stores, drafts.NewFileStore(dir, logger))
	}
	if db != nil {
		stores = append(stores, drafts.NewDBStore(db, logger))
	}
	if len(stores) == 1 {
		return stores[0]
	}
	return drafts.NewMultiStore(stores...)
}
