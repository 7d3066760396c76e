// Package app wires configuration, storage, the content source and the
// translation pipeline into one HTTP application.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/database"
	"github.com/morethan-log/core/internal/middleware"
	"github.com/morethan-log/core/internal/modules/content/notion"
	"github.com/morethan-log/core/internal/modules/content/posts"
	"github.com/morethan-log/core/internal/modules/processing/translation"
	"github.com/morethan-log/core/internal/modules/publish"
	"github.com/morethan-log/core/internal/modules/stats/visits"
	"github.com/morethan-log/core/internal/modules/storage/drafts"
	pkgcron "github.com/morethan-log/core/internal/pkg/cron"
	"github.com/morethan-log/core/internal/pkg/kv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler

	postsSvc  *posts.Service
	syncSvc   *translation.Service
	visitsSvc *visits.Service
}

// New initializes the application: config → stores → pipeline → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	var db *gorm.DB
	if cfg.DSN != "" {
		var err error
		db, err = database.Connect(cfg, true)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
	} else {
		logger.Info("no dsn configured, translations persist to disk only")
	}

	kvClient, err := kv.New(cfg.RedisURL, logger)
	if err != nil {
		return nil, fmt.Errorf("kv: %w", err)
	}

	source := notion.NewClient(cfg.Notion, logger)
	store := buildDraftStore(cfg, db, logger)

	var creator translation.Creator
	if cfg.Translation.HasCredential() {
		creator = translation.NewTranslator(cfg.Translation, logger)
	}

	var publisher translation.Publisher
	pub := cfg.Translation.Publish
	if pub.Token != "" && pub.ParentPageID != "" {
		publisher = publish.NewNotionPublisher(pub, logger)
	}

	syncSvc := translation.NewService(cfg.Translation, source, store, creator, publisher, logger)
	postsSvc := posts.NewService(source, syncSvc, cfg.Translation, logger)
	visitsSvc := visits.NewService(kvClient, cfg.Timezone, logger)

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(buildCORSConfig(cfg)))

	ctx, cancel := context.WithCancel(context.Background())

	sched := pkgcron.New()
	registerCronJobs(sched, syncSvc, cfg, logger)
	go sched.Start(ctx)

	app := &App{
		cfg:       cfg,
		router:    router,
		db:        db,
		logger:    logger,
		cancel:    cancel,
		sched:     sched,
		postsSvc:  postsSvc,
		syncSvc:   syncSvc,
		visitsSvc: visitsSvc,
	}
	app.registerRoutes()
	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }

// buildDraftStore stacks the configured backends: primary directory, an
// optional legacy directory for drafts written by older deployments, and a
// database mirror when one is connected. A process cache fronts the stack.
func buildDraftStore(cfg *config.AppConfig, db *gorm.DB, logger *zap.Logger) drafts.Store {
	stores := []drafts.Store{drafts.NewFileStore(cfg.Translation.StoreDir, logger)}
	if dir := cfg.Translation.LegacyStoreDir; dir != "" {
		stores = append(stores, drafts.NewFileStore(dir, logger))
	}
	if db != nil {
		stores = append(stores, drafts.NewDBStore(db, logger))
	}
	if len(stores) == 1 {
		return drafts.NewCachedStore(stores[0])
	}
	return drafts.NewCachedStore(drafts.NewMultiStore(stores...))
}

func buildCORSConfig(cfg *config.AppConfig) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	return corsConfig
}
