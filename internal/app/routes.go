package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/morethan-log/core/internal/middleware"
	"github.com/morethan-log/core/internal/modules/content/posts"
	"github.com/morethan-log/core/internal/modules/processing/translation"
	"github.com/morethan-log/core/internal/modules/stats/visits"
	"github.com/morethan-log/core/internal/pkg/response"
)

var processStart = time.Now()

func (a *App) registerRoutes() {
	r := a.router
	authMW := middleware.Admin(a.cfg.AdminToken)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{
			"name":   "morethan-log core",
			"uptime": time.Since(processStart).Truncate(time.Second).String(),
		})
	})

	api := r.Group("/api")
	posts.NewHandler(a.postsSvc, a.logger).RegisterRoutes(api)
	translation.NewHandler(a.syncSvc, a.logger).RegisterRoutes(api, authMW)
	visits.NewHandler(a.visitsSvc, a.logger).RegisterRoutes(api)

	jobs := api.Group("/jobs", authMW)
	jobs.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	jobs.POST("/:name/run", func(c *gin.Context) {
		// jobs outlive the request that triggered them
		if err := a.sched.Run(context.Background(), c.Param("name")); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		response.OK(c, gin.H{"started": true})
	})
}
