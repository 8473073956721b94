package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/handler"
	"github.com/abelkristv/magang-sub001/internal/middleware"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/internal/service"
	"github.com/abelkristv/magang-sub001/pkg/config"
	"github.com/abelkristv/magang-sub001/pkg/logger"
	corsmiddleware "github.com/abelkristv/magang-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/abelkristv/magang-sub001/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth          *handler.AuthHandler
	users         *handler.UserHandler
	students      *handler.StudentHandler
	reports       *handler.ReportHandler
	meetings      *handler.MeetingScheduleHandler
	documentation *handler.DocumentationHandler
	references    *handler.ReferenceHandler
	uploads       *handler.UploadHandler
	email         *handler.EmailHandler
	exports       *handler.ExportHandler
	metrics       *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, tokens middleware.TokenValidator, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metrics, "/metrics"))
		r.GET("/metrics", h.metrics.Prometheus)
	}

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	secured.GET("/auth/me", h.auth.Me)

	users := secured.Group("/user")
	users.POST("/names", h.users.Names)
	users.GET("/email/:email", h.users.GetByEmail)
	users.GET("/:id", h.users.Get)
	users.PUT("/:id", middleware.RBAC(string(models.RoleEnrichment), middleware.AllowSelf), h.users.Update)

	students := secured.Group("/student")
	students.GET("", h.students.List)
	students.GET("/search", h.students.Search)
	students.GET("/:id", h.students.Get)
	students.PUT("/:id/notes", h.students.UpdateNotes)
	students.GET("/:id/reports/count", h.students.ReportCount)
	secured.POST("/upload-student-data", middleware.RequireRoles(models.RoleEnrichment), h.uploads.UploadStudents)

	reports := secured.Group("/reports")
	reports.GET("", h.reports.List)
	reports.POST("", h.reports.Create)
	reports.GET("/urgent", h.reports.Urgent)
	reports.POST("/comments/total", h.reports.TotalComments)
	reports.PUT("/:id", h.reports.Update)
	reports.DELETE("/:id", h.reports.Delete)
	reports.GET("/:id/comments", h.reports.ListComments)
	reports.POST("/:id/comments", h.reports.CreateComment)

	meetings := secured.Group("/meeting-schedules")
	meetings.GET("", h.meetings.List)
	meetings.POST("", h.meetings.Create)
	meetings.POST("/create", h.meetings.CreateEncrypted)
	meetings.PUT("/:id", h.meetings.Update)
	meetings.DELETE("/:id", h.meetings.Delete)

	docs := secured.Group("/documentation")
	docs.GET("", h.documentation.List)
	docs.POST("", h.documentation.Create)
	docs.GET("/email/:email", h.documentation.ByEmail)
	docs.PUT("/:id", h.documentation.Update)
	docs.DELETE("/:id", h.documentation.Delete)

	secured.POST("/send-email", h.email.Send)

	secured.GET("/companies", h.references.Companies)
	secured.GET("/majors", h.references.Majors)
	secured.POST("/majors", h.references.CreateMajor)
	secured.GET("/periods", h.references.Periods)
	secured.POST("/periods", h.references.CreatePeriod)

	exports := secured.Group("/export")
	exports.GET("/students", h.exports.Students)
	exports.GET("/reports", h.exports.Reports)

	return r
}
