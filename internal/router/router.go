package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"patentdesk/internal/domain"
	"patentdesk/internal/handler"
	"patentdesk/internal/metrics"
	"patentdesk/internal/middleware"
	"patentdesk/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Wizard      *handler.WizardHandler
	Application *handler.ApplicationHandler
	Reference   *handler.ReferenceHandler
	Admin       *handler.AdminHandler
	Upload      *handler.UploadHandler
	Submit      *handler.SubmitHandler
	Health      *handler.HealthHandler
}

// Options carries the cross-cutting settings of the HTTP stack.
type Options struct {
	LoginPath      string
	AllowedOrigins []string
	Limiter        *middleware.RateLimiter
	EnableSwagger  bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	if opts.LoginPath != "" {
		handler.LoginPath = opts.LoginPath
	}

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limit := func(c *gin.Context) { c.Next() }
	if opts.Limiter != nil {
		limit = opts.Limiter.Handler()
	}
	authenticated := middleware.AuthMiddleware(authSvc, handler.LoginPath)

	// Local proxy endpoints the portal calls directly
	api := r.Group("/api")
	api.POST("/submit", limit, h.Submit.Echo)

	upload := api.Group("/upload")
	upload.Use(authenticated, limit)
	upload.POST("", h.Upload.Upload)
	upload.POST("/retry", h.Upload.Retry)
	upload.DELETE("", h.Upload.Delete)
	upload.GET("", h.Upload.List)
	upload.GET("/download/:id", h.Upload.Download)

	v1 := api.Group("/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.Use(limit)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(authenticated, limit)

	users := protected.Group("/users")
	users.GET("/me", h.User.Me)
	users.PUT("/me", h.User.UpdateMe)

	// Wizard routes - applicants only
	wizard := protected.Group("/wizard")
	wizard.Use(middleware.RequireRole(domain.RoleApplicant))
	wizard.GET("/draft", h.Wizard.Draft)
	wizard.PATCH("/draft", h.Wizard.UpdateDraft)
	wizard.DELETE("/draft", h.Wizard.Logout)
	wizard.POST("/steps/:n/next", h.Wizard.Next)
	wizard.POST("/steps/:n/prev", h.Wizard.Prev)
	wizard.POST("/submit", h.Wizard.Submit)
	wizard.POST("/likelihood", h.Wizard.Likelihood)

	apps := protected.Group("/applications")
	apps.Use(middleware.RequireRole(domain.RoleApplicant))
	apps.GET("", h.Application.List)
	apps.GET("/:no", h.Application.GetByNo)
	apps.POST("/:no/cancel", h.Application.Cancel)
	apps.POST("/:no/payment-success", h.Application.PaymentSuccess)
	apps.GET("/:no/feedback", h.Application.Feedback)

	patents := protected.Group("/patents")
	patents.GET("/similar", h.Application.Similar)
	patents.GET("/:no", h.Application.Patent)

	ref := protected.Group("/reference")
	ref.GET("/states/:country", h.Reference.States)
	ref.GET("/:kind", h.Reference.List)

	// Admin routes - review workflow
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/applications", h.Admin.List)
	admin.GET("/applications/export", h.Admin.Export)
	admin.GET("/applications/:no", h.Admin.Summary)
	admin.POST("/applications/:no/approve", h.Admin.Approve)
	admin.POST("/applications/:no/reject", h.Admin.Reject)
	admin.POST("/applications/:no/feedback", h.Admin.RequestFeedback)

	return r
}
