package router

import (
	"time"

	"github.com/B0bbyBrown/ExpendiForge/internal/config"
	"github.com/B0bbyBrown/ExpendiForge/internal/handler"
	"github.com/B0bbyBrown/ExpendiForge/internal/infra"
	"github.com/B0bbyBrown/ExpendiForge/internal/middleware"
	"github.com/B0bbyBrown/ExpendiForge/internal/model"
	"github.com/B0bbyBrown/ExpendiForge/internal/repository"
	"github.com/B0bbyBrown/ExpendiForge/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, store *infra.AttachmentStore) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	categorySvc := service.NewCategoryService(categoryRepo)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, auditRepo, store, rdb)
	reportSvc := service.NewReportService(purchaseRepo, categoryRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, store))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Role gates are declared per endpoint; elevated roles
	// (dev) pass every gate via the capability check in RequireRole.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/categories", middleware.RequireRole(model.RoleShopper, model.RoleAdmin), categoriesH.List)
		v1.POST("/categories", middleware.RequireRole(model.RoleAdmin), categoriesH.Create)

		v1.POST("/purchases", middleware.RequireRole(model.RoleShopper), purchasesH.Create)
		v1.GET("/purchases/:id/audit", middleware.RequireRole(model.RoleAdmin), purchasesH.AuditTrail)

		v1.GET("/dashboard", middleware.RequireRole(model.RoleAdmin), reportsH.Dashboard)
		v1.GET("/export", middleware.RequireRole(model.RoleAdmin), reportsH.Export)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
