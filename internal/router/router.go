package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/codigix/passion-clothing-sub009/internal/config"
	"github.com/codigix/passion-clothing-sub009/internal/handler"
	"github.com/codigix/passion-clothing-sub009/internal/middleware"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
	"github.com/codigix/passion-clothing-sub009/internal/service"
	"github.com/codigix/passion-clothing-sub009/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	receiptRepo := repository.NewReceiptRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	vendorRequestRepo := repository.NewVendorRequestRepository(db)
	creditNoteRepo := repository.NewCreditNoteRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	seqRepo := repository.NewSequenceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	auditSvc := service.NewAuditService(auditRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo)
	caseSvc := service.NewCaseService(caseRepo, receiptRepo, auditSvc)
	receiptSvc := service.NewReceiptService(receiptRepo, poRepo, seqRepo, caseSvc, inventorySvc, auditSvc, dispatcher)
	vendorRequestSvc := service.NewVendorRequestService(vendorRequestRepo, caseRepo, receiptRepo, vendorRepo, seqRepo, caseSvc, auditSvc, dispatcher)
	creditNoteSvc := service.NewCreditNoteService(creditNoteRepo, caseRepo, receiptRepo, vendorRepo, seqRepo, caseSvc, auditSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	receiptsH := handler.NewReceiptsHandler(receiptSvc)
	casesH := handler.NewCasesHandler(caseSvc)
	vendorRequestsH := handler.NewVendorRequestsHandler(vendorRequestSvc)
	creditNotesH := handler.NewCreditNotesHandler(creditNoteSvc, cfg.DocumentStoragePath)
	auditH := handler.NewAuditHandler(auditSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: store, purchase, finance, admin — declared per-endpoint
		receipts := v1.Group("/goods-receipts")
		{
			receipts.POST("", middleware.RequireRole("store", "purchase", "admin"), receiptsH.Create)
			receipts.GET("", middleware.RequireRole("store", "purchase", "finance", "admin"), receiptsH.List)
			receipts.GET("/:id", middleware.RequireRole("store", "purchase", "finance", "admin"), receiptsH.Get)
			receipts.PATCH("/:id/approve", middleware.RequireRole("purchase", "admin"), receiptsH.Approve)
			receipts.PATCH("/:id/reject", middleware.RequireRole("purchase", "admin"), receiptsH.Reject)
		}

		cases := v1.Group("/discrepancy-cases", middleware.RequireRole("purchase", "finance", "admin"))
		{
			cases.GET("", casesH.List)
			cases.GET("/:id", casesH.Get)
		}

		requests := v1.Group("/vendor-requests", middleware.RequireRole("purchase", "admin"))
		{
			requests.POST("", vendorRequestsH.Create)
			requests.GET("", vendorRequestsH.List)
			requests.GET("/:id", vendorRequestsH.Get)
			requests.PATCH("/:id/send", vendorRequestsH.Send)
			requests.PATCH("/:id/acknowledge", vendorRequestsH.Acknowledge)
			requests.PATCH("/:id/in-transit", vendorRequestsH.MarkInTransit)
			requests.PATCH("/:id/fulfill", vendorRequestsH.Fulfill)
			requests.PATCH("/:id/cancel", vendorRequestsH.Cancel)
		}

		notes := v1.Group("/credit-notes", middleware.RequireRole("finance", "admin"))
		{
			notes.POST("", creditNotesH.Create)
			notes.GET("", creditNotesH.List)
			notes.GET("/:id", creditNotesH.Get)
			notes.GET("/:id/document", creditNotesH.Document)
			notes.PATCH("/:id/issue", creditNotesH.Issue)
			notes.PATCH("/:id/accept", creditNotesH.Accept)
			notes.PATCH("/:id/reject", creditNotesH.Reject)
			notes.PATCH("/:id/cancel", creditNotesH.Cancel)
			notes.PATCH("/:id/settle", creditNotesH.Settle)
			notes.PATCH("/:id/settlement", creditNotesH.UpdateSettlement)
		}

		v1.GET("/audit-trail", middleware.RequireRole("purchase", "finance", "admin"), auditH.List)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
