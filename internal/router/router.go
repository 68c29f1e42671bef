package router

import (
	"time"

	"boutique/internal/config"
	"boutique/internal/handler"
	"boutique/internal/infra"
	"boutique/internal/middleware"
	"boutique/internal/repository"
	"boutique/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const informationCacheTTL = 10 * time.Minute

// Deps are the infrastructure pieces built by cmd/server. Notifier may be nil
// (no queue, notifications are dropped).
type Deps struct {
	Hub      *infra.Hub
	Storage  *infra.LocalStorage
	Notifier service.Notifier
	SMSCB    *infra.CircuitBreaker
	MailCB   *infra.CircuitBreaker
}

// resource is the CRUD surface shared by the back-office handlers.
type resource interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Delete(c *gin.Context)
	DeleteMany(c *gin.Context)
}

func mountCRUD(g *gin.RouterGroup, h resource) {
	g.POST("/new", h.Create)
	g.PUT("/update/:id", h.Update)
	g.GET("/get/all", h.List)
	g.GET("/get/:id", h.Get)
	g.DELETE("/delete/:id", h.Delete)
	g.POST("/delete/many", h.DeleteMany)
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(db)
	infoRepo := repository.NewInformationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subCategoryRepo := repository.NewSubCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	packRepo := repository.NewPackRepository(db)
	clientRepo := repository.NewClientRepository(db)
	promoRepo := repository.NewPromoCodeRepository(db)
	venteRepo := repository.NewVenteRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	pageRepo := repository.NewPageRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	var cache service.JSONCache
	if rdb != nil {
		cache = infra.NewCache(rdb, informationCacheTTL)
	}
	infoSvc := service.NewInformationService(infoRepo, cache)

	var events service.EventPublisher
	if deps.Hub != nil {
		events = deps.Hub
	}
	var files service.FileRemover
	if deps.Storage != nil {
		files = deps.Storage
	}

	authSvc := service.NewAuthService(adminRepo, cfg)
	productSvc := service.NewProductService(productRepo, categoryRepo, subCategoryRepo, files)
	packSvc := service.NewPackService(packRepo, productRepo, files)
	categorySvc := service.NewCategoryService(categoryRepo, subCategoryRepo, files)
	subCategorySvc := service.NewSubCategoryService(subCategoryRepo, categoryRepo, files)
	promoSvc := service.NewPromoCodeService(promoRepo)
	clientSvc := service.NewClientService(clientRepo, productRepo, cfg.JWTSecret,
		time.Duration(cfg.ClientJWTExpirationHours)*time.Hour)
	venteSvc := service.NewVenteService(service.VenteDeps{
		Ventes:     venteRepo,
		Clients:    clientRepo,
		Products:   productRepo,
		Packs:      packRepo,
		PromoCodes: promoRepo,
		Settings:   infoSvc,
		Notifier:   deps.Notifier,
		Events:     events,
	})
	blogSvc := service.NewBlogService(blogRepo, files)
	pageSvc := service.NewPageService(pageRepo)
	messageSvc := service.NewMessageService(messageRepo, infoSvc, deps.Notifier)
	analyticsSvc := service.NewAnalyticsService(venteRepo, clientRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	venteH := handler.NewVenteHandler(venteSvc, deps.Hub)
	productH := handler.NewProductHandler(productSvc)
	packH := handler.NewPackHandler(packSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	subCategoryH := handler.NewSubCategoryHandler(subCategorySvc)
	promoH := handler.NewPromoCodeHandler(promoSvc)
	clientH := handler.NewClientHandler(clientSvc, venteSvc)
	blogH := handler.NewBlogHandler(blogSvc)
	pageH := handler.NewPageHandler(pageSvc)
	messageH := handler.NewMessageHandler(messageSvc)
	infoH := handler.NewInformationHandler(infoSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, deps.SMSCB, deps.MailCB))
	r.Static(infra.UploadsRoute, cfg.UploadDir)

	// Admin auth (public)
	auth := r.Group("/admin/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Back-office: admin and manager roles
	admin := r.Group("/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole("admin", "manager"))
	{
		vente := admin.Group("/vente")
		{
			vente.POST("/new", venteH.Create)
			vente.PUT("/update/:id", venteH.Update)
			vente.PUT("/update-status/:id", venteH.UpdateStatus)
			vente.GET("/get/all", venteH.List)
			vente.GET("/get/:id", venteH.Get)
			vente.DELETE("/delete/:id", venteH.Delete)
			vente.POST("/delete/many", venteH.DeleteMany)
			vente.GET("/export", venteH.Export)
			vente.GET("/invoice/:id", venteH.Invoice)
			if deps.Hub != nil {
				vente.GET("/ws", venteH.Live)
			}
		}

		mountCRUD(admin.Group("/product"), productH)
		mountCRUD(admin.Group("/pack"), packH)
		mountCRUD(admin.Group("/sub-category"), subCategoryH)
		mountCRUD(admin.Group("/client"), clientH)
		mountCRUD(admin.Group("/blog"), blogH)
		mountCRUD(admin.Group("/page"), pageH)

		category := admin.Group("/category")
		mountCRUD(category, categoryH)
		category.GET("/check/:id", categoryH.Check)

		promo := admin.Group("/promo-code")
		mountCRUD(promo, promoH)
		promo.GET("/validate/:code", promoH.Validate)

		admin.GET("/information/get", infoH.Get)
		admin.PUT("/information/update", infoH.Update)

		messages := admin.Group("/messages")
		{
			messages.GET("/get/all", messageH.List)
			messages.PUT("/read/:id", messageH.MarkRead)
			messages.DELETE("/delete/:id", messageH.Delete)
			messages.POST("/sms", messageH.SendSMS)
		}

		admin.GET("/analytics/dashboard", analyticsH.Dashboard)

		if deps.Storage != nil {
			admin.POST("/upload", handler.NewUploadHandler(deps.Storage).Upload)
		}

		users := admin.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Delete)
		}
	}

	// Storefront
	api := r.Group("/api")
	{
		api.POST("/client/register", middleware.LoginRateLimiter(), clientH.Register)
		api.POST("/client/login", middleware.LoginRateLimiter(), clientH.Login)

		me := api.Group("/client", middleware.ClientJWTAuth(cfg.JWTSecret))
		{
			me.GET("/me", clientH.Me)
			me.PUT("/me", clientH.UpdateMe)
			me.GET("/orders", clientH.Orders)
			me.PUT("/cart", clientH.SetCartItem)
			me.DELETE("/cart/:productId", clientH.RemoveCartItem)
			me.POST("/wishlist/:productId", clientH.ToggleWishlist)
		}

		api.GET("/products", productH.List)
		api.GET("/product/:slug", productH.GetBySlug)
		api.GET("/packs", packH.List)
		api.GET("/pack/:slug", packH.GetBySlug)
		api.GET("/categories", categoryH.List)
		api.GET("/category/:slug", categoryH.GetBySlug)
		api.POST("/commande", venteH.Commande)
		api.GET("/promo-code/validate/:code", promoH.Validate)
		api.GET("/information", infoH.Get)
		api.GET("/blogs", blogH.Published)
		api.GET("/blog/:slug", blogH.GetBySlug)
		api.GET("/page/:slug", pageH.GetBySlug)
		api.POST("/messages", messageH.Create)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
