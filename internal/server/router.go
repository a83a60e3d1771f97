// Package server wires services, controllers and middleware into the HTTP router.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/auth"
	"github.com/franciscosanchezn/thunder-road-api/internal/config"
	"github.com/franciscosanchezn/thunder-road-api/internal/controllers"
	"github.com/franciscosanchezn/thunder-road-api/internal/menucache"
	"github.com/franciscosanchezn/thunder-road-api/internal/middleware"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/franciscosanchezn/thunder-road-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services groups the application services behind the router
type Services struct {
	Menu        services.MenuService
	Reservation services.ReservationService
	Job         services.JobService
	Contact     services.ContactService
	Newsletter  services.NewsletterService
	Settings    services.SettingsService
	Media       services.MediaService
	User        services.UserService
	Client      services.ClientService
}

// NewServices builds every service on top of db. The menu cache is shared
// by the menu and media services.
func NewServices(db *gorm.DB, files storage.FileStore, cacheTTL time.Duration) *Services {
	cache := menucache.New()
	return &Services{
		Menu:        services.NewMenuService(db, cache, cacheTTL),
		Reservation: services.NewReservationService(db),
		Job:         services.NewJobService(db),
		Contact:     services.NewContactService(db),
		Newsletter:  services.NewNewsletterService(db),
		Settings:    services.NewSettingsService(db),
		Media:       services.NewMediaService(db, files, cache),
		User:        services.NewUserService(db),
		Client:      services.NewClientService(db),
	}
}

// NewRouter builds the Gin engine with every route of the API
func NewRouter(conf *config.Config, db *gorm.DB) (*gin.Engine, error) {
	files, err := storage.NewLocalStore(conf.UploadDir)
	if err != nil {
		return nil, err
	}
	svc := NewServices(db, files, conf.MenuCacheTTL)
	oauth := auth.NewOAuthService(db, conf.JWTSecret, svc.User)

	router := gin.New()
	// without trusted proxies ClientIP is the socket address, so the contact
	// limit cannot be dodged with a forged X-Forwarded-For
	if err := router.SetTrustedProxies(conf.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.SecurityHeaders())
	router.Use(cors.New(corsConfig(conf.FrontendURL)))
	router.MaxMultipartMemory = conf.MaxUploadBytes

	router.Static("/uploads", files.Dir())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.POST("/oauth/token", oauth.HandleToken)

	setupRoutes(router, conf, svc)
	return router, nil
}

func corsConfig(frontendURL string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{frontendURL}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Auth"}
	cfg.ExposeHeaders = []string{"X-Total-Count", "Retry-After"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// setupRoutes defines the /api routes
func setupRoutes(router *gin.Engine, conf *config.Config, svc *Services) {
	menu := controllers.NewMenuController(svc.Menu)
	reservations := controllers.NewReservationController(svc.Reservation)
	jobs := controllers.NewJobController(svc.Job)
	contact := controllers.NewContactController(svc.Contact)
	newsletter := controllers.NewNewsletterController(svc.Newsletter)
	settings := controllers.NewSettingsController(svc.Settings)
	media := controllers.NewMediaController(svc.Media, conf.MaxUploadBytes)
	login := controllers.NewAuthController(svc.User, auth.NewTokenIssuer(conf.JWTSecret, auth.DefaultTokenTTL))
	clients := controllers.NewClientController(svc.Client, svc.User)

	contactLimiter := middleware.NewIPRateLimiter(conf.ContactRateLimit, conf.ContactRateWindow)

	api := router.Group("/api")
	api.Use(middleware.RequestTimeout(conf.RequestTimeout))

	// Public routes
	api.GET("/health", healthCheckHandler)
	api.POST("/login", login.Login)
	api.GET("/menu", menu.GetMenu)
	api.POST("/reservations", reservations.CreateReservation)
	api.POST("/jobs", jobs.CreateApplication)
	api.GET("/job-positions/public", jobs.ListPublicPositions)
	api.GET("/media", media.ListMedia)
	api.GET("/site-settings", settings.GetSiteSettings)
	api.GET("/navigation", settings.ListNavigation)
	api.GET("/business-hours", settings.ListBusinessHours)
	api.GET("/about", settings.GetAbout)
	api.GET("/footer-columns", settings.ListFooterColumns)
	api.POST("/newsletter/subscribe", newsletter.Subscribe)
	api.POST("/newsletter/unsubscribe", newsletter.Unsubscribe)
	api.POST("/contact", middleware.RateLimit(contactLimiter), contact.CreateMessage)

	// Back-office routes
	admin := api.Group("")
	admin.Use(middleware.AdminAuth([]byte(conf.JWTSecret), conf.AdminDevAuth))
	{
		admin.GET("/menu/admin", menu.GetAdminMenu)
		admin.GET("/menu/categories", menu.ListCategories)
		admin.GET("/menu/categories/:id/items", menu.ListCategoryItems)
		admin.POST("/menu/categories", menu.CreateCategory)
		admin.PUT("/menu/categories/:id", menu.UpdateCategory)
		admin.PATCH("/menu/categories/:id", menu.PatchCategory)
		admin.DELETE("/menu/categories/:id", menu.DeleteCategory)
		admin.POST("/menu/items", menu.CreateItem)
		admin.PUT("/menu/items/:id", menu.UpdateItem)
		admin.PATCH("/menu/items/:id", menu.PatchItem)
		admin.DELETE("/menu/items/:id", menu.DeleteItem)

		admin.GET("/reservations", reservations.ListReservations)
		admin.PUT("/reservations/:id", reservations.UpdateReservationStatus)
		admin.DELETE("/reservations/:id", reservations.DeleteReservation)

		admin.GET("/jobs", jobs.ListApplications)
		admin.PUT("/jobs/:id", jobs.UpdateApplicationStatus)
		admin.DELETE("/jobs/:id", jobs.DeleteApplication)
		admin.GET("/job-positions", jobs.ListPositions)
		admin.POST("/job-positions", jobs.CreatePosition)
		admin.PUT("/job-positions/:id", jobs.SetPositionActive)
		admin.DELETE("/job-positions/:id", jobs.DeletePosition)
		admin.GET("/application-fields", jobs.ListFields)
		admin.POST("/application-fields", jobs.CreateField)
		admin.DELETE("/application-fields/:id", jobs.DeleteField)

		admin.POST("/media/upload", media.UploadMedia)
		admin.DELETE("/media/:id", media.DeleteMedia)

		admin.PUT("/site-settings", settings.UpdateSiteSettings)
		admin.PUT("/business-hours/:id", settings.UpdateBusinessHours)
		admin.PUT("/about", settings.UpdateAbout)

		admin.GET("/newsletter/subscribers", newsletter.ListSubscribers)
		admin.DELETE("/newsletter/subscribers/:id", newsletter.DeleteSubscriber)

		admin.GET("/contact/messages", contact.ListMessages)
		admin.PUT("/contact/messages/:id", contact.MarkMessage)
		admin.DELETE("/contact/messages/:id", contact.DeleteMessage)

		admin.GET("/clients", clients.ListClients)
		admin.POST("/clients", clients.CreateClient)
		admin.DELETE("/clients/:id", clients.DeleteClient)
	}
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Thunder Road API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
