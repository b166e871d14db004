// Package server assembles the HTTP surface from the feature modules.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"safaribook/internal/config"
	"safaribook/internal/database"
	"safaribook/internal/middleware"
	"safaribook/internal/modules/auth"
	"safaribook/internal/modules/booking"
	"safaribook/internal/modules/catalog"
	"safaribook/internal/modules/identity"
	"safaribook/internal/modules/live"
	"safaribook/internal/modules/notification"
	"safaribook/internal/modules/review"
	"safaribook/internal/modules/sitemap"
	"safaribook/internal/modules/upload"
	"safaribook/internal/pkg/cache"
	jwtsvc "safaribook/internal/pkg/jwt"
	"safaribook/internal/repository"
)

// Deps are the process-wide handles the router is built from.
type Deps struct {
	Config *config.Config
	DB     *database.DB
	Cache  cache.Store
	Mail   notification.Enqueuer
	Hub    *live.Hub
	Log    logrus.FieldLogger
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Log

	userRepo := repository.NewUserRepository(d.DB)
	cityRepo := repository.NewCityRepository(d.DB)
	hotelRepo := repository.NewHotelRepository(d.DB)
	safariRepo := repository.NewSafariRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	reviewRepo := repository.NewReviewRepository(d.DB)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	resolver := identity.NewResolver(j, userRepo, log.WithField("component", "identity"))

	mailer := notification.NewService(d.Mail, cfg.Mail.AdminEmail, cfg.SiteBaseURL, log.WithField("component", "notification"))

	catalogService := catalog.NewService(hotelRepo, safariRepo, cityRepo, d.Cache, log.WithField("component", "catalog"))
	catalogHandler := catalog.NewHandler(catalogService)

	authService := auth.NewService(userRepo, j, mailer, log.WithField("component", "auth"))
	authHandler := auth.NewHandler(authService)

	var events booking.EventPublisher
	if d.Hub != nil {
		events = d.Hub
	}
	bookingService := booking.NewService(bookingRepo, catalogService, mailer, events, nil, log.WithField("component", "booking"))
	bookingHandler := booking.NewHandler(bookingService)

	reviewHandler := review.NewHandler(review.NewService(reviewRepo, d.Cache))

	uploadService := upload.NewService(cfg.UploadDir, cfg.UploadMaxBytes)
	uploadHandler := upload.NewHandler(uploadService)

	sitemapHandler := sitemap.NewHandler(catalogService, cfg.SiteBaseURL)

	r := gin.New()
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.MaxMultipartMemory = cfg.UploadMaxBytes

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", apiIndex)
	r.Static("/uploads", uploadService.Dir())
	sitemapHandler.RegisterRoutes(r)

	optional := middleware.OptionalIdentity(resolver)
	strict := middleware.JWTAuth(resolver)
	adminOnly := middleware.AdminOnly()

	api := r.Group("/api")
	{
		api.GET("", apiIndex)

		authHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterRoutes(api)
		uploadHandler.RegisterRoutes(api)
		bookingHandler.RegisterRoutes(api, optional, strict, adminOnly)

		protected := api.Group("", strict)
		authHandler.RegisterProtectedRoutes(protected)
		reviewHandler.RegisterRoutes(api, protected)

		admin := api.Group("/admin", strict, adminOnly)
		catalogHandler.RegisterAdminRoutes(admin)

		// the socket authenticates itself from ?token=
		if d.Hub != nil {
			liveHandler := live.NewHandler(d.Hub, resolver, cfg.CORSAllowedOrigins)
			liveHandler.RegisterRoutes(api.Group("/admin"))
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":         "Route not found",
			"requested_url": c.Request.URL.Path,
			"suggestion":    "Try /api/hotels or /api/safaris",
		})
	})

	return r
}

func apiIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Safari and hotel booking API",
		"status":  "active",
		"endpoints": gin.H{
			"cities":   "/api/cities",
			"hotels":   "/api/hotels",
			"safaris":  "/api/safaris",
			"bookings": "/api/bookings",
			"reviews":  "/api/reviews",
			"auth":     "/api/auth",
			"upload":   "/api/upload",
		},
	})
}
