package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Kenia972/myyowntour-sub000/internal/cache"
	"github.com/Kenia972/myyowntour-sub000/internal/config"
	"github.com/Kenia972/myyowntour-sub000/internal/database"
	"github.com/Kenia972/myyowntour-sub000/internal/external"
	"github.com/Kenia972/myyowntour-sub000/internal/handlers"
	"github.com/Kenia972/myyowntour-sub000/internal/messaging"
	"github.com/Kenia972/myyowntour-sub000/internal/middleware"
	"github.com/Kenia972/myyowntour-sub000/internal/repository"
	"github.com/Kenia972/myyowntour-sub000/internal/search"
	"github.com/Kenia972/myyowntour-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API process.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer wires the whole API: database with migrations, NATS,
// Elasticsearch, Valkey, repositories, services and routes. Search and
// cache are optional; the server starts without them.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	var repos *repository.Repositories
	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		log.Printf("Elasticsearch unavailable, search served from database: %v", err)
		repos = repository.NewRepositories(db)
	} else {
		repos = repository.NewRepositoriesWithElasticsearch(db, esClient)
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		log.Printf("Valkey unavailable, running without cache: %v", err)
		valkeyClient = nil
	}

	platformClient := external.NewPlatformClient(cfg.Platform)

	services := service.NewServices(repos, natsClient, platformClient, valkeyClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Profiles, s.valkey))
	{
		excursions := api.Group("/excursions")
		{
			excursions.POST("", h.CreateExcursion)
			excursions.GET("", h.ListExcursions)
			excursions.GET("/:id", h.GetExcursion)
			excursions.GET("/:id/slots", h.ListSlots)
		}

		slots := api.Group("/slots")
		{
			slots.POST("", h.CreateSlot)
			slots.PUT("/:id", h.UpdateSlot)
			slots.DELETE("/:id", h.DeleteSlot)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.SubmitBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.PATCH("/confirm", h.ConfirmBooking)
			bookings.PATCH("/cancel", h.CancelBooking)
			bookings.POST("/manual", h.CreateManualBooking)
		}

		checkin := api.Group("/checkin")
		{
			checkin.POST("/scan", h.ScanCheckin)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.GET("/unread-count", h.UnreadCount)
			notifications.PATCH("/read", h.MarkNotificationsRead)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "myowntour-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Repos exposes the repositories for the audit entrypoint.
func (s *Server) Repos() *repository.Repositories {
	return s.repos
}

// Cleanup closes connections and open scanner sessions.
func (s *Server) Cleanup() error {
	if s.services != nil {
		s.services.Checkin.Shutdown()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
