// Package server is the HTTP surface: a fiber app exposing the
// versioned JSON API, with bearer-token protection on every resource
// route.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/goliatone/go-logger/glog"

	"github.com/courtside/stringdesk/internal/auth"
	"github.com/courtside/stringdesk/internal/config"
	"github.com/courtside/stringdesk/internal/repository"
)

// Server owns the fiber app and the wiring between routes and the
// domain services.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger glog.Logger
	repo   *repository.Manager
	auther *auth.Authenticator
}

func New(cfg *config.Config, logger glog.Logger, repo *repository.Manager, auther *auth.Authenticator) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		auther: auther,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.GetReadTimeout(),
		WriteTimeout: cfg.HTTP.GetWriteTimeout(),
		IdleTimeout:  cfg.HTTP.GetIdleTimeout(),
		ErrorHandler: s.ErrorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())

	s.routes()

	return s
}

// App exposes the underlying fiber app, used by tests to drive
// requests without a listener.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	s.logger.Info("http server listening", "addr", s.cfg.HTTP.Addr)
	return s.app.Listen(s.cfg.HTTP.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(s.cfg.HTTP.GetShutdownTimeout())
}

func (s *Server) routes() {
	s.app.Get("/", s.serviceInfo)
	s.app.Get("/health", s.health)

	api := s.app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.register)
	authGroup.Post("/login", s.login)
	authGroup.Post("/refresh", s.refresh)
	authGroup.Get("/me", auth.Protected(s.auther), s.me)

	protected := api.Group("", auth.Protected(s.auther))

	clients := protected.Group("/clients")
	clients.Get("", s.listClients)
	clients.Post("", s.createClient)
	clients.Post("/with-rackets", s.createClientWithRackets)
	clients.Get("/:id", s.getClient)
	clients.Put("/:id", s.updateClient)
	clients.Delete("/:id", s.deleteClient)

	categories := protected.Group("/categories")
	categories.Get("", s.listCategories)
	categories.Post("", s.createCategory)
	categories.Get("/:id", s.getCategory)
	categories.Put("/:id", s.updateCategory)
	categories.Delete("/:id", s.deleteCategory)

	products := protected.Group("/products")
	products.Get("", s.listProducts)
	products.Get("/low-stock", s.listLowStockProducts)
	products.Post("", s.createProduct)
	products.Get("/:id", s.getProduct)
	products.Put("/:id", s.updateProduct)
	products.Delete("/:id", s.deleteProduct)

	rackets := protected.Group("/rackets")
	rackets.Get("", s.listRackets)
	rackets.Post("", s.createRacket)
	rackets.Get("/:id", s.getRacket)
	rackets.Get("/:id/history", s.racketHistory)
	rackets.Put("/:id", s.updateRacket)
	rackets.Delete("/:id", s.deleteRacket)

	maintenance := protected.Group("/maintenance")
	maintenance.Get("", s.listMaintenance)
	maintenance.Post("", s.createMaintenance)
	maintenance.Get("/:id", s.getMaintenance)
	maintenance.Put("/:id", s.updateMaintenance)
	maintenance.Delete("/:id", auth.RequireAdmin(), s.deleteMaintenance)
}

func (s *Server) serviceInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"docs":    "/api/v1",
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
