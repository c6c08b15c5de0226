package server

import (
	"context"
	"fmt"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/sirupsen/logrus"
	"go-reconx/config"
	"go-reconx/database"
	"go-reconx/plugin"
	"go-reconx/report"
	"go-reconx/resolver"
	"go-reconx/web"
	"os"
	"os/signal"
	"syscall"
)

// Server bundles the fiber app with its handler.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	h      *Handler
	cancel context.CancelFunc
}

// New prepares the fiber app and its routes. reports may be nil to disable
// PDF generation.
func New(cfg *config.Config, pm *plugin.Manager, reports *report.Generator) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	// Initiate HTTP Handler
	h := &Handler{
		pm:       pm,
		reports:  reports,
		resolver: resolver.New(cfg.Resolver.Heuristics()),
		ctx:      ctx,
	}

	// Prepare fiber app
	app := fiber.New(fiber.Config{AppName: "ReconX"})

	c := cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
		AllowOrigins: cfg.Server.AllowedOrigins,
	})
	app.Use("/api", c)
	app.Use("/reports", c)

	// Define routes
	api := app.Group("/api")
	api.Post("/scan", h.ScanHandler)
	api.Get("/resolve", h.ResolveHandler)
	api.Get("/scans", h.HistoryHandler)
	api.Get("/scans/:id", h.ScanDetailHandler)
	api.Get("/plugins", h.EnabledPluginsHandler)
	api.Post("/settings", h.SettingsHandler)
	api.Get("/reports", h.ReportsHandler)

	app.Get("/reports/:name", h.ReportFileHandler)

	app.Get("/*", newDashboard(web.FS()))

	return &Server{app: app, cfg: cfg, h: h, cancel: cancel}
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown is called.
func (s *Server) Listen() error {
	logrus.Infof("Listening on %s", s.cfg.Server.Listen)
	return s.app.Listen(s.cfg.Server.Listen)
}

// Shutdown stops running scans and the listener.
func (s *Server) Shutdown() error {
	s.cancel()
	return s.app.Shutdown()
}

// Start opens the database, builds the plugins and serves the API until
// SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	// Initiate database
	db, err := database.New(cfg.Server.Database)
	if err != nil {
		return fmt.Errorf("couldn't create database: %w", err)
	}
	defer db.Close()

	pm := plugin.NewManager(db, cfg)
	logrus.Infof("Enabled plugins: %v", pm.Names())

	var reports *report.Generator
	if cfg.Report.Enabled {
		reports = report.NewGenerator(cfg.Server.ReportDir, &report.ChromeRenderer{
			ExecPath: cfg.Report.ChromePath,
			Timeout:  cfg.Report.Timeout,
		})
	}

	s := New(cfg, pm, reports)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logrus.Info("Shutting down")
		if err := s.Shutdown(); err != nil {
			logrus.WithError(err).Error("Shutdown failed")
		}
	}()

	return s.Listen()
}
