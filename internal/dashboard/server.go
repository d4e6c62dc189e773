// Package dashboard serves the computed vulnerability index over HTTP:
// a JSON API plus a minimal HTML ranking page.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/socialmapbr/vulnidx/internal/config"
	"github.com/socialmapbr/vulnidx/internal/core"
)

// Repository is the slice of the store the dashboard reads from.
type Repository interface {
	Indices(limit int) ([]core.IndexRecord, error)
	IndexByID(id int64) (core.IndexRecord, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	app  *fiber.App
	cfg  *config.ServerEnvConfig
	repo Repository
}

// NewServer builds the dashboard server and registers its routes.
func NewServer(cfg *config.ServerEnvConfig, repo Repository) *Server {
	app := fiber.New(fiber.Config{
		Prefork:     false,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		BodyLimit:   cfg.BodySizeLimit,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestCompression}))

	s := &Server{app: app, cfg: cfg, repo: repo}
	app.Get("/health", s.handleHealth)
	app.Get("/api/indices", s.handleIndices)
	app.Get("/api/indices/:id", s.handleIndexByID)
	app.Get("/", s.handleHome)
	return s
}

// App exposes the fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port)
	go func() {
		if err := s.app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("dashboard listen failed")
		}
	}()
	log.Info().Str("addr", addr).Msg("dashboard started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}
