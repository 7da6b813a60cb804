// Package api exposes a small read-only status server over the running bot:
// the latest signal, the simulation totals and the settled-bet history. It is
// optional and disabled when no listen address is configured.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/isaikinwork-a11y/BTC-BOT/internal/bot"
	"github.com/isaikinwork-a11y/BTC-BOT/internal/simulation"
)

// Server represents the status API server.
type Server struct {
	app  *fiber.App
	addr string
}

// NewServer creates the server and wires the routes.
func NewServer(addr string, b *bot.Bot, sim *simulation.Simulator) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "BTC-BOT status API",
		DisableStartupMessage: true,
	})

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	api.Get("/signal", func(c *fiber.Ctx) error {
		sig := b.LastSignal()
		if sig == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "no signal computed yet",
			})
		}
		return c.JSON(sig)
	})

	api.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(sim.Snapshot())
	})

	api.Get("/history", func(c *fiber.Ctx) error {
		return c.JSON(sim.History())
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
			"path":  c.Path(),
		})
	})

	return &Server{app: app, addr: addr}
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	return s.app.Listen(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
