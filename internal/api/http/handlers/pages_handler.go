package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// PagesHandler serves minimal HTML shells for the browser-facing routes.
// The shells bootstrap the client app, which talks to the JSON API; route
// gating happens in middleware before these run.
type PagesHandler struct {
	appName string
}

// NewPagesHandler constructs handler.
func NewPagesHandler(appName string) *PagesHandler {
	return &PagesHandler{appName: appName}
}

// Login GET /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return h.shell(c, "login")
}

// Dashboard GET /dashboard and nested paths.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	return h.shell(c, "dashboard")
}

// Wizard GET /wizard and nested paths.
func (h *PagesHandler) Wizard(c *fiber.Ctx) error {
	return h.shell(c, "wizard")
}

func (h *PagesHandler) shell(c *fiber.Ctx, page string) error {
	c.Type("html")
	return c.SendString(fmt.Sprintf(
		`<!doctype html><html><head><title>%s</title></head><body><div id="app" data-page=%q></div></body></html>`,
		h.appName, page))
}
