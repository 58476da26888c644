package handler

import (
	"context"
	"time"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/metrics"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/service"
	"github.com/beijingsoftware/QR-Code-Database/internal/http/view"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// User-facing messages. Every outcome renders a page; nothing more specific
// than these ever leaves the service.
const (
	msgInvalidParams = "Invalid request parameters."
	msgInvalidSecret = "Invalid secret."
	msgFetchError    = "Error fetching data."
)

// ResolveDeps groups dependencies required by the resolve handler.
type ResolveDeps struct {
	Logger   *zap.Logger
	Resolver service.Resolver
	Scans    *service.ScanLogger
	Postgres *pgxpool.Pool
}

// ResolveHandler serves the redemption endpoint: verify the presented
// secret, render the destination, and leave exactly one scan entry behind.
type ResolveHandler struct {
	logger   *zap.Logger
	resolver service.Resolver
	scans    *service.ScanLogger
	postgres *pgxpool.Pool
}

// NewResolveHandler creates a resolve handler with the provided dependencies.
func NewResolveHandler(deps ResolveDeps) *ResolveHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolveHandler{
		logger:   logger,
		resolver: deps.Resolver,
		scans:    deps.Scans,
		postgres: deps.Postgres,
	}
}

// Register wires resolution routes onto the provided router.
func (h *ResolveHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Get("/resolve", h.Resolve)
}

// Health reports service liveness, including store reachability.
func (h *ResolveHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK

	if h.postgres != nil {
		ctx, cancel := context.WithTimeout(userContext(c), healthPingTimeout)
		defer cancel()
		if err := h.postgres.Ping(ctx); err != nil {
			h.logger.Error("health check: postgres unreachable", zap.Error(err))
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"service": "qr-code-database",
		"status":  status,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Resolve handles GET /resolve?id=&secret=.
//
// Requests missing either parameter are turned away before any store access
// and are never audited. Everything else runs through resolution and then
// the scan logger, whatever the outcome.
func (h *ResolveHandler) Resolve(c *fiber.Ctx) error {
	rawID := c.Query("id")
	secret := c.Query("secret")
	if rawID == "" || secret == "" {
		return h.renderMessage(c, fiber.StatusBadRequest, msgInvalidParams)
	}

	ctx := userContext(c)

	res := h.resolver.Resolve(ctx, rawID, secret)
	h.scans.RecordAttempt(ctx, res)
	metrics.ResolveAttempts.WithLabelValues(string(res.Outcome)).Inc()

	switch res.Outcome {
	case service.OutcomeResolved:
		html, err := view.RenderLinkPage(view.LinkPageData{Link: res.Link})
		if err != nil {
			h.logger.Error("failed to render link page", zap.Error(err))
			return h.renderMessage(c, fiber.StatusInternalServerError, msgFetchError)
		}
		return c.Type("html", "utf-8").SendString(html)

	case service.OutcomeRejected:
		if res.Reason == service.ReasonSecretMismatch {
			return h.renderMessage(c, fiber.StatusUnauthorized, msgInvalidSecret)
		}
		return h.renderMessage(c, fiber.StatusBadRequest, msgInvalidParams)

	default:
		return h.renderMessage(c, fiber.StatusNotFound, msgFetchError)
	}
}

func (h *ResolveHandler) renderMessage(c *fiber.Ctx, status int, message string) error {
	html, err := view.RenderMessagePage(message)
	if err != nil {
		h.logger.Error("failed to render message page", zap.Error(err))
		return c.Status(status).SendString(message)
	}
	return c.Status(status).Type("html", "utf-8").SendString(html)
}

func userContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
