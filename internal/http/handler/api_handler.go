package handler

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger   *zap.Logger
	Issuer   service.Issuer
	Links    repository.LinkRepository
	Scans    repository.ScanRepository
	BaseURL  string
	QRAPIURL string
}

// APIHandler implements the management API endpoints.
type APIHandler struct {
	logger   *zap.Logger
	issuer   service.Issuer
	links    repository.LinkRepository
	scans    repository.ScanRepository
	baseURL  string
	qrAPIURL string
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:   logger,
		issuer:   deps.Issuer,
		links:    deps.Links,
		scans:    deps.Scans,
		baseURL:  deps.BaseURL,
		qrAPIURL: deps.QRAPIURL,
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		links := api.Group("/links")
		{
			links.Post("/", h.IssueLink)
			links.Get("/:id", h.GetLink)
			links.Get("/:id/scans", h.ListScans)
		}
	}
}

// IssueLinkRequest represents the request body for issuing a link.
type IssueLinkRequest struct {
	Link  string `json:"link"`
	Email string `json:"email,omitempty"`
}

// IssueLinkResponse is the one surface that ever carries the secret.
type IssueLinkResponse struct {
	ID         uint      `json:"id"`
	Secret     string    `json:"secret"`
	Link       string    `json:"link"`
	ResolveURL string    `json:"resolve_url"`
	QRURL      string    `json:"qr_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// IssueLink handles POST /api/links
func (h *APIHandler) IssueLink(c *fiber.Ctx) error {
	var req IssueLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Link == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "link is required",
		})
	}

	link, err := h.issuer.Issue(userContext(c), req.Link, req.Email)
	if err != nil {
		h.logger.Error("failed to issue link", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue link",
		})
	}

	resolveURL := service.ResolveURL(h.baseURL, int64(link.ID), link.Secret)

	return c.Status(fiber.StatusCreated).JSON(IssueLinkResponse{
		ID:         link.ID,
		Secret:     link.Secret,
		Link:       link.Link,
		ResolveURL: resolveURL,
		QRURL:      h.qrAPIURL + url.QueryEscape(resolveURL),
		CreatedAt:  link.CreatedAt,
	})
}

// LinkResponse carries link metadata without the secret.
type LinkResponse struct {
	ID        uint      `json:"id"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// GetLink handles GET /api/links/:id
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	id, ok := parseCodeID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a positive integer",
		})
	}

	link, err := h.links.GetByID(userContext(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to get link", zap.Int64("code_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(LinkResponse{
		ID:        link.ID,
		Link:      link.Link,
		CreatedAt: link.CreatedAt,
	})
}

// ListScans handles GET /api/links/:id/scans
func (h *APIHandler) ListScans(c *fiber.Ctx) error {
	id, ok := parseCodeID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a positive integer",
		})
	}

	limit := 50
	offset := 0
	if parsed := c.QueryInt("limit"); parsed > 0 && parsed <= 200 {
		limit = parsed
	}
	if parsed := c.QueryInt("offset"); parsed > 0 {
		offset = parsed
	}

	ctx := userContext(c)

	scans, err := h.scans.ListByCodeID(ctx, id, limit, offset)
	if err != nil {
		h.logger.Error("failed to list scans", zap.Int64("code_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	total, succeeded, err := h.scans.CountByCodeID(ctx, id)
	if err != nil {
		h.logger.Error("failed to count scans", zap.Int64("code_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"code_id":   id,
		"scans":     scans,
		"total":     total,
		"succeeded": succeeded,
		"limit":     limit,
		"offset":    offset,
	})
}

func parseCodeID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
