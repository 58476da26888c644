package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockIssuer struct {
	issueFn func(ctx context.Context, link, notifyEmail string) (*model.Link, error)
}

func (m *mockIssuer) Issue(ctx context.Context, link, notifyEmail string) (*model.Link, error) {
	if m.issueFn != nil {
		return m.issueFn(ctx, link, notifyEmail)
	}
	return &model.Link{ID: 1, Link: link, Secret: "abc123"}, nil
}

type mockLinkStore struct {
	getFn func(ctx context.Context, id int64) (*model.Link, error)
}

func (m *mockLinkStore) Create(ctx context.Context, link *model.Link) error { return nil }

func (m *mockLinkStore) GetByID(ctx context.Context, id int64) (*model.Link, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrLinkNotFound
}

func newAPITestApp(deps APIDeps) *fiber.App {
	app := fiber.New()
	NewAPIHandler(deps).Register(app)
	return app
}

func TestAPIHandler_IssueLink(t *testing.T) {
	app := newAPITestApp(APIDeps{
		Issuer:   &mockIssuer{},
		BaseURL:  "http://localhost:8080",
		QRAPIURL: "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=",
	})

	payload, _ := json.Marshal(IssueLinkRequest{Link: "www.example.org", Email: "me@example.org"})
	req := httptest.NewRequest("POST", "/api/links", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body IssueLinkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(1), body.ID)
	assert.Equal(t, "abc123", body.Secret)
	assert.Equal(t, "http://localhost:8080/resolve?id=1&secret=abc123", body.ResolveURL)
	assert.Contains(t, body.QRURL, "api.qrserver.com")
	assert.Contains(t, body.QRURL, "resolve%3Fid%3D1")
}

func TestAPIHandler_IssueLink_RequiresLink(t *testing.T) {
	app := newAPITestApp(APIDeps{Issuer: &mockIssuer{}})

	req := httptest.NewRequest("POST", "/api/links", bytes.NewReader([]byte(`{"email":"me@example.org"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAPIHandler_GetLink_NeverExposesSecret(t *testing.T) {
	app := newAPITestApp(APIDeps{
		Links: &mockLinkStore{
			getFn: func(ctx context.Context, id int64) (*model.Link, error) {
				return &model.Link{ID: 1, Link: "www.example.org", Secret: "abc123", CreatedAt: time.Now()}, nil
			},
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/links/1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "www.example.org")
	assert.NotContains(t, string(body), "abc123")
}

func TestAPIHandler_GetLink_NotFound(t *testing.T) {
	app := newAPITestApp(APIDeps{Links: &mockLinkStore{}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/links/999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAPIHandler_ListScans(t *testing.T) {
	scans := &recordingScanRepository{
		created: []model.Scan{
			{CodeID: 1, Success: true, Date: "6/9/2024, 3:04:05 PM"},
		},
	}
	app := newAPITestApp(APIDeps{Scans: scans})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/links/1/scans", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIHandler_ListScans_BadID(t *testing.T) {
	app := newAPITestApp(APIDeps{Scans: &recordingScanRepository{}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/links/abc/scans", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
