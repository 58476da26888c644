package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	resolveFn func(ctx context.Context, rawID, presentedSecret string) service.Resolution
	calls     int
}

func (m *mockResolver) Resolve(ctx context.Context, rawID, presentedSecret string) service.Resolution {
	m.calls++
	if m.resolveFn != nil {
		return m.resolveFn(ctx, rawID, presentedSecret)
	}
	return service.Resolution{Outcome: service.OutcomeNotFound}
}

type recordingScanRepository struct {
	createErr error
	created   []model.Scan
}

func (r *recordingScanRepository) Create(ctx context.Context, scan *model.Scan) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *scan)
	return nil
}

func (r *recordingScanRepository) ListByCodeID(ctx context.Context, codeID int64, limit, offset int) ([]model.Scan, error) {
	return nil, nil
}

func (r *recordingScanRepository) CountByCodeID(ctx context.Context, codeID int64) (int64, int64, error) {
	return 0, 0, nil
}

func newResolveTestApp(t *testing.T, resolver service.Resolver, scans repository.ScanRepository) *fiber.App {
	t.Helper()
	scanLog, err := service.NewScanLogger(scans, nil, service.ScanLoggerOptions{Timezone: "UTC"})
	require.NoError(t, err)

	app := fiber.New()
	h := NewResolveHandler(ResolveDeps{Resolver: resolver, Scans: scanLog})
	h.Register(app)
	return app
}

func TestResolveHandler_MissingParameters(t *testing.T) {
	resolver := &mockResolver{}
	scans := &recordingScanRepository{}
	app := newResolveTestApp(t, resolver, scans)

	for _, target := range []string{"/resolve", "/resolve?id=1", "/resolve?secret=abc"} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
		assert.Contains(t, string(body), "Invalid request parameters.", target)
	}

	// No resolution and no audit entry for requests turned away at the door.
	assert.Zero(t, resolver.calls)
	assert.Empty(t, scans.created)
}

func TestResolveHandler_Success(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, rawID, presentedSecret string) service.Resolution {
			return service.Resolution{
				Outcome: service.OutcomeResolved,
				CodeID:  1,
				Link:    "http://www.example.org",
			}
		},
	}
	scans := &recordingScanRepository{}
	app := newResolveTestApp(t, resolver, scans)

	resp, err := app.Test(httptest.NewRequest("GET", "/resolve?id=1&secret=abc123", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `href="http://www.example.org"`)

	require.Len(t, scans.created, 1)
	assert.Equal(t, int64(1), scans.created[0].CodeID)
	assert.True(t, scans.created[0].Success)
	assert.NotEmpty(t, scans.created[0].Date)
}

func TestResolveHandler_SecretMismatch(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, rawID, presentedSecret string) service.Resolution {
			return service.Resolution{
				Outcome: service.OutcomeRejected,
				CodeID:  1,
				Reason:  service.ReasonSecretMismatch,
			}
		},
	}
	scans := &recordingScanRepository{}
	app := newResolveTestApp(t, resolver, scans)

	resp, err := app.Test(httptest.NewRequest("GET", "/resolve?id=1&secret=wrong", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Invalid secret.")

	require.Len(t, scans.created, 1)
	assert.Equal(t, int64(1), scans.created[0].CodeID)
	assert.False(t, scans.created[0].Success)
}

func TestResolveHandler_NotFound(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, rawID, presentedSecret string) service.Resolution {
			return service.Resolution{Outcome: service.OutcomeNotFound, CodeID: 999}
		},
	}
	scans := &recordingScanRepository{}
	app := newResolveTestApp(t, resolver, scans)

	resp, err := app.Test(httptest.NewRequest("GET", "/resolve?id=999&secret=anything", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Error fetching data.")

	require.Len(t, scans.created, 1)
	assert.Equal(t, int64(999), scans.created[0].CodeID)
	assert.False(t, scans.created[0].Success)
}

func TestResolveHandler_AuditFailureDoesNotChangeResponse(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, rawID, presentedSecret string) service.Resolution {
			return service.Resolution{
				Outcome: service.OutcomeResolved,
				CodeID:  1,
				Link:    "http://www.example.org",
			}
		},
	}
	scans := &recordingScanRepository{
		createErr: &repository.StorageWriteError{Table: "scans", Err: errors.New("disk full")},
	}
	app := newResolveTestApp(t, resolver, scans)

	resp, err := app.Test(httptest.NewRequest("GET", "/resolve?id=1&secret=abc123", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	// The requester still gets the resolved page.
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `href="http://www.example.org"`)
	assert.Empty(t, scans.created)
}

func TestResolveHandler_Health(t *testing.T) {
	app := newResolveTestApp(t, &mockResolver{}, &recordingScanRepository{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
