package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/server/http/handlers"
	testhelpers "github.com/playvault/storefront/internal/test"
)

func newEngine(facade *testhelpers.StorefrontFacadeStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, logger)
}

func TestSetupRoutes(t *testing.T) {
	facade := &testhelpers.StorefrontFacadeStub{
		CustomerFacadeStub: testhelpers.CustomerFacadeStub{
			OrdersFn: func(context.Context, int64) ([]model.Order, error) {
				return []model.Order{{ID: "ord-1", Status: model.OrderStatusPending}}, nil
			},
		},
	}
	engine := newEngine(facade)

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	engine := newEngine(&testhelpers.StorefrontFacadeStub{})

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestAdminRoutesRequireGrant(t *testing.T) {
	facade := &testhelpers.StorefrontFacadeStub{}
	engine := newEngine(facade)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without grant, got %d", resp.Code)
	}

	facade.RequireAdminFn = func(context.Context, int64) error { return nil }
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.Code)
	}
}

func TestFunctionEndpoints(t *testing.T) {
	facade := &testhelpers.StorefrontFacadeStub{}
	engine := newEngine(facade)

	// admin-check is reachable without a session.
	body, _ := json.Marshal(map[string]int64{"userId": 7})
	req := httptest.NewRequest(http.MethodPost, "/api/functions/admin-check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin-check, got %d", resp.Code)
	}

	// the remaining function endpoints are gated.
	body, _ = json.Marshal(map[string]string{"orderId": "ord-1"})
	req = httptest.NewRequest(http.MethodPost, "/api/functions/deliver-account", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	facade.RequireAdminFn = func(context.Context, int64) error { return nil }
	req = httptest.NewRequest(http.MethodPost, "/api/functions/deliver-account", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for delivery, got %d", resp.Code)
	}
}

func TestPing(t *testing.T) {
	facade := &testhelpers.StorefrontFacadeStub{}
	engine := newEngine(facade)

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	facade.PingFn = func(context.Context) error { return context.DeadlineExceeded }
	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when storage is unreachable, got %d", resp.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	engine := newEngine(&testhelpers.StorefrontFacadeStub{})

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/user/register", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

var _ handlers.StorefrontFacade = (*testhelpers.StorefrontFacadeStub)(nil)
