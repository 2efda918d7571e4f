package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/raas/backend/internal/application/billing"
	"github.com/raas/backend/internal/application/ingestion"
	"github.com/raas/backend/internal/domain/billing"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/infrastructure/auth"
	"github.com/raas/backend/internal/infrastructure/config"
	"github.com/raas/backend/internal/interfaces/http/handler"
	"github.com/raas/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())

	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		}).
		POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) })
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/test/items", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "test", w.Header().Get("X-Group"))
}

type stubUploads struct{}

func (stubUploads) CanUpload(role string) bool { return role == "ADMIN" }
func (stubUploads) Upload(context.Context, ingestion.UploadRequest) (*ingestion.UploadResult, error) {
	return nil, nil
}
func (stubUploads) GetBatch(context.Context, uuid.UUID) (*bulk.UploadBatch, error) { return nil, nil }
func (stubUploads) ListBatches(context.Context, bulk.UploadBatchFilter, int, int) (*bulk.UploadBatchListResult, error) {
	return &bulk.UploadBatchListResult{Page: 1, PageSize: 20}, nil
}

type stubInvoices struct{}

func (stubInvoices) Generate(context.Context, appbilling.GenerateRequest) (*billing.GenerationResult, error) {
	return &billing.GenerationResult{}, nil
}
func (stubInvoices) Recalculate(_ context.Context, inv billing.InvoiceData, _ billing.RateOverride) (billing.InvoiceData, error) {
	return inv, nil
}

type stubHistory struct{}

func (stubHistory) ForInstallation(context.Context, string, int) ([]*energy.PermanentEnergyRecord, error) {
	return nil, nil
}

type okPinger struct{}

func (okPinger) Ping() error { return nil }

func newTestEngine(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Minute,
		Issuer:                "raas-test",
	})
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = []string{"https://admin.raas.example"}

	engine, err := New(Config{
		JWTService:  jwtService,
		CORS:        cors,
		MaxBodySize: 1 << 10,
		AdminRoles:  []string{"ADMIN"},
		Metrics:     middleware.NewHTTPMetrics(),
	}, Handlers{
		Uploads:       handler.NewUploadHandler(stubUploads{}),
		Invoices:      handler.NewInvoiceHandler(stubInvoices{}),
		Installations: handler.NewInstallationHandler(stubHistory{}),
		System:        handler.NewSystemHandler(okPinger{}),
	})
	require.NoError(t, err)
	return engine, jwtService
}

func bearer(t *testing.T, svc *auth.JWTService, role string) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(auth.GenerateTokenInput{UserID: uuid.New(), Username: "op", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestNew_Routes(t *testing.T) {
	engine, jwtService := newTestEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics are public", http.MethodGet, "/metrics", "", http.StatusOK},
		{"api requires token", http.MethodGet, "/api/v1/uploads", "", http.StatusUnauthorized},
		{"list uploads", http.MethodGet, "/api/v1/uploads", bearer(t, jwtService, "VIEWER"), http.StatusOK},
		{"history", http.MethodGet, "/api/v1/installations/3001/history", bearer(t, jwtService, "VIEWER"), http.StatusOK},
		{"invoices need admin", http.MethodPost, "/api/v1/invoices/generate", bearer(t, jwtService, "VIEWER"), http.StatusForbidden},
		{"upload denied for viewer", http.MethodPost, "/api/v1/uploads", bearer(t, jwtService, "VIEWER"), http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/nothing", bearer(t, jwtService, "ADMIN"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNew_UploadBodyLimit(t *testing.T) {
	engine, jwtService := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", nil)
	req.ContentLength = 4 << 10
	req.Header.Set("Authorization", bearer(t, jwtService, "ADMIN"))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNew_CORSPreflight(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/uploads", nil)
	req.Header.Set("Origin", "https://admin.raas.example")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.raas.example", w.Header().Get("Access-Control-Allow-Origin"))
}
