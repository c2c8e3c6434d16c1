package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/api/handlers"
	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/profile"
	"github.com/Plantrich-blimp/plantrich-app/pkg/config"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

type staticCatalogs []contracts.Product

func (s staticCatalogs) Load(ctx context.Context, pt contracts.ProductType) (contracts.Catalog, error) {
	if pt != contracts.ProductMutualFunds {
		return contracts.Catalog{ProductType: pt, Products: []contracts.Product{}}, nil
	}
	return contracts.Catalog{ProductType: pt, Products: s, Fingerprint: "static"}, nil
}

type emptyBook struct{}

func (emptyBook) Sheets(ctx context.Context) ([]string, error) { return []string{}, nil }

func (emptyBook) Section(ctx context.Context, name string) (contracts.Table, error) {
	return contracts.Table{Name: name}, nil
}

type noChange struct{}

func (noChange) Refresh(ctx context.Context) (bool, error) { return false, nil }

func newTestRouter(t *testing.T, rl config.RateLimitConfig, origins ...string) http.Handler {
	t.Helper()
	log := logger.Nop()
	f := contracts.Float
	svc := advisor.NewService(profile.Defaults(), staticCatalogs{
		{Name: "Alpha Bluechip", Category: "LargeCap", CAGR: f(12), Rating: f(4)},
		{Name: "Gamma Gilt", Category: "Debt", CAGR: f(7), Rating: f(3)},
	}, nil, advisor.Options{}, log)

	return NewRouter(Handlers{
		Advisor:    handlers.NewAdvisorHandler(svc, log),
		Onboarding: handlers.NewOnboardingHandler(emptyBook{}, log),
		Catalog:    handlers.NewCatalogHandler(noChange{}, log),
		Session:    handlers.NewSessionHandler(svc, origins, log),
	}, rl, origins, log)
}

func generousLimits() config.RateLimitConfig {
	return config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000}
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t, generousLimits())

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/profiles", "", http.StatusOK},
		{http.MethodGet, "/api/profiles/Aggressive", "", http.StatusOK},
		{http.MethodPost, "/api/allocation", `{"profile":"Moderate","amount":50000}`, http.StatusOK},
		{http.MethodGet, "/api/products/mf?category=Debt", "", http.StatusOK},
		{http.MethodPost, "/api/projection", `{"principal":1000,"rate":8}`, http.StatusOK},
		{http.MethodPost, "/api/recommendations", `{"profile":"Moderate","amount":50000,"picks":[{"fund":"Gamma Gilt","amount":10000}]}`, http.StatusCreated},
		{http.MethodGet, "/api/recommendations", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/onboarding", "", http.StatusOK},
		{http.MethodGet, "/api/onboarding/KYC", "", http.StatusOK},
		{http.MethodPost, "/api/catalog/refresh", "", http.StatusOK},
		{http.MethodDelete, "/api/profiles", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t, generousLimits())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, logger.ServiceName, body["service"])
}

func TestRouter_RateLimit(t *testing.T) {
	router := newTestRouter(t, config.RateLimitConfig{RequestsPerSecond: 0.5, Burst: 2})

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001").Code)

	limited := send("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "3", limited.Header().Get("Retry-After"))

	// Buckets are per client IP
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)

	// Health checks are never limited
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1003"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter(t, generousLimits(), "https://app.plantrich.in")

	preflight := httptest.NewRequest(http.MethodOptions, "/api/allocation", nil)
	preflight.Header.Set("Origin", "https://app.plantrich.in")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, preflight)

	assert.Equal(t, "https://app.plantrich.in", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("sheet exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sheet exploded")
}

func TestSessionWebsocket(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, generousLimits()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteJSON(handlers.SessionRequest{Seq: 1, Profile: "Moderate", Amount: 100000}))
	var view handlers.SessionView
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, 1, view.Seq)
	assert.Empty(t, view.Error)
	require.NotNil(t, view.Allocation)
	assert.Equal(t, 100000.0, view.Allocation.TotalAmount())

	// An invalid widget state answers with an error and keeps the socket open
	require.NoError(t, conn.WriteJSON(handlers.SessionRequest{Seq: 2, Profile: "Unknown", Amount: 100000}))
	view = handlers.SessionView{}
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, 2, view.Seq)
	assert.Equal(t, http.StatusBadRequest, view.Status)

	require.NoError(t, conn.WriteJSON(handlers.SessionRequest{
		Seq:     3,
		Profile: "Moderate",
		Amount:  100000,
		Picks:   []advisor.Pick{{Fund: "Alpha Bluechip", Amount: 30000}},
	}))
	view = handlers.SessionView{}
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, 3, view.Seq)
	require.NotNil(t, view.Recommendation)
	assert.Len(t, view.Recommendation.Rows, 1)
}
