package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/metrics"
)

func init() {
	logging.SetLogger(zap.NewNop())
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(claims.Subject + ":" + claims.Role))
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenService([]byte("secret"), "rndc-gateway")
	h := AuthMiddleware(tokens)(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := tokens.Issue("ana", auth.RoleOperator, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana:operator", rec.Body.String())
}

func TestAuthMiddleware_DisabledRunsAsAdmin(t *testing.T) {
	h := AuthMiddleware(nil)(IsAdminMiddleware()(http.HandlerFunc(whoAmI)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "dev:admin", rec.Body.String())
}

func TestIsAdminMiddleware_RejectsOperators(t *testing.T) {
	h := IsAdminMiddleware()(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodPut, "/", nil)
	req = req.WithContext(auth.SetUserClaims(req.Context(), &auth.Claims{Subject: "ana", Role: auth.RoleOperator}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// other clients have their own bucket
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.8:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsRegistry(reg)

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware, MetricsMiddleware(m), Logging)
	r.Get("/batches/{batchID}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(auth.GetRequestID(r.Context())))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/batches/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/batches/43", nil)
	req.Header.Set("X-Request-ID", "given")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "given", rec.Body.String())

	var metric dto.Metric
	require.NoError(t, m.HTTPRequestsTotal.WithLabelValues("/batches/{batchID}", "GET", "200").Write(&metric))
	assert.Equal(t, 2.0, metric.GetCounter().GetValue())
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/v1/batches/{id}/results.csv", NormalizeEndpoint("/api/v1/batches/4f9e1c2a-7b3d-4e5f-8a9b-0c1d2e3f4a5b/results.csv"))
	assert.Equal(t, "/api/v1/import/{id}", NormalizeEndpoint("/api/v1/import/123"))
	assert.Equal(t, "/api/v1/import/municipios", NormalizeEndpoint("/api/v1/import/municipios"))
}
