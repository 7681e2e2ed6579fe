package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func corsRequest(t *testing.T, cfg CORSConfig, method, origin string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CORS(cfg)(okHandler())
	req := httptest.NewRequest(method, "/api/v1/decks", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS_PreflightRequest(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.comps.red"}

	rec := corsRequest(t, cfg, http.MethodOptions, "https://app.comps.red", map[string]string{
		"Access-Control-Request-Method": "POST",
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.comps.red", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_SimpleRequest(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"chrome-extension://abcdef"}

	rec := corsRequest(t, cfg, http.MethodGet, "chrome-extension://abcdef", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chrome-extension://abcdef", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-RateLimit-Limit")
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.comps.red"}

	rec := corsRequest(t, cfg, http.MethodGet, "https://evil.example.com", nil)

	assert.Equal(t, http.StatusOK, rec.Code, "request still served; browser enforces")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*"}

	rec := corsRequest(t, cfg, http.MethodGet, "https://anywhere.example.com", nil)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardWithCredentials(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*"}
	cfg.AllowCredentials = true

	rec := corsRequest(t, cfg, http.MethodGet, "https://app.comps.red", nil)

	// Credentials forbid the literal wildcard; echo the origin instead.
	assert.Equal(t, "https://app.comps.red", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_SubdomainWildcard(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*.comps.red"}
	cfg.AllowWildcard = true

	allowed := corsRequest(t, cfg, http.MethodGet, "https://staging.comps.red", nil)
	assert.Equal(t, "https://staging.comps.red", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := corsRequest(t, cfg, http.MethodGet, "https://comps.red.evil.com", nil)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NoOriginHeader(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.comps.red"}

	rec := corsRequest(t, cfg, http.MethodGet, "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_VaryHeader(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://app.comps.red"}

	rec := corsRequest(t, cfg, http.MethodGet, "https://app.comps.red", nil)

	assert.Contains(t, rec.Header().Values("Vary"), "Origin")
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowedOrigins)
	assert.Contains(t, cfg.AllowedMethods, http.MethodDelete)
	assert.Contains(t, cfg.AllowedHeaders, "Content-Type")
	assert.False(t, cfg.AllowCredentials)
	assert.Equal(t, 86400, cfg.MaxAge)
}

//Personal.AI order the ending
