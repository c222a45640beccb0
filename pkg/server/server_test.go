package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/bubbles/bubblestest"
	"github.com/soundprediction/bubbles/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
			Mode: gin.TestMode,
		},
	}
}

func newTestServer(t *testing.T) (*Server, *bubblestest.Store) {
	t.Helper()
	store := bubblestest.New()
	s := New(testConfig(), store, nil)
	s.Setup()
	return s, store
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	s := New(cfg, nil, nil)

	require.NotNil(t, s)
	assert.Same(t, cfg, s.config)
	assert.NotNil(t, s.logger)
}

func TestSetup(t *testing.T) {
	s, _ := newTestServer(t)

	require.NotNil(t, s.router)
	require.NotNil(t, s.server)
	assert.Equal(t, "localhost:8080", s.server.Addr)
}

func TestRootRedirects(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/bubbles", w.Header().Get("Location"))
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestBubbleRoutes(t *testing.T) {
	s, store := newTestServer(t)
	h := s.Handler()

	post := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := post("/bubbles", url.Values{"title": {"Alpha"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = post("/bubbles", url.Values{"title": {"Beta"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = post("/bubbles/Alpha/relate", url.Values{"other": {"Beta"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, store.Related("Alpha", "Beta"))
	assert.False(t, store.Related("Beta", "Alpha"))

	w = post("/bubbles/Beta/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, store.Related("Alpha", "Beta"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bubbles/Beta", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPanicRecovery(t *testing.T) {
	s, _ := newTestServer(t)
	s.router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}
