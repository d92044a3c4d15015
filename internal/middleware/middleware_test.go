package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteOrigin = "https://giftwrapjax.example.com"

func newCORSTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware(siteOrigin))
	engine.GET("/api/v1/settings/bookings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"enabled": true})
	})
	return engine
}

func TestCORS_AllowsSiteOrigin(t *testing.T) {
	engine := newCORSTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/bookings", nil)
	req.Header.Set("Origin", siteOrigin)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, siteOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Values("Vary"), "Origin",
		"responses must vary by origin so caches cannot replay the ACAO header")
}

func TestCORS_PreflightFromSiteOrigin(t *testing.T) {
	engine := newCORSTestEngine()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/settings/bookings", nil)
	req.Header.Set("Origin", siteOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, siteOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_RejectsForeignOrigin(t *testing.T) {
	engine := newCORSTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/bookings", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
