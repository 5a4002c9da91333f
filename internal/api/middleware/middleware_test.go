package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"staffline/backend/config"
	"staffline/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager(secret string) *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      secret,
		AccessTokenTTL: time.Minute,
		Issuer:         "staffline",
	})
}

func protectedEngine(mgr *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", JWTAuth(mgr, nil, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	mgr := newManager("test-secret-0123456789")
	valid, err := mgr.GenerateAccessToken("user-a", 0)
	require.NoError(t, err)
	forged, err := newManager("another-secret-987654").GenerateAccessToken("user-a", 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"缺少认证头", "", http.StatusUnauthorized},
		{"格式错误", "Token " + valid, http.StatusUnauthorized},
		{"签名不符", "Bearer " + forged, http.StatusUnauthorized},
		{"有效", "Bearer " + valid, http.StatusOK},
		{"大小写不敏感", "bearer " + valid, http.StatusOK},
	}

	r := protectedEngine(mgr)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user-a", w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := protectedEngine(newManager("test-secret-0123456789"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, strings.Repeat("x", 100), w.Header().Get("X-Request-ID"))
}

func TestRateLimit_WithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/pickup", RateLimit(nil, 1, time.Minute, ByUser, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/pickup", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestByUser(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pickup", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "ip:10.0.0.1", ByUser(c))
	c.Set(ContextUserID, "user-a")
	assert.Equal(t, "user:user-a", ByUser(c))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/drop", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/drop", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/drop", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.staffline.test/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.staffline.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.staffline.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
