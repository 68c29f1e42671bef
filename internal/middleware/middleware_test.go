package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminEngine() *gin.Engine {
	r := gin.New()
	r.GET("/admin", JWTAuth(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Username)
	})
	r.GET("/users", JWTAuth(testSecret), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTAuth_AcceptsAdminToken(t *testing.T) {
	token := sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "username": "sarra", "role": "admin", "kind": service.TokenAdmin})
	w := do(adminEngine(), http.MethodGet, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sarra", w.Body.String())
}

func TestJWTAuth_RejectsMissingHeader(t *testing.T) {
	w := do(adminEngine(), http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_RejectsRefreshAndClientTokens(t *testing.T) {
	refresh := sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "kind": service.TokenAdminRefresh})
	client := sign(t, jwt.MapClaims{"client_id": uuid.NewString(), "kind": service.TokenClient})

	assert.Equal(t, http.StatusUnauthorized, do(adminEngine(), http.MethodGet, "/admin", refresh).Code)
	assert.Equal(t, http.StatusUnauthorized, do(adminEngine(), http.MethodGet, "/admin", client).Code)
}

func TestJWTAuth_RejectsWrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin", "kind": service.TokenAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(adminEngine(), http.MethodGet, "/admin", token).Code)
}

func TestRequireRole(t *testing.T) {
	manager := sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "role": "manager", "kind": service.TokenAdmin})
	admin := sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "role": "admin", "kind": service.TokenAdmin})

	assert.Equal(t, http.StatusForbidden, do(adminEngine(), http.MethodGet, "/users", manager).Code)
	assert.Equal(t, http.StatusOK, do(adminEngine(), http.MethodGet, "/users", admin).Code)
}

func TestClientJWTAuth(t *testing.T) {
	id := uuid.New()
	r := gin.New()
	r.GET("/me", ClientJWTAuth(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, GetClientID(c).String())
	})

	token := sign(t, jwt.MapClaims{"client_id": id.String(), "kind": service.TokenClient})
	w := do(r, http.MethodGet, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	adminToken := sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "role": "admin", "kind": service.TokenAdmin})
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", adminToken).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := do(r, http.MethodGet, "/", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestWindowLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newWindowLimiter("test", 2, time.Minute)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.allow("1.2.3.4")
	assert.False(t, ok)
	ok, _ = l.allow("5.6.7.8")
	assert.True(t, ok, "keys are independent")

	now = now.Add(2 * time.Minute)
	ok, _ = l.allow("1.2.3.4")
	assert.True(t, ok, "new window")
	assert.Equal(t, 1, l.purge())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Erreur interne")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestJWTAuth_QueryTokenOnlyOnUpgrade(t *testing.T) {
	token := sign(t, jwt.MapClaims{"user_id": uuid.NewString(), "username": "sarra", "role": "admin", "kind": service.TokenAdmin})

	w := do(adminEngine(), http.MethodGet, "/admin?access_token="+token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin?access_token="+token, nil)
	req.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	adminEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
