package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "payroll-secret"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, subject string) string {
	t.Helper()
	claims := ActorClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func resolveActor(t *testing.T, headers map[string]string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Actor(testSecret, "system", nil))
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = ActorFromContext(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	return seen
}

func TestActorFromBearerToken(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, []byte(testSecret), "accountant-7")

	actor := resolveActor(t, map[string]string{"Authorization": "Bearer " + token, ActorHeader: "header-user"})
	assert.Equal(t, "accountant-7", actor)
}

func TestActorIgnoresBadToken(t *testing.T) {
	forged := signed(t, jwt.SigningMethodHS256, []byte("other"), "mallory")

	assert.Equal(t, "header-user", resolveActor(t, map[string]string{"Authorization": "Bearer " + forged, ActorHeader: "header-user"}))
	assert.Equal(t, "system", resolveActor(t, map[string]string{"Authorization": "Bearer not-a-token"}))
	assert.Equal(t, "system", resolveActor(t, map[string]string{"Authorization": "Basic abc"}))
}

func TestActorHeaderAndFallback(t *testing.T) {
	assert.Equal(t, "head-1", resolveActor(t, map[string]string{ActorHeader: " head-1 "}))
	assert.Equal(t, "system", resolveActor(t, nil))
}

func TestResponseMetaCarriesCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(WithResponseMeta())
	var meta map[string]interface{}
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, meta)
	assert.Equal(t, true, meta[cacheHitKey])
	assert.Contains(t, meta, "processing_time_ms")
}
