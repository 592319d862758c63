package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"snapgram/internal/core/apperr"
	"snapgram/internal/core/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubVerifier struct {
	claims *session.Claims
	err    error
	seen   string
}

func (s *stubVerifier) Verify(_ context.Context, raw string) (*session.Claims, error) {
	s.seen = raw
	return s.claims, s.err
}

func serve(verifier TokenVerifier, req *http.Request) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var userID string
	r.GET("/", JWTAuthMiddleware(verifier, zap.NewNop()), func(c *gin.Context) {
		userID = c.GetString("userID")
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, userID
}

func TestCookieWinsOverHeader(t *testing.T) {
	v := &stubVerifier{claims: &session.Claims{UserID: "u1", TokenID: "t1"}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")

	w, userID := serve(v, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "from-cookie", v.seen)
}

func TestBearerHeaderFallback(t *testing.T) {
	v := &stubVerifier{claims: &session.Claims{UserID: "u1", TokenID: "t1"}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")

	w, _ := serve(v, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", v.seen)
}

func TestUnauthenticatedIs401(t *testing.T) {
	v := &stubVerifier{err: apperr.New(apperr.ErrUnauthorized, "Unauthenticated user!")}
	w, userID := serve(v, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, userID)
	assert.Contains(t, w.Body.String(), "Unauthenticated user!")
}

func TestVerifierFailureIs500(t *testing.T) {
	v := &stubVerifier{err: errors.New("redis: connection refused")}
	w, _ := serve(v, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "redis")
}
