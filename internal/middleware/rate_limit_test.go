package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/middleware"
)

func rateLimitedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/batch",
		func(c *gin.Context) {
			if u := c.GetHeader("X-Test-User"); u != "" {
				c.Set("user_id", u)
			}
		},
		middleware.RateLimitByUser(1, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func doPost(r *gin.Engine, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/batch", nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitByUserRejectsBeyondBurst(t *testing.T) {
	r := rateLimitedRouter()

	assert.Equal(t, http.StatusOK, doPost(r, "scheduler").Code)
	assert.Equal(t, http.StatusTooManyRequests, doPost(r, "scheduler").Code)
}

func TestRateLimitByUserIsolatesCallers(t *testing.T) {
	r := rateLimitedRouter()

	assert.Equal(t, http.StatusOK, doPost(r, "scheduler").Code)
	assert.Equal(t, http.StatusOK, doPost(r, "operator").Code)
}

func TestRateLimitByUserSkipsAnonymousRequests(t *testing.T) {
	r := rateLimitedRouter()

	assert.Equal(t, http.StatusOK, doPost(r, "").Code)
	assert.Equal(t, http.StatusOK, doPost(r, "").Code)
}

func TestRateLimitByIPThrottlesPerAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/batch",
		middleware.RateLimitByIP(1, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	assert.Equal(t, http.StatusOK, doPost(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doPost(r, "").Code)
}
