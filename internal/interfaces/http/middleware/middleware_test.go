package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/visitorpass/internal/infrastructure/auth"
	"github.com/orris-inc/visitorpass/internal/infrastructure/ratelimit"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", "visitorpass")
	valid, err := jwtSvc.Issue("usr_1", constants.RoleSecurity, time.Hour)
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/me", NewAuthMiddleware(jwtSvc, logger.Nop()).RequireAuth(), func(c *gin.Context) {
		actor := CurrentActor(c)
		c.String(http.StatusOK, actor.UserID+"|"+actor.Role)
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "usr_1|security"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, ""},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			w := serve(engine, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderXRequestID, "req-123")
		w := serve(engine, req)

		assert.Equal(t, "req-123", w.Body.String())
		assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))
	})

	t.Run("generates when absent", func(t *testing.T) {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get(constants.HeaderXRequestID))
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, ratelimit.RateLimitConfig) (bool, error) {
	return false, errors.New("redis down")
}

func (failingLimiter) GetRemaining(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func (failingLimiter) Reset(context.Context, string) error { return nil }

func TestRateLimiter(t *testing.T) {
	newEngine := func(limiter ratelimit.RateLimiter, perMinute int) *gin.Engine {
		engine := gin.New()
		engine.POST("/submit",
			func(c *gin.Context) { c.Set(constants.ContextKeyUserID, c.GetHeader("X-User")); c.Next() },
			NewRateLimiter(limiter, "visitor_submit", perMinute, logger.Nop()).Limit(),
			func(c *gin.Context) { c.Status(http.StatusCreated) },
		)
		return engine
	}

	submit := func(engine *gin.Engine, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-User", user)
		return serve(engine, req)
	}

	t.Run("limits per user", func(t *testing.T) {
		engine := newEngine(ratelimit.NewMemoryRateLimiter(), 2)

		assert.Equal(t, http.StatusCreated, submit(engine, "usr_1").Code)
		assert.Equal(t, http.StatusCreated, submit(engine, "usr_1").Code)

		w := submit(engine, "usr_1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get(constants.HeaderRetryAfter))

		assert.Equal(t, http.StatusCreated, submit(engine, "usr_2").Code)
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		engine := newEngine(failingLimiter{}, 1)
		assert.Equal(t, http.StatusCreated, submit(engine, "usr_1").Code)
	})

	t.Run("disabled when limit is zero", func(t *testing.T) {
		engine := newEngine(failingLimiter{}, 0)
		assert.Equal(t, http.StatusCreated, submit(engine, "usr_1").Code)
	})
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://desk.example.com"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://desk.example.com")
	w := serve(engine, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://desk.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.Nop()))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrMsgInternalServerError)
}
