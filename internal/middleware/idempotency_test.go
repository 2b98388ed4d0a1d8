package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave-ledger/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func newIdempotencyRouter(t *testing.T) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.Use(middleware.Idempotency(rdb))
	r.POST("/leaves", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r, mock
}

func cachedPayload(t *testing.T, status int, body string) string {
	t.Helper()
	raw, err := json.Marshal(struct {
		Status int    `json:"status"`
		Body   string `json:"body"`
	}{status, body})
	assert.NoError(t, err)
	return string(raw)
}

func TestIdempotency(t *testing.T) {
	cacheKey := "idemp:/leaves:key-1"
	lockKey := cacheKey + ":lock"

	t.Run("first request caches the status alongside the body", func(t *testing.T) {
		r, mock := newIdempotencyRouter(t)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, cachedPayload(t, http.StatusCreated, `{"ok":true}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, w.Header().Get("Idempotency-Replayed"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay keeps the original status", func(t *testing.T) {
		r, mock := newIdempotencyRouter(t)

		mock.ExpectGet(cacheKey).SetVal(cachedPayload(t, http.StatusCreated, `{"ok":true}`))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotency-Replayed"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bare cached body replays as 200", func(t *testing.T) {
		r, mock := newIdempotencyRouter(t)

		mock.ExpectGet(cacheKey).SetVal(`{"ok":true}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotency-Replayed"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("duplicate in flight is rejected", func(t *testing.T) {
		r, mock := newIdempotencyRouter(t)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
	})

	t.Run("requests without a key pass through untouched", func(t *testing.T) {
		r, _ := newIdempotencyRouter(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
