package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyCacheTTL = 24 * time.Hour
	idempotencyLockTTL  = 30 * time.Second
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays cached responses for POSTs carrying an Idempotency-Key
// header and rejects a duplicate while the first request is still in flight.
// The lock expires on its own so a crashed request cannot wedge the key.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s", c.FullPath(), idempKey)
		lockKey := cacheKey + ":lock"

		if cached, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			rec := cachedResponse{Status: http.StatusOK, Body: cached}
			if err := json.Unmarshal([]byte(cached), &rec); err != nil || rec.Status == 0 {
				rec = cachedResponse{Status: http.StatusOK, Body: cached}
			}
			c.Header("Content-Type", "application/json")
			c.Header("Idempotency-Replayed", "true")
			c.String(rec.Status, rec.Body)
			c.Abort()
			return
		}

		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "A request with this idempotency key is already in progress",
			})
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		// Only successful outcomes are worth replaying; failures may be
		// retried with the same key. The original status is stored so a
		// replayed 201 does not degrade to a 200.
		if status := writer.Status(); status >= 200 && status < 300 {
			payload, err := json.Marshal(cachedResponse{Status: status, Body: writer.body.String()})
			if err == nil {
				rdb.Set(c.Request.Context(), cacheKey, string(payload), idempotencyCacheTTL)
			}
		}
		rdb.Del(c.Request.Context(), lockKey)
	}
}
