package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// ResponseCache memoizes GET responses keyed by request URI. Write
// routes that change what a cached read reports attach Invalidate so
// the memo is dropped as soon as the write commits; the TTL only
// bounds staleness from writes that bypass the API.
type ResponseCache struct {
	entries *cache.Cache
	ttl     time.Duration
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: cache.New(ttl, 2*ttl),
		ttl:     ttl,
	}
}

type cachedEntry struct {
	status  int
	headers http.Header
	body    []byte
}

// captureWriter tees the response body so it can be stored.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Serve replays a stored response when one exists, otherwise records
// the handler's output for the next request.
func (rc *ResponseCache) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if entry, found := rc.entries.Get(key); found {
			cached := entry.(cachedEntry)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		cw := &captureWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = cw

		c.Next()

		// Only successful responses are worth replaying.
		if cw.Status() >= 200 && cw.Status() < 300 {
			rc.entries.Set(key, cachedEntry{
				status:  cw.Status(),
				headers: cw.Header().Clone(),
				body:    cw.body.Bytes(),
			}, rc.ttl)
		}
	}
}

// Invalidate flushes every stored response after a successful write.
// The cached surface is small, so a full flush beats tracking which
// keys a given write touched.
func (rc *ResponseCache) Invalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if s := c.Writer.Status(); s >= 200 && s < 300 {
			rc.entries.Flush()
		}
	}
}
