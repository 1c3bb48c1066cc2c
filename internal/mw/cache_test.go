package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResponseCache_ServeAndInvalidate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rc := NewResponseCache(time.Minute)
	hits := 0

	r := gin.New()
	r.GET("/summary", rc.Serve(), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.POST("/write", rc.Invalidate(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/bad-write", rc.Invalidate(), func(c *gin.Context) {
		c.Status(http.StatusBadRequest)
	})

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := do("GET", "/summary")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())

	// Replayed from the cache, handler untouched.
	w = do("GET", "/summary")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())
	assert.Equal(t, 1, hits)

	// A failed write keeps the memo.
	do("POST", "/bad-write")
	w = do("GET", "/summary")
	assert.JSONEq(t, `{"hits":1}`, w.Body.String())

	// A successful write drops it.
	do("POST", "/write")
	w = do("GET", "/summary")
	assert.JSONEq(t, `{"hits":2}`, w.Body.String())
	assert.Equal(t, 2, hits)
}

func TestResponseCache_SkipsErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rc := NewResponseCache(time.Minute)
	hits := 0

	r := gin.New()
	r.GET("/flaky", rc.Serve(), func(c *gin.Context) {
		hits++
		if hits == 1 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/flaky", nil))
		return w
	}

	assert.Equal(t, http.StatusInternalServerError, do().Code)

	// The failure was not stored; the retry reaches the handler.
	w := do()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hits":2}`, w.Body.String())
}
