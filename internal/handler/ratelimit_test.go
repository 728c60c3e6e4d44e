package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimitStrict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/limited", newIPRateLimiter(10).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var lastCode int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		r.ServeHTTP(recorder, req)
		lastCode = recorder.Code

		if i < 10 && recorder.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, recorder.Code)
		}
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst exhausted, got %d", lastCode)
	}
}

func TestRateLimitSeparateClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/limited", newIPRateLimiter(1).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRequest(http.MethodGet, "/limited", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, first)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for first client, got %d", recorder.Code)
	}

	// 不同 IP 使用独立的令牌桶
	second := httptest.NewRequest(http.MethodGet, "/limited", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, second)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for second client, got %d", recorder.Code)
	}
}
