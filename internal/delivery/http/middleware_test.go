package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "https://app.shelflens.io",
			allowedOrigins: []string{"https://app.shelflens.io"},
			want:           true,
		},
		{
			name:           "wildcard match",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "https://app.shelflens.io",
			allowedOrigins: []string{"http://localhost:*", "https://app.shelflens.io"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{
			name:       "allowed origin - GET request",
			origin:     "http://localhost:5173",
			method:     "GET",
			wantStatus: http.StatusOK,
			wantCORS:   true,
		},
		{
			name:       "allowed origin - OPTIONS preflight",
			origin:     "http://localhost:5173",
			method:     "OPTIONS",
			wantStatus: http.StatusNoContent,
			wantCORS:   true,
		},
		{
			name:       "disallowed origin",
			origin:     "http://evil.com",
			method:     "GET",
			wantStatus: http.StatusOK,
			wantCORS:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"http://localhost:*"}))
			router.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS && gotOrigin != tt.origin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, tt.origin)
			}
			if !tt.wantCORS && gotOrigin != "" {
				t.Errorf("Access-Control-Allow-Origin = %q, want empty", gotOrigin)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
