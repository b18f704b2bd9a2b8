package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"royal-dine/utils"
)

func newSessionRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireSession(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextEmail))
	})
	return r
}

func TestRequireSession(t *testing.T) {
	secret := []byte("s3cret")
	r := newSessionRouter(secret)

	good, err := utils.CreateSessionToken(secret, "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionToken() error = %v", err)
	}
	foreign, _ := utils.CreateSessionToken([]byte("other"), "a@x.com", time.Hour)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, ""},
		{"valid", "Bearer " + good, http.StatusOK, "a@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}
