package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/authors"
	"github.com/playmatatu/minigolf/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", SessionTimeoutMin: 5}

	router := gin.New()
	router.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"author": c.GetString(AuthorKey)})
	})

	token, _, err := authors.IssueToken(cfg, "jaakko")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	dev := &config.Config{Environment: "development"}
	prod := &config.Config{Environment: "production", FrontendURL: "https://golf.example.com"}

	tests := []struct {
		cfg    *config.Config
		origin string
		want   bool
	}{
		{dev, "http://localhost:3000", true},
		{dev, "http://127.0.0.1:5173", true},
		{dev, "https://evil.example.com", false},
		{dev, "", false},
		{prod, "https://golf.example.com", true},
		{prod, "https://minigolf.playmatatu.com", true},
		{prod, "http://localhost:5173", false},
	}
	for _, tt := range tests {
		if got := OriginAllowed(tt.cfg, tt.origin); got != tt.want {
			t.Errorf("OriginAllowed(%s, %q) = %v, want %v", tt.cfg.Environment, tt.origin, got, tt.want)
		}
	}
}
