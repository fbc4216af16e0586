package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/authors"
	"github.com/playmatatu/minigolf/internal/config"
)

// AuthorKey is the gin context key holding the authenticated author name.
const AuthorKey = "author"

// AuthMiddleware validates a bearer JWT and sets the author in context
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		author, err := authors.ParseToken(cfg, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			log.Printf("[AUTH] Rejected token from %s: %v", c.ClientIP(), err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(AuthorKey, author)
		c.Next()
	}
}
