package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/authors"
	"github.com/playmatatu/minigolf/internal/config"
)

// Login exchanges an author's access token for a session JWT
func Login(store AuthorStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Author string `json:"author"`
			Token  string `json:"token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "author and token required"})
			return
		}
		name := strings.TrimSpace(req.Author)
		if name == "" || req.Token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "author and token required"})
			return
		}

		author, err := store.GetAuthor(c.Request.Context(), name)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("[AUTH] Failed to look up author %s: %v", name, err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if !authors.VerifyToken(author.TokenHash, req.Token) {
			log.Printf("[AUTH] Bad token for author %s from %s", name, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		signed, exp, err := authors.IssueToken(cfg, author.Name)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      signed,
			"expires_at": exp.UTC(),
			"author":     gin.H{"name": author.Name, "roles": author.Roles},
		})
	}
}
