package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/game"
)

type strokeRequest struct {
	Origin  *game.Vec2 `json:"origin"`
	Pointer *game.Vec2 `json:"pointer"`
	Mode    string     `json:"mode"`
}

// CalculateStroke returns the launch power and speed for a pointer position
func CalculateStroke(c *gin.Context) {
	var req strokeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Origin == nil || req.Pointer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and pointer required"})
		return
	}
	mode, err := game.ParseShootingMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"power":     game.CalculateStrokePower(*req.Origin, *req.Pointer),
		"speed":     game.CalculateSpeed(*req.Origin, *req.Pointer, mode),
		"mode":      mode.String(),
		"next_mode": mode.Next().String(),
	})
}
