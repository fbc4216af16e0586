package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/ws"
)

// HandleTrackWebSocket handles live aiming and record updates for a track
func HandleTrackWebSocket(courses *game.CourseService) gin.HandlerFunc {
	return ws.HandleWebSocket(courses)
}
