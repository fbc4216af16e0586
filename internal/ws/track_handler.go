package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/game"
)

// AimData is the payload of an "aim" message: the ball position, the
// pointer position and the current shooting mode.
type AimData struct {
	Origin  game.Vec2 `json:"origin"`
	Pointer game.Vec2 `json:"pointer"`
	Mode    string    `json:"mode"`
}

// MagnetData is the payload of a "magnet" message, in course pixels.
type MagnetData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TrackHub is the single hub for all track rooms.
var TrackHub *Hub

func init() {
	TrackHub = NewHub()
	go runHub(TrackHub)
}

// HandleWebSocket upgrades a request for /tracks/:id/ws and joins the track room.
func HandleWebSocket(courses *game.CourseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		trackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track id"})
			return
		}

		lc, err := courses.Load(c.Request.Context(), trackID)
		if err != nil {
			if errors.Is(err, game.ErrTrackNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
				return
			}
			log.Printf("[WS] Failed to load track %d: %v", trackID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load track"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			id:      generateID(12),
			trackID: trackID,
			course:  lc,
			hub:     TrackHub,
			send:    make(chan []byte, sendBuffer),
		}

		TrackHub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// runHub owns room membership.
func runHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			room, ok := h.rooms[client.trackID]
			if !ok {
				room = make(map[string]*Client)
				h.rooms[client.trackID] = room
			}
			room[client.id] = client
			size := len(room)
			h.mu.Unlock()

			log.Printf("[WS] Client %s joined track %d (room_size=%d)", client.id, client.trackID, size)

			h.SendToClient(client.id, joinedMessage(client.course, client.id))
			h.BroadcastToTrack(client.trackID, map[string]interface{}{
				"type":    "watchers",
				"count":   size,
				"track":   client.trackID,
				"message": "A player joined",
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.id]; ok && cur == client {
				delete(h.clients, client.id)
				if room, ok := h.rooms[client.trackID]; ok {
					delete(room, client.id)
					if len(room) == 0 {
						delete(h.rooms, client.trackID)
					}
				}
				close(client.send)
				log.Printf("[WS] Client %s left track %d", client.id, client.trackID)
			}
			h.mu.Unlock()
		}
	}
}

func joinedMessage(lc *game.LoadedCourse, clientID string) map[string]interface{} {
	return map[string]interface{}{
		"type":      "joined",
		"client_id": clientID,
		"track_id":  lc.ID,
		"name":      lc.Track.Name,
		"author":    lc.Track.Author,
		"magnets":   len(lc.Magnets),
		"mode":      game.ModeNormal.String(),
	}
}

// handleMessage answers one inbound message for a course.
func handleMessage(lc *game.LoadedCourse, msg WSMessage) map[string]interface{} {
	switch msg.Type {
	case "aim":
		var data AimData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("Invalid aim data")
		}
		mode, err := game.ParseShootingMode(data.Mode)
		if err != nil {
			return errorMessage(err.Error())
		}
		return map[string]interface{}{
			"type":      "aim_result",
			"power":     game.CalculateStrokePower(data.Origin, data.Pointer),
			"speed":     game.CalculateSpeed(data.Origin, data.Pointer, mode),
			"mode":      mode.String(),
			"next_mode": mode.Next().String(),
		}

	case "magnet":
		var data MagnetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return errorMessage("Invalid magnet data")
		}
		force, ok := lc.Forces.Force(data.X, data.Y)
		if !ok {
			return errorMessage("Position outside the course")
		}
		return map[string]interface{}{
			"type":  "magnet_force",
			"x":     data.X,
			"y":     data.Y,
			"force": force,
		}

	case "ping":
		return map[string]interface{}{"type": "pong"}

	default:
		return errorMessage("Unknown message type")
	}
}
