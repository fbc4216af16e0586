package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartTrackEventSubscriber relays track events from Redis to the track rooms,
// so every server instance pushes records to its own clients.
func StartTrackEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; track event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.TrackEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.TrackEventsChannel)
		for msg := range ch {
			dispatchTrackEvent(TrackHub, []byte(msg.Payload))
		}
	}()
}

// dispatchTrackEvent turns one published TrackEvent into a room broadcast.
func dispatchTrackEvent(h *Hub, payload []byte) {
	var ev game.TrackEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}

	size := h.RoomSize(ev.TrackID)
	log.Printf("[WS] event received: type=%s track=%d (room_size=%d)", ev.Type, ev.TrackID, size)
	if size == 0 {
		return
	}

	switch ev.Type {
	case "record":
		h.BroadcastToTrack(ev.TrackID, map[string]interface{}{
			"type":    "new_record",
			"name":    ev.Name,
			"strokes": ev.Strokes,
			"at":      ev.At,
		})
	case "rating":
		h.BroadcastToTrack(ev.TrackID, map[string]interface{}{
			"type":   "rating",
			"rating": ev.Rating,
		})
	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
	}
}
