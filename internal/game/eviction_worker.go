package game

import (
	"context"
	"log"
	"time"
)

// StartEvictionWorker periodically drops parsed courses nobody has loaded
// within the cache TTL, so memory tracks the set of tracks being played.
func StartEvictionWorker(ctx context.Context, cs *CourseService) {
	if cs == nil {
		log.Println("[CACHE] Course service missing; eviction worker not started")
		return
	}

	maxIdle := cs.TTL()
	interval := maxIdle / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	log.Printf("[CACHE] Eviction worker started (idle=%s, every %s)", maxIdle, interval)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[CACHE] Eviction worker stopping")
				return
			case <-ticker.C:
				if n := cs.EvictIdle(maxIdle); n > 0 {
					log.Printf("[CACHE] Evicted %d idle courses (%d still cached)", n, cs.Cached())
				}
			}
		}
	}()
}
