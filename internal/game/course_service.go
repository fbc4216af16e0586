package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/course"
	"github.com/redis/go-redis/v9"
)

// TrackEventsChannel is the Redis pub/sub channel for track updates.
const TrackEventsChannel = "track_events"

var ErrTrackNotFound = errors.New("track not found")

// TrackSource loads the raw text of a stored track.
type TrackSource interface {
	TrackRaw(ctx context.Context, id int64) (string, error)
}

// LoadedCourse is a parsed track with its derived physics data.
type LoadedCourse struct {
	ID       int64
	Track    *course.Track
	Magnets  []Magnet
	Forces   *MagnetForces
	LoadedAt time.Time

	lastUsed atomic.Int64
}

// LastUsed is when the course was last handed out by Load.
func (lc *LoadedCourse) LastUsed() time.Time {
	return time.Unix(0, lc.lastUsed.Load())
}

func (lc *LoadedCourse) touch(now time.Time) {
	lc.lastUsed.Store(now.UnixNano())
}

// TrackEvent is published when something about a track changes.
type TrackEvent struct {
	Type    string    `json:"type"` // "record" or "rating"
	TrackID int64     `json:"track_id"`
	Name    string    `json:"name,omitempty"`
	Strokes int       `json:"strokes,omitempty"`
	Rating  int       `json:"rating,omitempty"`
	At      time.Time `json:"at"`
}

// CourseService keeps parsed courses in memory, backed by a Redis cache of
// the raw track text and the track store.
type CourseService struct {
	source  TrackSource
	rdb     *redis.Client
	ttl     time.Duration
	workers int
	courses map[int64]*LoadedCourse
	mu      sync.RWMutex
}

func NewCourseService(source TrackSource, rdb *redis.Client, cfg *config.Config) *CourseService {
	ttl := time.Hour
	workers := 0
	if cfg != nil {
		if cfg.TrackCacheTTLSeconds > 0 {
			ttl = time.Duration(cfg.TrackCacheTTLSeconds) * time.Second
		}
		workers = cfg.ForceWorkers
	}
	return &CourseService{
		source:  source,
		rdb:     rdb,
		ttl:     ttl,
		workers: workers,
		courses: make(map[int64]*LoadedCourse),
	}
}

// NewLoadedCourse derives magnets and the force field for a parsed track.
func NewLoadedCourse(id int64, track *course.Track, workers int) *LoadedCourse {
	magnets := ExtractMagnets(track.Map.Tiles)
	var forces *MagnetForces
	if workers > 0 {
		forces = CalculateForcesWorkers(magnets, workers)
	} else {
		forces = CalculateForces(magnets)
	}
	lc := &LoadedCourse{
		ID:       id,
		Track:    track,
		Magnets:  magnets,
		Forces:   forces,
		LoadedAt: time.Now(),
	}
	lc.touch(lc.LoadedAt)
	return lc
}

func rawKey(id int64) string {
	return "track:" + strconv.FormatInt(id, 10) + ":raw"
}

// Load returns the course for a track id, parsing it on first use.
func (cs *CourseService) Load(ctx context.Context, id int64) (*LoadedCourse, error) {
	cs.mu.RLock()
	lc, ok := cs.courses[id]
	cs.mu.RUnlock()
	if ok {
		lc.touch(time.Now())
		return lc, nil
	}

	raw, err := cs.loadRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	track, err := course.ParseTrackString(raw)
	if err != nil {
		return nil, fmt.Errorf("parse track %d: %w", id, err)
	}

	lc = NewLoadedCourse(id, track, cs.workers)
	log.Printf("[TRACKS] Loaded track %d (%q): %d magnets, %d active force cells", id, track.Name, len(lc.Magnets), lc.Forces.NonZero())

	cs.mu.Lock()
	// Another request may have loaded it meanwhile; keep the first.
	if existing, ok := cs.courses[id]; ok {
		lc = existing
	} else {
		cs.courses[id] = lc
	}
	cs.mu.Unlock()

	return lc, nil
}

func (cs *CourseService) loadRaw(ctx context.Context, id int64) (string, error) {
	if cs.rdb != nil {
		raw, err := cs.rdb.Get(ctx, rawKey(id)).Result()
		if err == nil {
			return raw, nil
		}
		if err != redis.Nil {
			log.Printf("[CACHE] Failed to read track %d from redis: %v", id, err)
		}
	}

	if cs.source == nil {
		return "", ErrTrackNotFound
	}
	raw, err := cs.source.TrackRaw(ctx, id)
	if err != nil {
		return "", err
	}

	if cs.rdb != nil {
		if err := cs.rdb.SetEx(ctx, rawKey(id), raw, cs.ttl).Err(); err != nil {
			log.Printf("[CACHE] Failed to cache track %d: %v", id, err)
		}
	}
	return raw, nil
}

// Invalidate drops a course from memory and from the Redis cache.
func (cs *CourseService) Invalidate(ctx context.Context, id int64) {
	cs.mu.Lock()
	delete(cs.courses, id)
	cs.mu.Unlock()

	if cs.rdb != nil {
		if err := cs.rdb.Del(ctx, rawKey(id)).Err(); err != nil {
			log.Printf("[CACHE] Failed to drop track %d: %v", id, err)
		}
	}
}

// EvictIdle drops courses that have not been loaded for maxIdle and
// returns how many were removed. The Redis copy is left to its own TTL.
func (cs *CourseService) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	evicted := 0
	for id, lc := range cs.courses {
		if lc.LastUsed().Before(cutoff) {
			delete(cs.courses, id)
			evicted++
		}
	}
	return evicted
}

// TTL is how long raw tracks stay in Redis.
func (cs *CourseService) TTL() time.Duration {
	return cs.ttl
}

// Cached reports how many courses are held in memory.
func (cs *CourseService) Cached() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.courses)
}

// Publish sends a track event to every subscriber of TrackEventsChannel.
func (cs *CourseService) Publish(ctx context.Context, ev TrackEvent) error {
	if cs.rdb == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	n, err := cs.rdb.Publish(ctx, TrackEventsChannel, b).Result()
	if err != nil {
		return fmt.Errorf("publish %s for track %d: %w", ev.Type, ev.TrackID, err)
	}
	log.Printf("[TRACKS] Published %s for track %d (subscribers=%d)", ev.Type, ev.TrackID, n)
	return nil
}
