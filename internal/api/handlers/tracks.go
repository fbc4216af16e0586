package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/course"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/middleware"
	"github.com/playmatatu/minigolf/internal/models"
	"github.com/playmatatu/minigolf/internal/tracks"
)

// trackSummary is the listing view of a stored track.
func trackSummary(row *models.TrackRow) gin.H {
	h := gin.H{
		"id":             row.ID,
		"name":           row.Name,
		"author":         row.Author,
		"version":        row.Version,
		"categories":     course.Category(row.Categories).Names(),
		"ratings":        row.Ratings,
		"average_rating": tracks.AverageRating(row.Ratings),
		"created_at":     row.CreatedAt,
	}
	if settings, err := course.ParseSettings(row.Settings); err == nil {
		h["settings"] = settings
	}
	if row.RecordName.Valid {
		record := gin.H{"name": row.RecordName.String}
		if row.RecordStrokes.Valid {
			record["strokes"] = row.RecordStrokes.Int64
		}
		if row.RecordAt.Valid {
			record["at"] = row.RecordAt.Time.UTC()
		}
		h["record"] = record
	}
	return h
}

// ListTracks returns stored tracks, optionally filtered by category name
func ListTracks(store TrackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category course.Category
		if name := c.Query("category"); name != "" {
			flag, ok := course.CategoryFromName(strings.ToLower(name))
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
				return
			}
			category = flag
		}
		limit, ok := queryInt(c, "limit", 20)
		if !ok {
			return
		}
		offset, ok := queryInt(c, "offset", 0)
		if !ok {
			return
		}

		rows, err := store.ListTracks(c.Request.Context(), category, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]gin.H, 0, len(rows))
		for i := range rows {
			out = append(out, trackSummary(&rows[i]))
		}
		c.JSON(http.StatusOK, gin.H{"tracks": out, "count": len(out)})
	}
}

// GetTrack returns the metadata of one track
func GetTrack(store TrackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trackID(c)
		if !ok {
			return
		}
		row, err := store.GetTrack(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, trackSummary(row))
	}
}

// GetTrackMap returns every tile code of a track plus its ads
func GetTrackMap(courses *game.CourseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trackID(c)
		if !ok {
			return
		}
		lc, err := courses.Load(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		m := lc.Track.Map
		codes := make([]int32, len(m.Tiles))
		for i, t := range m.Tiles {
			codes[i] = t.Code()
		}
		ads := make([]gin.H, 0, len(m.Ads))
		for _, ad := range m.Ads {
			ads = append(ads, gin.H{"size": ad.Size.String(), "x": ad.X, "y": ad.Y})
		}

		resp := gin.H{
			"width":  course.Width,
			"height": course.Height,
			"tiles":  codes,
			"ads":    ads,
		}
		if encoded, err := m.Encode(); err == nil {
			resp["encoded"] = encoded
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetTile describes the tile at ?x=&y= of a track
func GetTile(courses *game.CourseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trackID(c)
		if !ok {
			return
		}
		x, ok := queryInt(c, "x", -1)
		if !ok {
			return
		}
		y, ok := queryInt(c, "y", -1)
		if !ok {
			return
		}

		lc, err := courses.Load(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		tile, ok := lc.Track.Map.Tile(x, y)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": course.ErrOutOfBounds.Error()})
			return
		}
		c.JSON(http.StatusOK, describeTile(x, y, tile))
	}
}

func describeTile(x, y int, t course.Tile) gin.H {
	bg, fg := t.Background(), t.Foreground()
	h := gin.H{
		"x":          x,
		"y":          y,
		"code":       t.Code(),
		"special":    t.IsSpecial(),
		"background": bg.String(),
		"foreground": fg.String(),
		"friction":   t.Friction(),
		"solid":      fg.IsSolid(),
		"liquid":     bg.IsLiquid(),
		"oneway":     fg.IsOneway(),
	}
	if downhill, ok := bg.Downhill(); ok {
		h["downhill"] = downhill
	}
	if s, ok := t.Special(); ok {
		h["kind"] = s.String()
		h["solid"] = s.IsSolid()
		h["magnet"] = s.IsMagnet()
		h["teleport_start"] = s.IsTeleportStart()
		h["teleport_exit"] = s.IsTeleportExit()
		if exit, ok := s.MatchingTeleport(); ok {
			h["teleport_target"] = exit.String()
		}
	} else if shape, ok := t.Shape(); ok {
		h["kind"] = shape.String()
	}
	return h
}

// GetMagnetForce returns the magnet force at pixel ?x=&y= of a track
func GetMagnetForce(courses *game.CourseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trackID(c)
		if !ok {
			return
		}
		x, ok := queryInt(c, "x", -1)
		if !ok {
			return
		}
		y, ok := queryInt(c, "y", -1)
		if !ok {
			return
		}

		lc, err := courses.Load(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		force, ok := lc.Forces.Force(x, y)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "position outside the course"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"x": x, "y": y, "force": force, "magnets": len(lc.Magnets)})
	}
}

// UploadTrack parses a raw track file from the request body and stores it
func UploadTrack(store TrackStore, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		author := c.GetString(middleware.AuthorKey)

		limit := int64(cfg.MaxTrackBytes)
		if limit <= 0 {
			limit = 64 * 1024
		}
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "track file too large"})
			return
		}

		raw := string(body)
		track, err := course.ParseTrackString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if track.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "track has no name"})
			return
		}
		if track.Author == "" {
			track.Author = author
		} else if track.Author != author {
			c.JSON(http.StatusForbidden, gin.H{"error": "track author does not match login"})
			return
		}

		id, err := store.InsertTrack(c.Request.Context(), track, raw)
		if err != nil {
			if errors.Is(err, tracks.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			respondError(c, err)
			return
		}

		log.Printf("[TRACKS] %s uploaded track %d (%q)", author, id, track.Name)
		c.JSON(http.StatusCreated, gin.H{
			"id":         id,
			"name":       track.Name,
			"author":     track.Author,
			"categories": track.Categories.Names(),
		})
	}
}

// RateTrack records one 0..10 vote for a track
func RateTrack(store TrackStore, courses *game.CourseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trackID(c)
		if !ok {
			return
		}
		var req struct {
			Rating *int `json:"rating"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Rating == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating required"})
			return
		}

		ratings, err := store.AddRating(c.Request.Context(), id, *req.Rating)
		if err != nil {
			if errors.Is(err, tracks.ErrInvalidRating) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			respondError(c, err)
			return
		}

		if err := courses.Publish(c.Request.Context(), game.TrackEvent{Type: "rating", TrackID: id, Rating: *req.Rating}); err != nil {
			log.Printf("[TRACKS] %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"ratings": ratings, "average_rating": tracks.AverageRating(ratings)})
	}
}

// PostRecord stores a new best stroke count for the logged-in author
func PostRecord(store TrackStore, courses *game.CourseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := trackID(c)
		if !ok {
			return
		}
		var req struct {
			Strokes int `json:"strokes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Strokes <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "strokes must be a positive integer"})
			return
		}

		name := c.GetString(middleware.AuthorKey)
		at := time.Now().UTC()
		improved, err := store.UpdateRecord(c.Request.Context(), id, name, req.Strokes, at)
		if err != nil {
			respondError(c, err)
			return
		}
		if !improved {
			c.JSON(http.StatusOK, gin.H{"record": false, "message": "existing record is as good or better"})
			return
		}

		ev := game.TrackEvent{Type: "record", TrackID: id, Name: name, Strokes: req.Strokes, At: at}
		if err := courses.Publish(c.Request.Context(), ev); err != nil {
			log.Printf("[TRACKS] %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"record": true, "name": name, "strokes": req.Strokes, "at": at})
	}
}
