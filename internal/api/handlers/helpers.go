package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/course"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/models"
)

// TrackStore is the persistence the track handlers need.
type TrackStore interface {
	InsertTrack(ctx context.Context, track *course.Track, raw string) (int64, error)
	GetTrack(ctx context.Context, id int64) (*models.TrackRow, error)
	ListTracks(ctx context.Context, category course.Category, limit, offset int) ([]models.TrackRow, error)
	AddRating(ctx context.Context, id int64, score int) ([]int64, error)
	UpdateRecord(ctx context.Context, id int64, name string, strokes int, at time.Time) (bool, error)
}

// AuthorStore looks up author accounts for login.
type AuthorStore interface {
	GetAuthor(ctx context.Context, name string) (*models.Author, error)
}

var formatErrors = []error{
	course.ErrInvalidFormat,
	course.ErrInvalidSpecial,
	course.ErrInvalidShape,
	course.ErrInvalidBackground,
	course.ErrInvalidForeground,
	course.ErrOutOfBounds,
	course.ErrUnexpectedChar,
	course.ErrUnexpectedEOF,
	course.ErrInvalidChar,
}

func isFormatError(err error) bool {
	for _, target := range formatErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError maps an error to a status code and writes it.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrTrackNotFound), errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "track not found"})
	case isFormatError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[TRACKS] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// trackID parses the :id path parameter, writing a 400 when it is not a number.
func trackID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid track id"})
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, writing a 400 when it is malformed.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be an integer"})
		return 0, false
	}
	return n, true
}
