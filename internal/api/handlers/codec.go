package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/course"
)

const maxCodecInput = 1 << 20

type codecRequest struct {
	Data string `json:"data"`
}

func bindCodec(c *gin.Context) (string, bool) {
	var req codecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data required"})
		return "", false
	}
	if len(req.Data) > maxCodecInput {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "data too large"})
		return "", false
	}
	return req.Data, true
}

// CompressData run-length encodes a string
func CompressData(c *gin.Context) {
	data, ok := bindCodec(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": course.Compress(data)})
}

// DecompressData expands a run-length encoded string
func DecompressData(c *gin.Context) {
	data, ok := bindCodec(c)
	if !ok {
		return
	}
	if course.DecompressedLen(data) > maxCodecInput {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "expanded data too large"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": course.Decompress(data)})
}
