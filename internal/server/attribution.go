package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	attributiondomain "github.com/smallbiznis/clipcart/internal/attribution/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
)

type runAttributionRequest struct {
	CreatorID   string `json:"creator_id"`
	VideoID     string `json:"video_id"`
	WindowHours int    `json:"window_hours"`
}

func (s *Server) RunAttribution(c *gin.Context) {
	var req runAttributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var scope attributiondomain.Scope
	if id := strings.TrimSpace(req.VideoID); id != "" {
		videoID, err := videodomain.ParseID(id)
		if err != nil {
			AbortWithError(c, newValidationError("video_id", "invalid_video_id", "invalid video id"))
			return
		}
		scope.VideoID = videoID
	}
	if id := strings.TrimSpace(req.CreatorID); id != "" {
		creatorID, err := videodomain.ParseID(id)
		if err != nil {
			AbortWithError(c, newValidationError("creator_id", "invalid_creator_id", "invalid creator id"))
			return
		}
		scope.CreatorID = creatorID
	}

	window := attributiondomain.DefaultWindow
	if req.WindowHours != 0 {
		window = time.Duration(req.WindowHours) * time.Hour
	}

	result, err := s.attributionSvc.Attribute(c.Request.Context(), scope, window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
