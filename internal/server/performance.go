package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	performancedomain "github.com/smallbiznis/clipcart/internal/performance/domain"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
)

func (s *Server) GetCreatorPerformance(c *gin.Context) {
	creatorID, err := videodomain.ParseID(strings.TrimSpace(c.Param("creator_id")))
	if err != nil {
		AbortWithError(c, newValidationError("creator_id", "invalid_creator_id", "invalid creator id"))
		return
	}

	var window performancedomain.Range
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			AbortWithError(c, newValidationError("from", "invalid_from", "invalid from timestamp"))
			return
		}
		window.From = t
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			AbortWithError(c, newValidationError("to", "invalid_to", "invalid to timestamp"))
			return
		}
		window.To = t
	}

	perf, err := s.performanceSvc.GetCreatorPerformance(c.Request.Context(), creatorID, window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": perf})
}

func (s *Server) GetVideoSnapshot(c *gin.Context) {
	videoID, err := videodomain.ParseID(strings.TrimSpace(c.Param("video_id")))
	if err != nil {
		AbortWithError(c, newValidationError("video_id", "invalid_video_id", "invalid video id"))
		return
	}

	metric, err := s.performanceSvc.LatestSnapshot(c.Request.Context(), videoID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": metric})
}
