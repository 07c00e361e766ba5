package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	videodomain "github.com/smallbiznis/clipcart/internal/video/domain"
)

type updateMetricsRequest struct {
	ViewCount    int64 `json:"view_count"`
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	ShareCount   int64 `json:"share_count"`
}

func (s *Server) SyncCreatorVideos(c *gin.Context) {
	creatorID, err := videodomain.ParseID(strings.TrimSpace(c.Param("creator_id")))
	if err != nil {
		AbortWithError(c, newValidationError("creator_id", "invalid_creator_id", "invalid creator id"))
		return
	}

	result, err := s.syncerSvc.SyncCreatorVideos(c.Request.Context(), creatorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ListCreatorVideos(c *gin.Context) {
	creatorID, err := videodomain.ParseID(strings.TrimSpace(c.Param("creator_id")))
	if err != nil {
		AbortWithError(c, newValidationError("creator_id", "invalid_creator_id", "invalid creator id"))
		return
	}

	videos, err := s.videoSvc.ListByCreator(c.Request.Context(), creatorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": videos})
}

func (s *Server) GetVideo(c *gin.Context) {
	videoID, err := videodomain.ParseID(strings.TrimSpace(c.Param("video_id")))
	if err != nil {
		AbortWithError(c, newValidationError("video_id", "invalid_video_id", "invalid video id"))
		return
	}

	video, err := s.videoSvc.GetByID(c.Request.Context(), videoID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": video})
}

func (s *Server) UpdateVideoMetrics(c *gin.Context) {
	videoID, err := videodomain.ParseID(strings.TrimSpace(c.Param("video_id")))
	if err != nil {
		AbortWithError(c, newValidationError("video_id", "invalid_video_id", "invalid video id"))
		return
	}

	var req updateMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	metric, err := s.videoSvc.RecordMetricsUpdate(c.Request.Context(), videoID, videodomain.Counters{
		Views:    req.ViewCount,
		Likes:    req.LikeCount,
		Comments: req.CommentCount,
		Shares:   req.ShareCount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": metric})
}

func (s *Server) RefreshVideoMetrics(c *gin.Context) {
	videoID, err := videodomain.ParseID(strings.TrimSpace(c.Param("video_id")))
	if err != nil {
		AbortWithError(c, newValidationError("video_id", "invalid_video_id", "invalid video id"))
		return
	}

	metric, err := s.syncerSvc.RefreshVideoMetrics(c.Request.Context(), videoID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": metric})
}

func (s *Server) DeleteVideo(c *gin.Context) {
	videoID, err := videodomain.ParseID(strings.TrimSpace(c.Param("video_id")))
	if err != nil {
		AbortWithError(c, newValidationError("video_id", "invalid_video_id", "invalid video id"))
		return
	}

	if err := s.videoSvc.MarkDeleted(c.Request.Context(), videoID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "deleted"}})
}
