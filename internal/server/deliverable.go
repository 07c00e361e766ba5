package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type createDeliverableRequest struct {
	VideoID    string `json:"video_id"`
	CampaignID string `json:"campaign_id"`
	Type       string `json:"type"`
}

type rejectDeliverableRequest struct {
	Reason string `json:"reason"`
}

type reviewDeliverableRequest struct {
	PerformanceScore float64 `json:"performance_score"`
	BonusEligible    bool    `json:"bonus_eligible"`
}

func (s *Server) CreateDeliverable(c *gin.Context) {
	var req createDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	videoID, err := snowflake.ParseString(strings.TrimSpace(req.VideoID))
	if err != nil {
		AbortWithError(c, newValidationError("video_id", "invalid_video_id", "invalid video id"))
		return
	}
	campaignID, err := snowflake.ParseString(strings.TrimSpace(req.CampaignID))
	if err != nil {
		AbortWithError(c, newValidationError("campaign_id", "invalid_campaign_id", "invalid campaign id"))
		return
	}

	d, err := s.deliverableSvc.Mark(c.Request.Context(), videoID, campaignID, req.Type)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": d})
}

func (s *Server) GetDeliverable(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_deliverable_id", "invalid deliverable id"))
		return
	}

	d, err := s.deliverableSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": d})
}

func (s *Server) ApproveDeliverable(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_deliverable_id", "invalid deliverable id"))
		return
	}

	d, err := s.deliverableSvc.Approve(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": d})
}

func (s *Server) RejectDeliverable(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_deliverable_id", "invalid deliverable id"))
		return
	}

	var req rejectDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	d, err := s.deliverableSvc.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": d})
}

func (s *Server) CompleteDeliverable(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_deliverable_id", "invalid deliverable id"))
		return
	}

	d, err := s.deliverableSvc.Complete(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": d})
}

func (s *Server) ReviewDeliverable(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_deliverable_id", "invalid deliverable id"))
		return
	}

	var req reviewDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	d, err := s.deliverableSvc.SetReview(c.Request.Context(), id, req.PerformanceScore, req.BonusEligible)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": d})
}
