package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bandprep/internal/service"
)

// ProgressHandler mantiene dependencias para endpoints de progresión y actividad.
type ProgressHandler struct {
	logger       *zap.Logger
	progressServ *service.ProgressService
	activityServ *service.ActivityService
}

func NewProgressHandler(logger *zap.Logger, progressServ *service.ProgressService, activityServ *service.ActivityService) *ProgressHandler {
	return &ProgressHandler{
		logger:       logger,
		progressServ: progressServ,
		activityServ: activityServ,
	}
}

// GetProgress maneja GET /users/progress.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	result, err := h.progressServ.GetProgress(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("get progress failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"level":         result.User.Level,
			"xp":            result.User.XP,
			"xpToNextLevel": result.XPToNextLevel,
			"levelProgress": result.LevelProgress,
		},
	})
}

// AddXP maneja POST /users/progress/xp.
func (h *ProgressHandler) AddXP(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Amount int `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid add xp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.progressServ.AddXP(c.Request.Context(), claims.Subject, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("add xp failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add xp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":          result.User,
			"leveledUp":     result.LeveledUp,
			"xpToNextLevel": result.XPToNextLevel,
			"levelProgress": result.LevelProgress,
		},
	})
}

// ListActivities maneja GET /users/activities.
func (h *ProgressHandler) ListActivities(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	activities, err := h.activityServ.List(c.Request.Context(), claims.Subject, limit, offset)
	if err != nil {
		h.logger.Error("list activities failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": activities})
}

// RecordActivity maneja POST /users/activities.
func (h *ProgressHandler) RecordActivity(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Type         string         `json:"type" binding:"required"`
		PracticeType string         `json:"practiceType" binding:"required"`
		Score        float64        `json:"score"`
		Band         float64        `json:"band"`
		XPEarned     int            `json:"xpEarned" binding:"omitempty,gte=0"`
		TimeSpent    *int           `json:"timeSpent"`
		Details      map[string]any `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid record activity request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	activity, result, err := h.activityServ.Record(c.Request.Context(), service.RecordActivityInput{
		UserID:       claims.Subject,
		Type:         req.Type,
		PracticeType: req.PracticeType,
		Score:        req.Score,
		Band:         req.Band,
		XPEarned:     req.XPEarned,
		TimeSpent:    req.TimeSpent,
		Details:      req.Details,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("record activity failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record activity"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"activity":  activity,
			"user":      result.User,
			"leveledUp": result.LeveledUp,
		},
	})
}
