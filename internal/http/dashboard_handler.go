package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bandprep/internal/service"
)

// DashboardHandler mantiene dependencias para endpoints de dashboard y analytics.
type DashboardHandler struct {
	logger        *zap.Logger
	dashboardServ *service.DashboardService
	analyticsServ *service.AnalyticsService
}

func NewDashboardHandler(logger *zap.Logger, dashboardServ *service.DashboardService, analyticsServ *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{
		logger:        logger,
		dashboardServ: dashboardServ,
		analyticsServ: analyticsServ,
	}
}

// GetDashboard maneja GET /dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	dashboard, err := h.dashboardServ.GetDashboard(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("get dashboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dashboard})
}

// GetAnalytics maneja GET /dashboard/analytics.
func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	timeRange := c.DefaultQuery("timeRange", "all")
	practiceType := c.DefaultQuery("practiceType", "both")

	analytics, err := h.analyticsServ.GetAnalytics(c.Request.Context(), claims.Subject, timeRange, practiceType)
	if err != nil {
		h.logger.Error("get analytics failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": analytics})
}
