package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kvadrat/server/internal/market"
)

type Handler struct {
	service *market.Service
	logger  *logrus.Logger
}

func NewHandler(service *market.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetAnalysis returns the full analysis snapshot of the last refresh.
func (h *Handler) GetAnalysis(c *gin.Context) {
	analysis, err := h.service.Analysis()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis not ready"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetClassStats returns the per-class aggregates.
func (h *Handler) GetClassStats(c *gin.Context) {
	analysis, err := h.service.Analysis()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis not ready"})
		return
	}

	c.JSON(http.StatusOK, analysis.ClassStats)
}

// GetDistrictStats returns the per-district aggregates.
func (h *Handler) GetDistrictStats(c *gin.Context) {
	analysis, err := h.service.Analysis()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis not ready"})
		return
	}

	c.JSON(http.StatusOK, analysis.DistrictStats)
}

// GetClassForecast returns the price forecast for one housing class.
// An optional activity query overrides the configured market activity.
func (h *Handler) GetClassForecast(c *gin.Context) {
	class := c.Param("class")

	activity := 0.0
	if raw := c.Query("activity"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity value"})
			return
		}
		activity = parsed
	}

	result, err := h.service.ClassForecast(class, activity)
	if err != nil {
		if errors.Is(err, market.ErrUnknownClass) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown housing class"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis not ready"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStatus reports the refresh lifecycle state.
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CurrentState())
}

// TriggerRefresh starts a refresh in the background. A refresh already
// in flight is simply superseded by this one once both resolve.
func (h *Handler) TriggerRefresh(c *gin.Context) {
	go func() {
		if err := h.service.Refresh(context.Background()); err != nil {
			h.logger.WithError(err).Error("Manual refresh failed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "Refresh started",
	})
}
