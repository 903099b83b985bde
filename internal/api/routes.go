package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"kvadrat/server/internal/market"
)

func SetupRoutes(router *gin.Engine, service *market.Service, logger *logrus.Logger) {
	handler := NewHandler(service, logger)

	api := router.Group("/api")
	{
		api.GET("/analysis", handler.GetAnalysis)
		api.GET("/classes", handler.GetClassStats)
		api.GET("/classes/:class/forecast", handler.GetClassForecast)
		api.GET("/districts", handler.GetDistrictStats)
		api.GET("/status", handler.GetStatus)
		api.POST("/refresh", handler.TriggerRefresh)
	}
}
