package api

import (
	"CreatorPulse/internal/api/middleware"
	"CreatorPulse/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", group.ControlHandler.Health)
		apiGroup.GET("/status", group.ControlHandler.Status)

		apiGroup.POST("/analyze", group.ControlHandler.TriggerAnalyze)
		apiGroup.POST("/analytics", group.ControlHandler.TriggerAnalytics)
		apiGroup.GET("/analytics/summary", group.ControlHandler.AnalyticsSummary)
		apiGroup.GET("/analytics/videos/:video_id", group.ControlHandler.VideoDetail)

		reportGroup := apiGroup.Group("/report")
		{
			reportGroup.GET("/preview", group.ControlHandler.PreviewReport)
			reportGroup.POST("/send", group.ControlHandler.SendReport)
		}
	}

	return r
}
