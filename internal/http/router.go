package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bandprep/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	progressH *ProgressHandler,
	dashboardH *DashboardHandler,
	vocabH *VocabularyHandler,
	practiceH *PracticeHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/register", authH.Register)
	auth.POST("/verify-otp", authH.VerifyOTP)

	profile := auth.Group("/profile", JWTAuthMiddleware(jwtSvc))
	profile.GET("", authH.GetProfile)
	profile.PUT("", authH.UpdateProfile)
	profile.DELETE("", authH.DeleteProfile)

	users := r.Group("/users", JWTAuthMiddleware(jwtSvc))
	users.GET("/progress", progressH.GetProgress)
	users.POST("/progress/xp", progressH.AddXP)
	users.GET("/activities", progressH.ListActivities)
	users.POST("/activities", progressH.RecordActivity)

	dashboard := r.Group("/dashboard", JWTAuthMiddleware(jwtSvc))
	dashboard.GET("", dashboardH.GetDashboard)
	dashboard.GET("/analytics", dashboardH.GetAnalytics)

	vocab := r.Group("/vocabulary", JWTAuthMiddleware(jwtSvc))
	vocab.GET("", vocabH.List)
	vocab.POST("", vocabH.Create)
	vocab.DELETE("/:id", vocabH.Delete)

	practice := r.Group("/practice", JWTAuthMiddleware(jwtSvc))
	practice.GET("/reading", practiceH.ListReading)
	practice.GET("/listening", practiceH.ListListening)
	practice.GET("/speaking", practiceH.ListSpeaking)
	practice.GET("/writing", practiceH.ListWriting)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
