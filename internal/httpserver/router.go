package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/M4yankkkk/ChronoTask/internal/handler"
	"github.com/M4yankkkk/ChronoTask/pkg/metrics"
	"github.com/M4yankkkk/ChronoTask/pkg/mq"
)

func NewRouter(
	taskHandler *handler.TaskHandler,
	authHandler *handler.AuthHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
	publisher *mq.Publisher,
	jwtSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Request log + latency metrics middleware.
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
	})

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
				return
			}
		}

		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	if authHandler != nil {
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", AuthMiddleware(jwtSecret), authHandler.Me)
	}

	todos := api.Group("/todos")
	todos.Use(AuthMiddleware(jwtSecret))
	todos.POST("", taskHandler.CreateTask)
	todos.GET("", taskHandler.ListTasks)
	todos.GET("/week/:date", taskHandler.GetWeek)
	todos.GET("/week/:date/progress", taskHandler.GetWeekProgress)
	todos.PUT("/:id", taskHandler.UpdateTask)
	todos.PATCH("/:id/status", taskHandler.UpdateStatus)
	todos.DELETE("/:id", taskHandler.DeleteTask)

	return r
}
