package routes

import (
	"net/http"
	"time"

	"ipotracker/internal/controllers"
	"ipotracker/internal/logger"
	"ipotracker/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FetchTracker reports when the snapshot was last produced.
type FetchTracker interface {
	LastFetchedAt() (time.Time, bool)
}

// SetupRouter wires the dashboard and the API routes
func SetupRouter(source controllers.SnapshotSource, log logrus.FieldLogger) *gin.Engine {
	ipoController := controllers.NewIPOController(source, log)

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log))
	router.SetHTMLTemplate(views.Templates())

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		res := gin.H{"status": "UP"}
		if tracker, ok := source.(FetchTracker); ok {
			if at, ok := tracker.LastFetchedAt(); ok {
				res["last_fetched_at"] = at
			}
		}
		c.JSON(http.StatusOK, res)
	})

	router.GET("/", ipoController.Dashboard)
	router.POST("/alerts", ipoController.DashboardRegister)

	api := router.Group("/api/v1")
	{
		// GET /api/v1/ipos
		// Current GMP snapshot
		api.GET("/ipos", ipoController.GetIPOs)

		// POST /api/v1/alerts
		// Acknowledges an alert registration
		api.POST("/alerts", ipoController.RegisterAlert)
	}

	return router
}
