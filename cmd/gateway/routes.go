package main

import (
	"net/http"

	"catering-backoffice/internal/gateway/handlers"
	"catering-backoffice/internal/gateway/middleware"

	"github.com/gin-gonic/gin"
)

type routeHandlers struct {
	imports    *handlers.ImportHTTPHandler
	reports    *handlers.ReportHTTPHandler
	worklogs   *handlers.WorkLogHTTPHandler
	scheduling *handlers.SchedulingHTTPHandler
	health     *handlers.HealthHTTPHandler
}

func newRouter(h routeHandlers, jwtSecret []byte, rateLimit gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(rateLimit)

	r.GET("/health", h.health.Health)
	r.GET("/health/detailed", h.health.Detailed)

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		worklogs := protected.Group("/worklogs")
		{
			worklogs.POST("/import", h.imports.Import)
			worklogs.POST("/import/preview", h.imports.Preview)
			worklogs.POST("/import/confirm", h.imports.Confirm)
			worklogs.POST("/import/upload", h.imports.Upload)

			worklogs.GET("", h.worklogs.ListWorkLogs)
			worklogs.POST("", h.worklogs.CreateWorkLog)
			worklogs.GET("/:id", h.worklogs.GetWorkLog)
			worklogs.PATCH("/:id", h.worklogs.AdjustWorkLog)
			worklogs.DELETE("/:id", h.worklogs.DeleteWorkLog)
		}

		protected.GET("/availability", h.reports.Availability)
		protected.GET("/reports/salary", h.reports.Salary)

		staff := protected.Group("/staff")
		{
			staff.GET("/:id/availability", h.scheduling.ListAvailability)
			staff.POST("/:id/availability", h.scheduling.SetAvailability)
			staff.DELETE("/:id/availability", h.scheduling.DeleteAvailability)
		}

		events := protected.Group("/events")
		{
			events.POST("/:id/staff", h.scheduling.AssignStaff)
			events.PATCH("/:id/staff/:staffId", h.scheduling.UpdateAttendance)
			events.DELETE("/:id/staff/:staffId", h.scheduling.UnassignStaff)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	return r
}
