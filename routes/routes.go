package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mindhaven/handlers"
	"mindhaven/middleware"
)

// RegisterBookingRoutes registers all endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	{
		booking.Use(middleware.SessionAuthMiddleware())
		booking.POST("/flow", bh.StartFlow)
		booking.GET("/flow/:flowID/days", bh.GetDays)
		booking.PUT("/flow/:flowID", bh.UpdateFlow)
		booking.POST("/flow/:flowID/confirm", bh.ConfirmBooking)
		booking.GET("/flow/:flowID/summary", bh.GetSummary)
		booking.DELETE("/flow/:flowID", bh.CancelFlow)
		booking.GET("/current", bh.GetCurrentBooking)
		booking.POST("/reschedule", bh.StartReschedule)
	}
}

// RegisterCatalogRoutes registers the session-package endpoints.
func RegisterCatalogRoutes(r *gin.Engine, ch *handlers.CatalogHandler) {
	api := r.Group("/api/packages")
	{
		api.GET("", ch.ListPackages)
		api.GET("/:id", ch.GetPackage)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm MindHaven"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler, ch *handlers.CatalogHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterCatalogRoutes(r, ch)
	RegisterBookingRoutes(r, bh)
}
