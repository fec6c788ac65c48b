package routes

import (
	"net/http"
	"time"

	"slotbook/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterTeamRoutes registers team and member administration endpoints.
func RegisterTeamRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/teams")
	{
		api.POST("", hb.Team.CreateTeamHandler)
		api.GET("/:teamID/members", hb.Team.ListMembersHandler)
		api.POST("/:teamID/members", hb.Team.AddMemberHandler)
		api.DELETE("/:teamID/members/:memberID", hb.Team.DisableMemberHandler)
	}
}

// RegisterAvailabilityRoutes registers rule and override management for
// members.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/members/:memberID/availability")
	{
		api.GET("/rules", hb.Availability.ListRulesHandler)
		api.POST("/rules", hb.Availability.AddRuleHandler)
		api.DELETE("/rules/:ruleID", hb.Availability.DeleteRuleHandler)
		api.POST("/overrides", hb.Availability.AddOverrideHandler)
		api.DELETE("/overrides/:overrideID", hb.Availability.DeleteOverrideHandler)
	}
}

// RegisterBookingRoutes registers the public guest-facing booking surface.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/book/:teamID")
	{
		api.GET("/slots", hb.Booking.ListSlotsHandler)
		api.POST("/reserve", hb.Booking.ReserveHandler)
		api.DELETE("/reservations/:reservationID", hb.Booking.CancelHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterTeamRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
