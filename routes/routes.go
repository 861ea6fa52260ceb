package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mindcare-backend/controllers"
	"mindcare-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controller instances onto the route tree.
func SetupRouter(
	ic *controllers.IntakeController,
	bc *controllers.BookingController,
	cc *controllers.CatalogController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Intake workflow (multi-step booking form)
		intake := api.Group("/intake")
		{
			intake.POST("", ic.StartSession)
			intake.GET("/:token", ic.GetSession)
			intake.PUT("/:token", ic.UpdateSession)
			intake.POST("/:token/continue", ic.ContinueToSchedule)
			intake.POST("/:token/back", ic.BackToContact)
			intake.POST("/:token/confirm", ic.ConfirmBooking)
			intake.DELETE("/:token", ic.CancelSession)
		}

		// Catalog (read-only)
		api.GET("/counselors", cc.GetCounselors)
		api.GET("/time-slots", cc.GetTimeSlots)

		// Bookings
		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.CreateBooking)
			bookings.GET("/:id", bc.GetBookingDetails)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
		}
	}

	return r
}
