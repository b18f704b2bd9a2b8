package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"royal-dine/controllers"
	"royal-dine/middleware"
)

// Controllers groups the handlers mounted by SetupRouter.
type Controllers struct {
	Bookings  *controllers.BookingController
	Feedback  *controllers.FeedbackController
	Auth      *controllers.AuthController
	Assistant *controllers.AssistantController
}

// SetupRouter wires every route. sessionSecret verifies the tokens handed out
// by /api/verify-otp.
func SetupRouter(origins []string, ctl Controllers, sessionSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/chat", ctl.Assistant.Chat)

	api := r.Group("/api")
	{
		api.POST("/book", ctl.Bookings.CreateBooking)
		api.POST("/check", ctl.Bookings.CheckBooking)
		api.POST("/cancel", ctl.Bookings.CancelBooking)
		api.GET("/bookings/:id", ctl.Bookings.GetBooking)
		api.GET("/pdf/:id", ctl.Bookings.DownloadReceipt)

		api.POST("/feedback", ctl.Feedback.SubmitFeedback)

		api.POST("/request-otp", ctl.Auth.RequestOTP)
		api.POST("/verify-otp", ctl.Auth.VerifyOTP)

		me := api.Group("/me", middleware.RequireSession(sessionSecret))
		{
			me.GET("/bookings", ctl.Bookings.MyBookings)
		}
	}

	return r
}
