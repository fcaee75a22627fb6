package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aparthotel-backend/controllers"
	"aparthotel-backend/middleware"
	"aparthotel-backend/models"
	"aparthotel-backend/services"
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

// SetupRouter wires the controllers into the route tree. Everything under
// /api except auth and the payment callback requires a valid token.
func SetupRouter(
	auth *services.AuthService,
	ac *controllers.AuthController,
	gc *controllers.GuestController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	cc *controllers.CalendarController,
	dc *controllers.DashboardController,
	dpc *controllers.DepositController,
	blc *controllers.BlacklistController,
	chc *controllers.ChatController,
	sc *controllers.SubscriptionController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics())
	r.Static("/uploads", "./uploads")

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
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", ac.Login)
			authRoutes.POST("/register", ac.Register)
			authRoutes.POST("/verification/request", ac.RequestVerificationCode)
			authRoutes.POST("/verification/confirm", ac.ConfirmVerificationCode)
		}

		// Gateway callback carries no staff token.
		api.POST("/payments/callback", sc.PaymentCallback)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(auth))
		{
			guests := protected.Group("/guests")
			{
				guests.GET("", gc.List)
				guests.GET("/:id", gc.Get)
				guests.POST("", gc.Create)
				guests.PUT("/:id", gc.Update)
				guests.POST("/verify", gc.VerifyByPhone)
				guests.GET("/:id/bookings", bc.ByGuest)
				// Guest cards are never hard-deleted.
				guests.DELETE("/:id", func(c *gin.Context) {
					c.JSON(http.StatusMethodNotAllowed, gin.H{
						"success": false,
						"error":   "guest deletion is disabled",
					})
				})
			}

			rooms := protected.Group("/rooms")
			{
				rooms.GET("", rc.List)
				rooms.GET("/free", rc.Free)
				rooms.GET("/complexes", rc.Complexes)
				rooms.POST("", middleware.RequireRole(models.RoleManager), rc.Create)
				rooms.PUT("/:id", middleware.RequireRole(models.RoleManager), rc.Update)
				rooms.DELETE("/:id", middleware.RequireRole(models.RoleManager), rc.Delete)
			}

			bookings := protected.Group("/bookings")
			{
				bookings.GET("", bc.List)
				bookings.GET("/export", bc.ExportXLSX)
				bookings.GET("/:id", bc.Get)
				bookings.POST("", bc.Create)
				bookings.PUT("/:id", bc.Update)
				bookings.DELETE("/:id", middleware.RequireRole(models.RoleManager), bc.Delete)
			}

			calendar := protected.Group("/calendar")
			{
				calendar.GET("", cc.MonthGrid)
				calendar.POST("/status", cc.SetStatus)
			}

			protected.GET("/dashboard", middleware.RequireRole(models.RoleManager), dc.Stats)

			deposits := protected.Group("/deposits")
			{
				deposits.GET("/current", dpc.Current)
				deposits.GET("/returned", dpc.Returned)
				deposits.PUT("/:id", middleware.RequireRole(models.RoleManager), dpc.UpdateStatus)
			}

			blacklist := protected.Group("/blacklist")
			{
				blacklist.GET("", blc.List)
				blacklist.POST("", middleware.RequireRole(models.RoleManager), blc.Add)
				blacklist.DELETE("", middleware.RequireRole(models.RoleManager), blc.Remove)
			}

			chat := protected.Group("/chat")
			{
				chat.GET("/rooms", chc.Rooms)
				chat.POST("/rooms", chc.CreateRoom)
				chat.POST("/direct/:userId", chc.DirectRoom)
				chat.GET("/rooms/:id/messages", chc.Messages)
				chat.POST("/rooms/:id/messages", chc.SendMessage)
				chat.POST("/rooms/:id/seen", chc.MarkSeen)
				chat.DELETE("/rooms/:id", chc.LeaveRoom)
			}

			protected.PUT("/profile", ac.UpdateProfile)

			subscriptions := protected.Group("/subscriptions")
			{
				subscriptions.GET("/plans", sc.Plans)
				subscriptions.GET("/current", sc.Current)
				subscriptions.POST("", sc.Subscribe)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole()) // owner only
			{
				admin.GET("/registration-requests", ac.PendingRequests)
				admin.POST("/registration-requests/:id/approve", ac.ApproveRequest)
				admin.POST("/registration-requests/:id/reject", ac.RejectRequest)
				admin.POST("/users", ac.CreateUser)
				admin.GET("/users", ac.ListUsers)
				admin.DELETE("/users/:id", ac.FireUser)
				admin.PUT("/users/:id/role", ac.UpdateUserRole)
			}
		}
	}

	return r
}
