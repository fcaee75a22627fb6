package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"aparthotel-backend/config"
	"aparthotel-backend/controllers"
	"aparthotel-backend/routes"
	"aparthotel-backend/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	db := config.DB

	config.ConnectRedis()

	// Services
	authService := services.NewAuthService(db)
	verificationService := services.NewVerificationService(config.Redis)
	guestService := services.NewGuestService(db)
	roomService := services.NewRoomService(db)
	availabilityService := services.NewAvailabilityService(db)
	bookingService := services.NewBookingService(db)
	dashboardService := services.NewDashboardService(db)
	depositService := services.NewDepositService(db)
	blacklistService := services.NewBlacklistService(db)
	chatService := services.NewChatService(db)
	subscriptionService := services.NewSubscriptionService(db)
	exportService := services.NewExportService(db)

	// Controllers
	authController := controllers.NewAuthController(authService, verificationService)
	guestController := controllers.NewGuestController(guestService)
	roomController := controllers.NewRoomController(roomService, availabilityService)
	bookingController := controllers.NewBookingController(bookingService, exportService)
	calendarController := controllers.NewCalendarController(availabilityService)
	dashboardController := controllers.NewDashboardController(dashboardService)
	depositController := controllers.NewDepositController(depositService)
	blacklistController := controllers.NewBlacklistController(blacklistService)
	chatController := controllers.NewChatController(chatService)
	subscriptionController := controllers.NewSubscriptionController(subscriptionService)

	router := routes.SetupRouter(
		authService,
		authController,
		guestController,
		roomController,
		bookingController,
		calendarController,
		dashboardController,
		depositController,
		blacklistController,
		chatController,
		subscriptionController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped gracefully")
}
