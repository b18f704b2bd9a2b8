package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"royal-dine/config"
	"royal-dine/controllers"
	"royal-dine/events"
	"royal-dine/routes"
	"royal-dine/services"
	"royal-dine/utils"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "royal-dine",
		Short:   "Royal Dine table booking backend",
		Version: Version,
		RunE:    runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(bookingsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE:  runServe,
	}
}

func openDatabase() (config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("database connect failed: %w", err)
	}
	return cfg, db, nil
}

func newOTPStore(cfg config.Config) (services.OTPStore, error) {
	switch cfg.OTPStore {
	case "", "memory":
		return services.NewMemoryOTPStore(), nil
	case "redis":
		rdb := services.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		log.Printf("✅ OTP codes stored in redis at %s", cfg.RedisAddr)
		return services.NewRedisOTPStore(rdb), nil
	default:
		return nil, fmt.Errorf("unsupported OTP_STORE %q", cfg.OTPStore)
	}
}

func newMailer(cfg config.Config) utils.Mailer {
	if !cfg.SMTPConfigured() {
		log.Println("⚠️  SMTP not configured; emails will only be logged")
		return utils.LogMailer{}
	}
	return utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFromName)
}

func sessionSecret(cfg config.Config) []byte {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret)
	}
	secret, err := utils.GenerateSecureToken(32)
	if err != nil {
		log.Fatalf("❌ could not generate a session secret: %v", err)
	}
	log.Println("⚠️  JWT_SECRET not set; using a random secret, sessions end on restart")
	return []byte(secret)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)
	log.Printf("✅ Database connection established (%s) and migrations applied.", cfg.DBDriver)

	shutdownTracer, err := config.InitTracer(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	otpStore, err := newOTPStore(cfg)
	if err != nil {
		return err
	}

	publisher, err := events.New(cfg.EventsDriver, events.Options{
		AMQPURL:      cfg.AMQPURL,
		Exchange:     cfg.EventsExchange,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Booking events go to %q", cfg.EventsDriver)

	secret := sessionSecret(cfg)

	// Initialize services
	bookingService := services.NewBookingService(services.BookingServiceDeps{
		Bookings:      services.NewBookingStore(db, services.NewSequenceAllocator(db, services.BookingSequenceName)),
		Feedback:      services.NewFeedbackStore(db),
		OTP:           services.NewOTPManager(otpStore, cfg.OTPTTL),
		Mailer:        newMailer(cfg),
		Receipts:      utils.PDFReceiptRenderer{},
		Events:        publisher,
		SessionSecret: secret,
		SessionTTL:    cfg.SessionTTL,
		NotifyTimeout: cfg.NotifyTimeout,
	})

	var model services.LanguageModel
	if cfg.GeminiAPIKey != "" {
		model = services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEndpoint, cfg.AssistantTimeout)
		log.Println("✅ GEMINI_API_KEY detected.")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set; /chat answers from the rule table only")
	}
	assistantService := services.NewAssistantService(model, cfg.AssistantTimeout)

	// Build router
	router := routes.SetupRouter(cfg.AllowedOrigins(), routes.Controllers{
		Bookings:  controllers.NewBookingController(bookingService),
		Feedback:  controllers.NewFeedbackController(bookingService),
		Auth:      controllers.NewAuthController(bookingService),
		Assistant: controllers.NewAssistantController(assistantService),
	}, secret)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		log.Println("⚠️  Shutdown signal received, shutting down server...")
	case err := <-serveErr:
		log.Printf("❌ ListenAndServe(): %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	// Let confirmation emails and events already in flight finish.
	bookingService.Wait()
	if err := publisher.Close(); err != nil {
		log.Printf("⚠️  closing event publisher: %v", err)
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Printf("⚠️  flushing traces: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
	return nil
}
