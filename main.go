// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"fashion-registration/config"
	"fashion-registration/controllers"
	"fashion-registration/logger"
	"fashion-registration/middleware"
	"fashion-registration/models"
	"fashion-registration/services"
	"fashion-registration/websocket"
)

const (
	sessionName     = "fashionsession"
	cleanupInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logPath, err := logger.InitLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer func() { _ = logger.Close() }()
	logger.SetLogLevel(cfg.Env)
	if logPath != "" {
		logger.Info.Printf("main: logging to %s", logPath)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := newMetrics(cfg)
	flows := newFlowRegistry(cfg)

	router, err := setupRouter(cfg, flows, metrics)
	if err != nil {
		logger.Error.Fatalf("main: failed to set up router: %v", err)
	}

	var handler http.Handler = router
	if cfg.XRayEnabled {
		logger.Info.Println("main: AWS X-Ray tracing enabled")
		handler = xray.Handler(xray.NewFixedSegmentNamer("fashion-registration"), router)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go flows.RunCleanup(ctx, cleanupInterval, cfg.FormIdleTimeout)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info.Printf("main: Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info.Println("main: Received shutdown signal")
	case err := <-serverErr:
		logger.Error.Printf("main: Server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("main: Error shutting down server: %v", err)
	}
	logger.Info.Println("main: Shutdown complete")
}

// newMetrics returns the CloudWatch publisher when enabled, otherwise a no-op.
func newMetrics(cfg *config.Config) services.MetricsPublisher {
	if !cfg.MetricsEnabled {
		return services.NoopMetrics{}
	}
	cw, err := services.NewCloudWatchMetrics(cfg.MetricsNS)
	if err != nil {
		logger.Warn.Printf("newMetrics: CloudWatch unavailable, metrics disabled: %v", err)
		return services.NoopMetrics{}
	}
	logger.Info.Printf("newMetrics: publishing to CloudWatch namespace %s", cfg.MetricsNS)
	return cw
}

// newFlowRegistry builds the per-visitor page registry for the configured form.
func newFlowRegistry(cfg *config.Config) *services.FlowRegistry {
	schema := services.NewSchema(cfg.ExtendedForm)
	return services.NewFlowRegistry(func() *services.PageFlow {
		return services.NewPageFlow(schema, func(sub models.Submission) {
			logger.Debug.Printf("newFlowRegistry: page switched to success view (%s)", sub.ParticipantType)
		})
	})
}

// setupRouter wires middleware, templates and routes.
func setupRouter(cfg *config.Config, flows *services.FlowRegistry, metrics services.MetricsPublisher) (*gin.Engine, error) {
	router := gin.Default()
	router.Use(middleware.SecurityHeaders(cfg.AllowFrameFrom))

	authKey, encKey, err := cfg.SessionKeys()
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(authKey, encKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	router.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	router.Static("/static", cfg.StaticDir)

	controllers.SetConfig(cfg.ApplicationURL)
	if cfg.AllowFrameFrom != "" {
		websocket.SetAllowedOrigins(cfg.AllowFrameFrom)
	}

	rc := controllers.NewRegistrationController(flows, metrics)

	router.GET("/health", controllers.Health)
	router.GET("/", controllers.Landing)
	router.GET("/qrcode", controllers.GetQRCode)

	reg := router.Group("/registration", middleware.VisitorRequired)
	{
		reg.GET("", rc.ShowRegistration)
		reg.POST("", rc.SubmitRegistration)
		reg.POST("/field", rc.UpdateField)
		reg.POST("/reset", rc.ResetRegistration)
		reg.GET("/live", rc.LiveForm)
	}
	return router, nil
}
