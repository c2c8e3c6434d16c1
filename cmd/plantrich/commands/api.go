package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/api"
	"github.com/Plantrich-blimp/plantrich-app/internal/api/handlers"
	"github.com/Plantrich-blimp/plantrich-app/internal/scheduler"
	"github.com/Plantrich-blimp/plantrich-app/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API + websocket 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- Product Vault 변경 감지 스케줄러 시작 (CATALOG_REFRESH_SCHEDULE)
- 대시보드 세션 websocket 제공

Endpoints:
  GET  /health                     - Health check
  GET  /api/profiles[/{name}]      - Risk profiles
  POST /api/allocation             - Category allocation
  GET  /api/products/{type}        - Filtered Product Vault
  POST /api/projection             - Compound growth series
  POST /api/recommendations        - Build, save, export (?format=csv|xlsx)
  GET  /api/recommendations[/{id}] - History
  GET  /api/onboarding[/{section}] - Onboarding sheets
  POST /api/catalog/refresh        - Drop stale catalogs
  GET  /ws/session                 - Interactive dashboard session

Example:
  go run ./cmd/plantrich api
  go run ./cmd/plantrich api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	allowedOrigins string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT)")
	apiCmd.Flags().StringVar(&allowedOrigins, "origins", "", "CORS/websocket 허용 origin (쉼표 구분, 기본값: API_ALLOWED_ORIGINS)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Plantrich Advisory API Server ===")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// 1. Wire dependencies
	a, err := newApp(ctx, appOptions{server: true, store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port and origins if flags are set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	if origins := splitList(allowedOrigins); len(origins) > 0 {
		a.cfg.AllowedOrigins = origins
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// 2. Scheduler
	sched := scheduler.New(log, scheduler.DefaultOptions())
	if err := sched.AddJob(jobs.NewCatalogRefreshJob(a.cfg.Catalog.RefreshSchedule, log, a.catalogs)); err != nil {
		return fmt.Errorf("register catalog refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 3. Handlers + router
	router := api.NewRouter(api.Handlers{
		Advisor:    handlers.NewAdvisorHandler(a.advisor, log),
		Onboarding: handlers.NewOnboardingHandler(a.onboarding, log),
		Catalog:    handlers.NewCatalogHandler(a.catalogs, log),
		Session:    handlers.NewSessionHandler(a.advisor, a.cfg.AllowedOrigins, log),
	}, a.cfg.RateLimit, a.cfg.AllowedOrigins, log)

	// 4. Create server
	server := api.New(a.cfg, log, router)

	// 5. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
