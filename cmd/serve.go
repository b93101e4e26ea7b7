package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "task-board.com/task-board/internal/configs"
	httpapi "task-board.com/task-board/internal/http"
	"task-board.com/task-board/internal/live"
	"task-board.com/task-board/internal/notify"
	repository "task-board.com/task-board/internal/repositories"
	"task-board.com/task-board/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task board HTTP API and the live subscription hub",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		database := config.New(cfg.DatabaseDSN)
		taskRepo := repository.NewTaskRepository(database)

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()
		notifier := notify.NewRedisNotifier(redisClient, cfg.RedisChannel)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		hub := live.NewHub(taskRepo, notifier)
		hub.Start(ctx)

		taskService := services.NewTaskService(taskRepo, notifier)

		e := echo.New()
		handler := httpapi.NewHandler(
			taskService,
			hub,
			time.Duration(cfg.PlanDelayMillis)*time.Millisecond,
		)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(shutdownCtx)
		hub.Wait()

		log.Println("HTTP server and subscription hub shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
