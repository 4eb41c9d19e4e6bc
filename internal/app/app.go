package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taskmate/internal/config"
	"taskmate/internal/export"
	"taskmate/internal/handlers"
	"taskmate/internal/i18n"
	"taskmate/internal/repositories"
	"taskmate/internal/routes"
	"taskmate/internal/services"
	"taskmate/pkg/logger"
)

func Run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("db.close_failed", zap.Error(err))
		}
	}()

	// === Repos ===
	taskRepo := repositories.NewTaskRepository(db)
	userRepo := repositories.NewUserRepository(db)
	reminderRepo := repositories.NewReminderRepository(db)

	// === Core ===
	localizer := i18n.New(cfg.DefaultLocale, log)
	exporter := export.NewExporter(cfg.Reports.Dir, cfg.Reports.FontPath, localizer, log)
	reportService := services.NewReportService(
		taskRepo, userRepo, exporter, localizer, cfg.DefaultTimezone, log)
	reminderService := services.NewReminderService(
		reminderRepo, cfg.Reminders.DefaultOffsetMin, log)

	// === Reminder dispatch loop ===
	scheduler := cron.New()
	if cfg.Telegram.BotToken != "" {
		channel, err := services.NewTelegramChannel(cfg.Telegram.BotToken, log)
		if err != nil {
			return fmt.Errorf("telegram channel: %w", err)
		}
		dispatcher := services.NewReminderDispatcher(
			reminderRepo, channel, localizer,
			cfg.DefaultTimezone, cfg.DefaultLocale,
			cfg.Reminders.BatchSize, log)
		spec := "@every " + time.Duration(cfg.Reminders.DispatchInterval).String()
		if _, err := scheduler.AddFunc(spec, func() {
			if _, err := dispatcher.DispatchDue(context.Background()); err != nil {
				log.Error("reminder.dispatch_run_failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule dispatcher: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Warn("telegram.token_missing", zap.String("effect", "reminder dispatch disabled"))
	}

	// === HTTP ===
	reportHandler := handlers.NewReportHandler(reportService, log)
	taskHandler := handlers.NewTaskHandler(taskRepo, userRepo, reminderService, log)

	router := gin.New()
	router.Use(gin.Recovery())
	routes.SetupRoutes(router, []byte(cfg.Auth.JWTSecret), reportHandler, taskHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("server.listening", zap.String("addr", addr))
	return router.Run(addr)
}
