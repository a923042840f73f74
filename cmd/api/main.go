package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/presence-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/communication"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/presence-backend-go/internal/service/attendance"
	reportService "github.com/cmlabs-hris/presence-backend-go/internal/service/report"
)

const version = "v1.0.0"

type stores struct {
	sessions attendance.SessionRepository
	leaves   leave.Store
	users    user.Directory
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "presence-cmlabs"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("Error opening attendance store: ", err)
	}
	defer st.close()

	weekOff, err := cfg.Attendance.Policy.WeekOffWeekdays()
	if err != nil {
		log.Fatal("Invalid attendance policy: ", err)
	}

	hub := sse.NewHub()
	notifier := communication.NewNotifier(cfg.Slack.BotToken, communication.SlackOption{
		InfoChannelID:  cfg.Slack.InfoChannelID,
		ErrorChannelID: cfg.Slack.ErrorChannelID,
	})

	options := attendanceService.Options{
		Location: cfg.Attendance.Location,
		Clock:    clock.System,
		Policy:   attendance.CompletionPolicy{HalfDayThresholdMinutes: cfg.Attendance.Policy.HalfDayThreshold()},
		Events:   hub,
	}
	attendanceSvc := attendanceService.NewAttendanceService(st.sessions, options)
	reaper := attendanceService.NewStaleSessionReaper(st.sessions, attendanceService.ReaperOptions{
		Options:     options,
		MaxRetries:  cfg.Attendance.ReaperMaxRetries,
		BaseBackoff: 2 * time.Second,
		Notifier:    notifier,
	})
	reportSvc := reportService.NewReportService(st.sessions, st.leaves, st.users, reportService.Options{
		Location: cfg.Attendance.Location,
		Clock:    clock.System,
		WeekOff:  weekOff,
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: []string{cfg.App.FrontendURL},
			LogLevel:       level,
		},
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewStreamHandler(hub, JWTService),
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(reaper, cron.DailyAt{
		Hour:     cfg.Attendance.ReaperHour,
		Minute:   cfg.Attendance.ReaperMinute,
		Location: cfg.Attendance.Location,
	})
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Attendance.StoreDriver, "timezone", cfg.Attendance.ReferenceTimezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.Attendance.StoreDriver {
	case config.StoreDriverMemory:
		users := memory.NewUserDirectory()
		leaves := memory.NewLeaveStore()
		if cfg.Attendance.SeedFile != "" {
			seed, err := memory.LoadSeed(cfg.Attendance.SeedFile)
			if err != nil {
				return stores{}, err
			}
			seed.Apply(users, leaves)
		}
		slog.Warn("Using in-memory attendance store, data is lost on restart")
		return stores{
			sessions: memory.NewSessionRepository(),
			leaves:   leaves,
			users:    users,
			close:    func() {},
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
		return stores{
			sessions: postgresql.NewSessionRepository(db),
			leaves:   postgresql.NewLeaveRepository(db),
			users:    postgresql.NewUserRepository(db),
			close:    db.Close,
		}, nil
	}
}
