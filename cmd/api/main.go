package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/httplog/v3"
	"github.com/groundops/ops-backend-go/internal/config"
	"github.com/groundops/ops-backend-go/internal/domain/attendance"
	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/domain/payroll"
	"github.com/groundops/ops-backend-go/internal/domain/recovery"
	"github.com/groundops/ops-backend-go/internal/domain/room"
	appHTTP "github.com/groundops/ops-backend-go/internal/handler/http"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
	"github.com/groundops/ops-backend-go/internal/pkg/jwt"
	"github.com/groundops/ops-backend-go/internal/repository/postgresql"
	"github.com/groundops/ops-backend-go/internal/repository/sqlite"
	payrollService "github.com/groundops/ops-backend-go/internal/service/payroll"
)

type repositories struct {
	payroll    payroll.PayrollRepository
	employee   employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	room       room.RoomRepository
	recovery   recovery.RecoveryRepository
	close      func()
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return repositories{}, err
		}
		if cfg.Database.RunMigrations {
			if err := sqlite.Migrate(ctx, db); err != nil {
				db.Close()
				return repositories{}, err
			}
		}
		logger.Info("storage ready", "driver", config.DriverSQLite, "path", cfg.Database.SQLitePath)
		return repositories{
			payroll:    sqlite.NewPayrollRepository(db),
			employee:   sqlite.NewEmployeeRepository(db),
			attendance: sqlite.NewAttendanceRepository(db),
			room:       sqlite.NewRoomRepository(db),
			recovery:   sqlite.NewRecoveryRepository(db),
			close:      func() { db.Close() },
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			return repositories{}, err
		}
		if cfg.Database.RunMigrations {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return repositories{}, err
			}
		}
		logger.Info("storage ready", "driver", config.DriverPostgres, "host", cfg.Database.Host, "database", cfg.Database.Name)
		return repositories{
			payroll:    postgresql.NewPayrollRepository(db),
			employee:   postgresql.NewEmployeeRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			room:       postgresql.NewRoomRepository(db),
			recovery:   postgresql.NewRecoveryRepository(db),
			close:      db.Close,
		}, nil
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	level := parseLevel(cfg.App.LogLevel)
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	payrollSvc := payrollService.NewPayrollService(
		repos.payroll,
		repos.employee,
		repos.attendance,
		repos.room,
		repos.recovery,
		payrollService.Policy{
			MinFinalAmount:      cfg.Payroll.MinFinalAmount,
			DefaultRecoveryRate: cfg.Payroll.DefaultRecoveryRate,
		},
		logger,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       level,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		},
		JWTService,
		payrollHandler,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
