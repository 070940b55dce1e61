package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "cashcraft-backend/internal/adapter/http"
	"cashcraft-backend/internal/adapter/middleware"
	"cashcraft-backend/internal/adapter/payment"
	"cashcraft-backend/internal/adapter/repository/gormdb"
	"cashcraft-backend/internal/adapter/repository/redisstore"
	"cashcraft-backend/internal/auth"
	"cashcraft-backend/internal/config"
	loanDomain "cashcraft-backend/internal/domain/loan"
	notifDomain "cashcraft-backend/internal/domain/notification"
	"cashcraft-backend/internal/infrastructure/cache"
	"cashcraft-backend/internal/infrastructure/db"
	"cashcraft-backend/internal/infrastructure/logger"
	loanuc "cashcraft-backend/internal/usecase/loan"
	notifuc "cashcraft-backend/internal/usecase/notification"
	"cashcraft-backend/internal/usecase/scoring"
	sessionuc "cashcraft-backend/internal/usecase/session"
	"cashcraft-backend/pkg/pace"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, flush := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, File: cfg.LogFile})
	defer flush()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		zlog.Fatal("mysql", zap.Error(err))
	}
	if err := gdb.AutoMigrate(&loanDomain.Loan{}, &notifDomain.Notification{}); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		zlog.Fatal("redis", zap.Error(err))
	}

	jwter := &auth.JWTer{Secret: []byte(cfg.JWTSecret), Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL()}
	pacer := pace.New(cfg.LatencyScale)

	sessions := redisstore.NewSessionStore(rdb)
	loans := gormdb.NewLoanRepository(gdb)
	notifications := gormdb.NewNotificationRepository(gdb)
	unit := gormdb.NewGormUoW(gdb)
	gateway := payment.NewSimulatedGateway(pacer)

	sessionUC := sessionuc.NewUsecase(sessions, jwter, pacer)
	loanUC := loanuc.NewUsecase(loans, unit, gateway, pacer).
		WithCache(cache.NewReadThrough(rdb)).
		WithLogger(zlog)
	notifUC := notifuc.NewUsecase(notifications, pacer)
	engine := scoring.NewEngine(nil)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover(), middleware.Metrics())

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:       httpadp.NewHandler(),
		Session:      httpadp.NewSessionHandler(sessionUC),
		Loan:         httpadp.NewLoanHandler(loanUC),
		Admin:        httpadp.NewAdminHandler(loanUC),
		Notification: httpadp.NewNotificationHandler(notifUC),
		Scoring:      httpadp.NewScoringHandler(engine),
	}, httpadp.Middlewares{
		Auth:         middleware.RequireAuth(jwter, sessions),
		OptionalAuth: middleware.OptionalAuth(jwter, sessions),
		Admin:        middleware.RequireAdmin(),
		Idempotency:  middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSec)*time.Second),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepLoop(ctx, loanUC, cfg.SweepInterval, zlog)

	go func() {
		addr := ":" + cfg.AppPort
		zlog.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			zlog.Info("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("shutdown", zap.Error(err))
	}
}

// sweepLoop periodically moves past-due active loans to overdue.
func sweepLoop(ctx context.Context, uc *loanuc.Usecase, every time.Duration, zlog *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := uc.SweepOverdue(ctx); err != nil {
				zlog.Warn("overdue sweep", zap.Error(err))
			}
		}
	}
}
