package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/sessionkeeper/internal/api/grpc/context"
	"github.com/dtroode/sessionkeeper/internal/api/grpc/router"
	grpcServer "github.com/dtroode/sessionkeeper/internal/api/grpc/server"
	"github.com/dtroode/sessionkeeper/internal/config"
	"github.com/dtroode/sessionkeeper/internal/housekeeping"
	"github.com/dtroode/sessionkeeper/internal/logger"
	"github.com/dtroode/sessionkeeper/internal/model"
	"github.com/dtroode/sessionkeeper/internal/password"
	"github.com/dtroode/sessionkeeper/internal/repository/memory"
	"github.com/dtroode/sessionkeeper/internal/repository/postgres"
	"github.com/dtroode/sessionkeeper/internal/server"
	"github.com/dtroode/sessionkeeper/internal/service"
	"github.com/dtroode/sessionkeeper/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	hasher := password.NewHasher(cfg.BcryptCost)

	var (
		users  model.UserStore
		tokens model.TokenStore
	)
	if cfg.Database.InMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		users = memory.NewUserRepository(hasher)
		tokens = memory.NewTokenRepository()
	} else {
		db, err := postgres.NewConection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		defer db.Close()

		users = postgres.NewUserRepository(db, hasher)
		tokens = postgres.NewTokenRepository(db)
	}

	lifecycle := service.NewLifecycle[model.User](service.LifecycleConfig{
		Persist:       cfg.Auth.Tokens.StoreDB,
		PerUserQuota:  cfg.Auth.Tokens.PerUser,
		SessionTTL:    cfg.Auth.Tokens.SessionTTL(),
		RefreshTTL:    cfg.Auth.Tokens.RefreshTTL(),
		SweepInterval: cfg.Housekeeping.SweepInterval,
	}, token.NewJWT(cfg.Auth.Tokens.Key), tokens, users, logger)

	sessions, err := service.NewSessionController[model.User](service.SessionConfig{
		Username:  cfg.Auth.Username,
		LoginWith: cfg.Auth.LoginWith,
	}, lifecycle, users, logger)
	if err != nil {
		logger.Fatal("failed to initialize session controller", "error", err)
	}

	ctxMgr := grpcctx.NewManager()
	grpcServer := registerGRPCServer(logger, sessions, ctxMgr, fmt.Sprintf(":%s", cfg.GRPC.Port))

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	if !cfg.GRPC.EnableHTTPS {
		logger.Warn("TLS is disabled, bearer tokens travel in plaintext")
	}

	var scheduler *housekeeping.Scheduler
	if lifecycle.Persisted() && cfg.Housekeeping.Schedule != "" {
		scheduler = housekeeping.NewScheduler(lifecycle, time.Minute, logger)
		if err := scheduler.Start(cfg.Housekeeping.Schedule); err != nil {
			logger.Fatal("failed to start housekeeping", "error", err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			logger.Error("error during housekeeping shutdown", "error", err)
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	logger *logger.Logger,
	sessions *service.SessionController[model.User],
	ctxMgr model.ContextManager,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(sessions, sessions, ctxMgr, logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}
