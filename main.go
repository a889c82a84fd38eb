package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"school-analytics-dashboard/app/aggregate"
	"school-analytics-dashboard/app/realtime"
	"school-analytics-dashboard/app/repository"
	repoAPI "school-analytics-dashboard/app/repository/api"
	repoMongo "school-analytics-dashboard/app/repository/mongodb"
	repoPostgre "school-analytics-dashboard/app/repository/postgresql"
	dashboardService "school-analytics-dashboard/app/service/dashboard"
	"school-analytics-dashboard/config"
	"school-analytics-dashboard/database"
	FiberApp "school-analytics-dashboard/fiber"
	"school-analytics-dashboard/route"
	"school-analytics-dashboard/utils"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print bcrypt hash for OPS_PASSWORD_HASH and exit")
	issueFor := flag.String("issue-token", "", "print an HS256 token signed with JWT_SECRET for this subject and exit")
	tokenRole := flag.String("token-role", "admin", "role claim for -issue-token")
	tokenTTL := flag.Duration("token-ttl", time.Hour, "lifetime for -issue-token")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			logrus.Fatalf("hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Config error: %v", err)
	}
	if *issueFor != "" {
		token, err := issueToken(cfg.JWTSecret, *issueFor, *tokenRole, *tokenTTL)
		if err != nil {
			logrus.Fatalf("issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Data source
	repo, closeSource, err := setupRepository(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Data source error: %v", err)
	}
	defer closeSource()

	// 3. Registry + aggregator
	registry := realtime.NewRegistry()
	agg := dashboardService.NewAggregator(repo, registry, dashboardService.Options{
		ActivityLimit: cfg.ActivityLimit,
		GrowthYears:   cfg.GrowthYears,
		FetchTimeout:  cfg.FetchTimeout,
	})
	agg.Mount()
	defer agg.Close()

	renderer, err := dashboardService.NewRenderer(cfg.BrowserLimit, cfg.ActivityLimit, 32)
	if err != nil {
		logrus.Fatalf("Renderer error: %v", err)
	}
	svc := dashboardService.NewDashboardService(agg, renderer, registry, aggregate.LocaleFor(cfg.Locale))

	// 4. Live channel
	if cfg.WSURL != "" {
		client := realtime.NewClient(cfg.WSURL, registry, cfg.WSRetryMaxElapsed)
		go func() {
			if err := client.Run(ctx, cfg.WSToken); err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("live channel stopped, online users will not update")
			}
		}()
	} else {
		logrus.Warn("WS_URL kosong, jumlah user online tidak akan diperbarui")
	}

	// 5. Fiber + route
	app := FiberApp.SetupFiber()
	route.SetupDashboardRoutes(app, svc, cfg)

	go func() {
		logrus.Infof("Server running on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Errorf("Server stopped: %v", err)
			stop()
		}
	}()

	// 6. Graceful shutdown
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
}

// issueToken membuat token untuk development lokal, hanya kalau JWT_SECRET diisi
func issueToken(secret, subject, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET is empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return utils.GenerateToken(subject, role, secret, ttl)
}

// setupRepository memilih sumber data: REST API backend atau langsung ke PostgreSQL + MongoDB
func setupRepository(ctx context.Context, cfg *config.Config) (repository.DashboardRepository, func(), error) {
	if cfg.DataSource == config.SourceAPI {
		return repoAPI.NewDashboardRepository(cfg.APIBaseURL, cfg.FetchTimeout), func() {}, nil
	}

	pg, err := database.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	mongoClient, mongoDB, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		pg.Close()
		return nil, nil, err
	}

	repo := repository.NewCombinedRepository(
		repoPostgre.NewAnalyticsRepoPostgres(pg, cfg.DirectMajors),
		repoMongo.NewActivityRepository(mongoDB),
	)
	return repo, closeDatabases(pg, mongoClient), nil
}

func closeDatabases(pg *sql.DB, mongoClient *mongo.Client) func() {
	return func() {
		if err := pg.Close(); err != nil {
			logrus.WithError(err).Warn("close postgres")
		}
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Warn("disconnect mongo")
		}
	}
}
