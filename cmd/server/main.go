package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chainmetrics/internal/bot"
	"chainmetrics/internal/cache"
	"chainmetrics/internal/config"
	"chainmetrics/internal/db"
	"chainmetrics/internal/handler"
	"chainmetrics/internal/job"
	"chainmetrics/internal/logging"
	"chainmetrics/internal/provider"
	"chainmetrics/internal/repository"
	"chainmetrics/internal/service"
	"chainmetrics/pkg/tracing"

	_ "chainmetrics/docs"
)

const serviceName = "chainmetrics-api"

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	startSchedulerFunc     = func(s *job.Scheduler, ctx context.Context) { go s.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           ChainMetrics API
// @version         1.0.0
// @description     Hedera and HBAR market metrics collected from CoinGecko and the Hedera mirror node.

// @BasePath  /
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := initPostgresFunc(ctx, cfg.DatabaseURL)
	defer db.Close()
	redisClient := initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		log.Fatal("failed to initialize tracer", "err", err)
	}
	defer tracing.Shutdown(tp, 5*time.Second)

	store := repository.NoDatabase
	var pinger service.Pinger
	if pool != nil {
		store = pool
		pinger = pool
	} else {
		log.Warn("running without a database, data endpoints will fail")
	}

	hbarRepo := repository.NewHBARRepository(store, tracer)
	tokenRepo := repository.NewTokenRepository(store, tracer)
	networkRepo := repository.NewNetworkRepository(store, tracer)
	if pool != nil {
		for _, m := range []interface{ RunMigrations(context.Context) error }{hbarRepo, tokenRepo, networkRepo} {
			if err := m.RunMigrations(ctx); err != nil {
				log.Fatal("failed to run migrations", "err", err)
			}
		}
	}

	var rc cache.RedisClient
	if redisClient != nil {
		rc = redisClient
	}

	coinGecko := provider.NewCoinGeckoProvider(cfg.CoinGeckoAPIKey, cfg.CoinGeckoRequestsPerMinute, tracer)
	hedera := provider.NewHederaProvider(cfg.HederaMirrorNodeURL, tracer)

	hbarService := service.NewHBARService(tracer, coinGecko, hbarRepo, rc)
	networkService := service.NewNetworkService(tracer, hedera, networkRepo, rc)
	tokenService := service.NewTokenService(tracer, hedera, tokenRepo, cfg.HederaTokenIDs)
	summaryService := service.NewSummaryService(tracer, hbarService, networkService, tokenService)
	healthService := service.NewHealthService(tracer, pinger)

	scheduler := job.NewScheduler(tracer)
	job.NewDataPoller(
		job.RefresherFunc(func(ctx context.Context) error {
			_, err := hbarService.Refresh(ctx)
			return err
		}),
		job.RefresherFunc(func(ctx context.Context) error {
			_, err := networkService.Refresh(ctx)
			return err
		}),
		tokenService,
		cfg.HBARUpdateSecs, cfg.NetworkUpdateSecs, cfg.TokensUpdateSecs,
	).Register(scheduler)
	startSchedulerFunc(scheduler, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, hbarService, tokenService)

	h := handler.New(tracer, handler.Services{
		HBAR:      hbarService,
		Tokens:    tokenService,
		Summary:   summaryService,
		Health:    healthService,
		Scheduler: scheduler,
	})
	h.SetRefreshAPIKey(cfg.APIKey)

	r := newRouterFunc()
	r.Use(
		gin.Recovery(),
		handler.RequestID(),
		handler.RequestLogger(logger),
		handler.SecurityHeaders(),
		cors.New(corsConfig(cfg)),
		otelgin.Middleware(serviceName),
		handler.CacheControl(handler.DefaultCacheRules),
	)

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "err", err)
	}

	log.Info("server exiting")
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-API-Key", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-Process-Time"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.CORSOrigins
	c.AllowCredentials = true
	return c
}
