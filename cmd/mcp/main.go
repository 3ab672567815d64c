// Command mcp serves the ChainMetrics tools over the Model Context Protocol,
// on stdio or streamable HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"chainmetrics/internal/apiclient"
	"chainmetrics/internal/config"
	"chainmetrics/internal/domain"
	"chainmetrics/internal/logging"
	"chainmetrics/internal/mcptools"
	"chainmetrics/pkg/tracing"
)

const serviceName = "chainmetrics-mcp"

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	runStdioFunc   = func(ctx context.Context, s *mcp.Server) error {
		return s.Run(ctx, &mcp.StdioTransport{})
	}
	startHTTPServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
	notifyContextFunc   = signal.NotifyContext
)

func main() {
	if err := run(); err != nil {
		log.Fatal("mcp server failed", "err", err)
	}
}

func run() error {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	// stdout carries the stdio protocol, so logs go to stderr.
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := notifyContextFunc(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer tracing.Shutdown(tp, 5*time.Second)

	client := apiclient.New(apiclient.Config{
		BaseURL:              cfg.APIBaseURL,
		RequestTimeout:       time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
		SampleTokensFallback: cfg.TokensSampleFallback,
		Logger:               logger,
	}, tracer)

	server := mcp.NewServer(&mcp.Implementation{Name: "chainmetrics", Version: domain.ServiceVersion}, nil)
	mcptools.New(client, time.Duration(cfg.MCPRequestTimeoutSecs)*time.Second).Register(server)

	if cfg.MCPTransport == "http" {
		return serveHTTP(ctx, cfg, server)
	}
	log.Info("mcp server on stdio", "api", client.BaseURL())
	return runStdioFunc(ctx, server)
}

func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server) error {
	if cfg.MCPAuthToken == "" {
		log.Warn("MCP_AUTH_TOKEN not set, the HTTP transport is unauthenticated")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler:           newRouter(server, cfg.MCPAuthToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("mcp server listening", "addr", srv.Addr)
		errCh <- startHTTPServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(server *mcp.Server, token string) *gin.Engine {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	mcpGroup := r.Group("/mcp", mcptools.BearerAuth(token))
	mcpGroup.Any("", gin.WrapH(handler))
	return r
}
