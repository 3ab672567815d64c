// Command dashboard renders the ChainMetrics terminal dashboard against a
// running API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"chainmetrics/internal/apiclient"
	"chainmetrics/internal/config"
	"chainmetrics/internal/domain"
	"chainmetrics/internal/logging"
	"chainmetrics/internal/poll"
	"chainmetrics/internal/tui"
	"chainmetrics/pkg/tracing"
)

const serviceName = "chainmetrics-dashboard"

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	runProgramFunc = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus()).Run()
		return err
	}
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	apiURL := fs.String("api", cfg.APIBaseURL, "ChainMetrics API base URL")
	days := fs.Int("days", domain.DefaultHistoryDays, "initial history range in days")
	logFile := fs.String("log-file", "", "write logs to this file instead of discarding them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	logger := logging.New(io.Discard, cfg.LogLevel, "text")
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = logging.New(f, cfg.LogLevel, cfg.LogFormat)
	}
	log.SetDefault(logger)

	ctx := context.Background()
	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer tracing.Shutdown(tp, 2*time.Second)

	client := apiclient.New(apiclient.Config{
		BaseURL:              *apiURL,
		RequestTimeout:       time.Duration(cfg.APIRequestTimeoutSecs) * time.Second,
		SampleTokensFallback: cfg.TokensSampleFallback,
		Logger:               logger,
	}, tracer)

	app := tui.NewApp(tui.OpenFeeds(poll.NewRegistry(), client, *days), client)
	defer app.Close()

	return runProgramFunc(app)
}
