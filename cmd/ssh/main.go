package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"

	"chainmetrics/internal/apiclient"
	"chainmetrics/internal/config"
	"chainmetrics/internal/domain"
	"chainmetrics/internal/logging"
	"chainmetrics/internal/poll"
	"chainmetrics/internal/tui"
	"chainmetrics/pkg/tracing"
)

const serviceName = "chainmetrics-ssh"

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initTracerFunc    = tracing.InitTracer
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		log.Fatal("failed to initialize tracer", "err", err)
	}
	defer tracing.Shutdown(tp, 5*time.Second)

	client := apiclient.New(apiclient.Config{
		BaseURL:              cfg.APIBaseURL,
		RequestTimeout:       time.Duration(cfg.APIRequestTimeoutSecs) * time.Second,
		SampleTokensFallback: cfg.TokensSampleFallback,
		Logger:               logger,
	}, tracer)

	// Every session subscribes on the same registry, so N viewers cost one
	// upstream fetch per key.
	reg := poll.NewRegistry()

	allowed := allowList(cfg.SSHAllowedFingerprints)
	if len(allowed) == 0 {
		log.Warn("SSH_ALLOWED_FINGERPRINTS not set, accepting any public key")
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)
	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			if !keyAllowed(allowed, key) {
				log.Warn("ssh auth denied", "user", ctx.User(), "fingerprint", fingerprint)
				return false
			}
			log.Info("ssh auth accepted", "user", ctx.User(), "fingerprint", fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				app := tui.NewApp(tui.OpenFeeds(reg, client, domain.DefaultHistoryDays), client)
				go func() {
					<-s.Context().Done()
					app.Close()
				}()

				pty, _, _ := s.Pty()
				app.Update(tea.WindowSizeMsg{Width: pty.Window.Width, Height: pty.Window.Height})

				return app, []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
			}),
			wishlogging.Middleware(),
		),
	)
	if err != nil {
		log.Fatal("failed to create SSH server", "err", err)
	}

	if srv != nil {
		go func() {
			log.Info("ssh server listening", "addr", addr, "api", client.BaseURL())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				log.Error("ssh server stopped", "err", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("shutting down ssh server")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("ssh server shutdown error", "err", err)
		}
	}

	log.Info("ssh server exited")
}

func allowList(fingerprints []string) map[string]struct{} {
	out := make(map[string]struct{}, len(fingerprints))
	for _, fp := range fingerprints {
		out[fp] = struct{}{}
	}
	return out
}

// keyAllowed accepts any key when the allow list is empty.
func keyAllowed(allowed map[string]struct{}, key ssh.PublicKey) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[gossh.FingerprintSHA256(key)]
	return ok
}
