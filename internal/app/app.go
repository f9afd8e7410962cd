package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/partywave/server/internal/controller"
	connInmemory "github.com/partywave/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/partywave/server/internal/repository/party/inmemory"
	"github.com/partywave/server/internal/service/party"
	"github.com/partywave/server/pkg/ctxlogger"
)

type AppConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	LogLevel     string `json:"log_level"`
	MembersLimit int    `json:"members_limit"`
	QueueLimit   int    `json:"queue_limit"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.MembersLimit < 0 {
		return fmt.Errorf("members limit must not be negative")
	}
	if cfg.QueueLimit < 0 {
		return fmt.Errorf("queue limit must not be negative")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	roomRepo := roomInmemory.NewRepo(cfg.MembersLimit, cfg.QueueLimit)
	connRepo := connInmemory.NewRepo()
	partyService := party.NewService(roomRepo, connRepo, logger)
	controller := controller.NewController(partyService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
