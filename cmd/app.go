package main

import (
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"go-chat-client/internal/application/dispatcher"
	"go-chat-client/internal/application/facade"
	"go-chat-client/internal/application/toast"
	"go-chat-client/internal/infrastructure/config"
	"go-chat-client/internal/infrastructure/connection"
	"go-chat-client/internal/infrastructure/eventloop"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/metrics"
	"go-chat-client/internal/infrastructure/server"
	"go-chat-client/internal/infrastructure/store"
	"go-chat-client/internal/infrastructure/timer"
)

type Application struct {
	cfg      *config.Config
	logger   logger.Logger
	loop     *eventloop.Loop
	stores   *store.Stores
	chat     *facade.ChatApplicationService
	httpSrv  *server.HTTPServer
	terminal *Terminal
}

func newApplication(cfg *config.Config, in io.Reader, out io.Writer) *Application {
	log := logger.NewLogrusLogger(cfg.LoggerConfig()).WithField("app", appName)
	m := metrics.New()

	loop := eventloop.New(log, 256)
	stores := store.New()
	toasts := toast.NewManager(stores.Toasts, timer.NewLoopScheduler(loop, log), cfg.Toast.Duration, log, m)
	d := dispatcher.New(stores.Connection, log, m)
	dialer := &connection.WebSocketDialer{
		URL:              cfg.Server.URL,
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		Logger:           log,
	}
	chat := facade.NewChatApplicationService(stores, d, toasts, dialer, loop, log, m)

	router := InitRouter(log, stores, chat, toasts, m)

	return &Application{
		cfg:      cfg,
		logger:   log,
		loop:     loop,
		stores:   stores,
		chat:     chat,
		httpSrv:  server.NewHTTPServer(cfg.HTTP.Addr, router),
		terminal: NewTerminal(in, out, stores, chat, log),
	}
}

func (app *Application) Run(ctx context.Context) error {
	if err := app.loop.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := app.chat.Connect(ctx); err != nil {
		// the local API stays up so the UI can show the failure toast
		app.logger.Errorf("failed to connect to %s: %v", app.cfg.Server.URL, err)
	} else if app.cfg.User.Name != "" {
		if err := app.chat.RegisterName(app.cfg.User.Name); err != nil {
			app.logger.Warnf("failed to register name: %v", err)
		}
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return app.httpSrv.Start(ctx)
	})

	eg.Go(func() error {
		defer cancel()
		err := app.terminal.Run(ctx)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		return err
	})

	eg.Go(func() error {
		<-ctx.Done()

		gracefulshutdownCtx, cancelShutdown := context.WithTimeout(
			context.Background(),
			5*time.Second,
		)
		defer cancelShutdown()

		app.chat.Disconnect()

		if err := app.httpSrv.Stop(gracefulshutdownCtx); err != nil {
			app.logger.Errorf("failed to stop http server: %v", err)
		}

		return app.loop.Stop(gracefulshutdownCtx)
	})

	return eg.Wait()
}
