package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/YuminosukeSato/irisboard/charts"
	"github.com/YuminosukeSato/irisboard/pkg/log"
	"github.com/YuminosukeSato/irisboard/session"
	"github.com/YuminosukeSato/irisboard/web"
)

const shutdownTimeout = 5 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the dashboard web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagAddr,
				Usage: "listen address, overrides server.addr",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, board, cleanup, err := bootstrap(c, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	if c.IsSet(flagAddr) {
		cfg.Server.Addr = c.String(flagAddr)
	}
	logger := log.GetLoggerWithName("irisboard")

	cache, err := charts.NewCache(charts.DefaultCacheSize)
	if err != nil {
		return err
	}
	sessions := session.NewStore(session.Config{
		Size:       cfg.Session.Size,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})
	app, err := web.NewApp(board, sessions,
		web.WithLogger(log.GetLoggerWithName("web")),
		web.WithChartCache(cache),
	)
	if err != nil {
		return err
	}
	srv := web.NewServer(web.ServerConfig{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, app)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
