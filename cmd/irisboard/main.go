// Command irisboard serves the iris classifier dashboard and offers
// one-shot prediction and model inspection from the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/YuminosukeSato/irisboard/artifact"
	"github.com/YuminosukeSato/irisboard/config"
	"github.com/YuminosukeSato/irisboard/dashboard"
	"github.com/YuminosukeSato/irisboard/dataset"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

const (
	flagConfig = "config"
	flagModel  = "model"
	flagAddr   = "addr"
	flagJSON   = "json"
	flagOut    = "out"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "irisboard:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "irisboard",
		Usage: "iris species classifier dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				EnvVars: []string{"IRISBOARD_CONFIG"},
			},
			&cli.StringFlag{
				Name:  flagModel,
				Usage: "model artifact path (.json or .gob); the embedded model when empty",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			predictCommand(),
			inspectCommand(),
			exportCommand(),
		},
	}
}

// bootstrap loads the config, installs the loggers and builds the dashboard.
// Logs go to the rotating file when one is configured, otherwise to logOut.
func bootstrap(c *cli.Context, logOut io.Writer) (*config.Config, *dashboard.Dashboard, func(), error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return nil, nil, nil, err
	}
	if c.IsSet(flagModel) {
		cfg.Model.Path = c.String(flagModel)
	}

	cleanup := func() {}
	w := logOut
	if cfg.Log.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   true,
		}
		w = rotating
		cleanup = func() { _ = rotating.Close() }
	}
	if err := log.SetupLogger(cfg.Log.Level, w); err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	errors.SetZerologWarnFunc(log.ZerologWarnFunc(w))

	b, err := artifact.Load(cfg.Model.Path)
	if err != nil {
		cleanup()
		return nil, nil, nil, errors.Wrap(err, "load model")
	}
	ds, err := dataset.Load()
	if err != nil {
		cleanup()
		return nil, nil, nil, errors.Wrap(err, "load dataset")
	}
	board, err := dashboard.Build(b, ds, log.GetLoggerWithName("dashboard"))
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return cfg, board, cleanup, nil
}
