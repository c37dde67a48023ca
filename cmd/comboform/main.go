package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-comboform/internal/config"
	"github.com/goliatone/go-comboform/internal/logging"
	"github.com/goliatone/go-comboform/pkg/render"
	"github.com/goliatone/go-comboform/pkg/renderers/prompt"
	"github.com/goliatone/go-comboform/pkg/renderers/tui"
	"github.com/goliatone/go-comboform/pkg/renderers/web"
	"github.com/goliatone/go-comboform/pkg/session"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "comboform: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("comboform", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "settings file (.yaml, .yml, .json, .jsonc)")
	mode := flags.String("mode", "", "front-end: auto, tui, prompt or web")
	addr := flags.String("addr", "", "listen address for the web front-end")
	output := flags.String("output", "", "format of the accepted values on quit: json, form or pretty")
	logLevel := flags.String("log-level", "", "debug, info, warn or error")
	logFormat := flags.String("log-format", "", "text or json (default: detect terminal)")
	noColor := flags.Bool("no-color", false, "disable terminal colours")
	schemaPath := flags.String("schema", "", "OpenAPI document describing the form (embedded form when empty)")
	operation := flags.String("operation", "", "operation ID whose request body is the form")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if flags.Changed("mode") {
		cfg.Mode = *mode
	}
	if flags.Changed("addr") {
		cfg.Addr = *addr
	}
	if flags.Changed("output") {
		cfg.Output = *output
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = *logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = *logFormat
	}
	if flags.Changed("no-color") {
		cfg.NoColor = *noColor
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flags.Changed("schema") || flags.Changed("operation") {
		if flags.Changed("schema") {
			cfg.Schema = *schemaPath
		}
		if flags.Changed("operation") {
			cfg.Operation = *operation
		}
		if err := cfg.LoadSchema(context.Background(), ""); err != nil {
			return err
		}
	}

	logger := logging.New(stderr, logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	newSession := func() (*session.Session, error) {
		opts := append(cfg.SessionOptions(), session.WithLogger(logger))
		return session.New(opts...)
	}
	s, err := newSession()
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg, logger, stdout, newSession)
	if err != nil {
		return err
	}

	name := cfg.Mode
	if name == config.ModeAuto {
		name = config.ModeWeb
		if logging.IsTerminal(os.Stdin) && logging.IsTerminal(stdout) {
			name = config.ModeTUI
		}
	}
	renderer, err := registry.Get(name)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("starting", "mode", name, "renderers", registry.List())
	if err := renderer.Run(ctx, s); err != nil {
		if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	if name == config.ModeTUI {
		out, err := prompt.Serialize(prompt.OutputFormat(cfg.Output), s.Log().Values())
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}
	return nil
}

func buildRegistry(cfg config.Config, logger *slog.Logger, stdout io.Writer, factory web.SessionFactory) (*render.Registry, error) {
	registry := render.NewRegistry()

	registry.MustRegister(prompt.New(
		prompt.WithOutputFormat(prompt.OutputFormat(cfg.Output)),
		prompt.WithOutput(stdout),
		prompt.WithLogger(logger),
	))
	registry.MustRegister(tui.New(
		tui.WithOutput(stdout),
		tui.WithNoColor(cfg.NoColor),
		tui.WithLogger(logger),
	))

	webOpts := []web.Option{
		web.WithAddr(cfg.Addr),
		web.WithTheme(cfg.Theme.Name, cfg.Theme.Variant),
		web.WithLogger(logger),
		web.WithSessionFactory(factory),
	}
	webRenderer, err := web.New(webOpts...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(webRenderer); err != nil {
		return nil, err
	}
	return registry, nil
}
