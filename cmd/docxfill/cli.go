package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill"
)

var version = "0.1.0"

// Globals holds the flags shared by every command.
type Globals struct {
	LogLevel    string `default:"" enum:",debug,info,warn,error,off" help:"Log verbosity (overrides DOCXFILL_LOG_LEVEL)." name:"log-level" placeholder:"LEVEL"`
	LocaleTable string `help:"JSON or YAML translation table." name:"locales" type:"existingfile" placeholder:"FILE"`
}

// CLI is the top-level command-line interface for docxfill.
type CLI struct {
	Globals Globals `embed:""`

	Render  renderCmd  `cmd:"" help:"Render a template with data."`
	Check   checkCmd   `cmd:"" help:"Report placeholders the data does not satisfy."`
	Locales localesCmd `cmd:"" help:"List the locales of the translation table."`
	Version versionCmd `cmd:"" help:"Show version information."`
}

// Run parses args and executes the selected command. Command output goes to
// stdout; logs go to stderr.
func Run(ctx context.Context, exit func(code int), stdout io.Writer, args ...string) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("docxfill"),
		kong.Description("Fill placeholders in DOCX templates from JSON or YAML data."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, os.Stderr),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
		kong.Vars{"profileModes": strings.Join(profileModeNames(), ",")},
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(stdout, (*io.Writer)(nil)),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	config, err := cli.Globals.config()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(config.LogLevel),
	}))

	return ktx.Run(&cli.Globals, config, logger)
}

// config merges the DOCXFILL_* environment with the command-line flags.
func (g *Globals) config() (*docxfill.Config, error) {
	config := docxfill.ConfigFromEnvironment()
	if g.LogLevel != "" {
		config.LogLevel = g.LogLevel
	}
	if g.LocaleTable != "" {
		config.LocaleTable = g.LocaleTable
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func newEngine(config *docxfill.Config) *docxfill.Engine {
	logger := docxfill.NewLogger(os.Stderr, docxfill.ParseLogLevel(config.LogLevel))
	return docxfill.NewWithOptions(config, docxfill.WithLogger(logger))
}

func slogLevel(level string) slog.Level {
	switch docxfill.ParseLogLevel(level) {
	case docxfill.LogDebug:
		return slog.LevelDebug
	case docxfill.LogInfo:
		return slog.LevelInfo
	case docxfill.LogWarn:
		return slog.LevelWarn
	case docxfill.LogError:
		return slog.LevelError
	}
	return slog.LevelError + 1
}

type versionCmd struct{}

func (versionCmd) Run(out io.Writer) error {
	_, err := fmt.Fprintf(out, "docxfill version %s\n", version)
	return err
}
