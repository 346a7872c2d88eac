package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill"
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/locale"
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
)

type renderCmd struct {
	Template string `arg:"" help:"DOCX template." type:"existingfile"`
	Data     string `arg:"" help:"JSON or YAML data file, or '-' for stdin."`

	Output     string `help:"Output DOCX file, or '-' for stdout." required:"" short:"o"`
	Locale     string `help:"Locale identifier (defaults to the operating system locale)."`
	Watch      bool   `help:"Render again whenever the template or data changes." short:"w"`
	Profile    string `default:"" enum:",${profileModes}" help:"Profile the run (${enum})." placeholder:"MODE"`
	ProfileDir string `default:"." help:"Profile output directory." type:"path"`
}

// Run executes the render command.
func (r *renderCmd) Run(ctx context.Context, config *docxfill.Config, out io.Writer, log *slog.Logger) error {
	if r.Watch && (r.Data == "-" || r.Output == "-") {
		return errors.New("--watch needs a data file and an output file")
	}

	defer startProfile(r.Profile, r.ProfileDir, log)()

	engine := newEngine(config)
	loc, err := engine.Locale(r.Locale)
	if err != nil {
		return err
	}

	if err := r.render(engine, loc, out, log); err != nil {
		if !r.Watch {
			return err
		}
		log.Error("render failed", slog.Any("error", err))
	}
	if !r.Watch {
		return nil
	}

	return watch(ctx, []string{r.Template, r.Data}, log, func() {
		if err := r.render(engine, loc, out, log); err != nil {
			log.Error("render failed", slog.Any("error", err))
		}
	})
}

func (r *renderCmd) render(engine *docxfill.Engine, loc locale.Locale, stdout io.Writer, log *slog.Logger) error {
	start := time.Now()

	tmpl, err := engine.PrepareFile(r.Template)
	if err != nil {
		return err
	}
	data, err := loadData(r.Data)
	if err != nil {
		return err
	}

	err = writeOutput(r.Output, stdout, func(w io.Writer) error {
		return tmpl.RenderTo(w, data, loc)
	})
	if err != nil {
		return err
	}

	log.Info("rendered",
		slog.String("template", r.Template),
		slog.String("output", r.Output),
		slog.String("locale", loc.ID),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

type checkCmd struct {
	Template string `arg:"" help:"DOCX template." type:"existingfile"`
	Data     string `arg:"" help:"JSON or YAML data file, or '-' for stdin."`

	Strict bool `help:"Fail on warnings as well as errors."`
}

// Run executes the check command. Every issue is printed; the command fails
// when any of them is an error, or any at all with --strict.
func (c *checkCmd) Run(config *docxfill.Config, out io.Writer, log *slog.Logger) error {
	tmpl, err := newEngine(config).PrepareFile(c.Template)
	if err != nil {
		return err
	}
	data, err := loadData(c.Data)
	if err != nil {
		return err
	}

	issues := tmpl.Check(data)
	errs := 0
	for _, issue := range issues {
		if issue.Severity == docxfill.IssueSeverityError || c.Strict {
			errs++
		}
		fmt.Fprintln(out, issue)
	}

	log.Info("checked",
		slog.String("template", c.Template),
		slog.Int("references", len(tmpl.References())),
		slog.Int("issues", len(issues)),
	)
	if errs > 0 {
		return fmt.Errorf("%s: %d of %d issues failed the check", c.Template, errs, len(issues))
	}
	return nil
}

type localesCmd struct{}

// Run lists the table's locale identifiers, marking the one renders use by
// default.
func (localesCmd) Run(config *docxfill.Config, out io.Writer) error {
	engine := newEngine(config)
	table, err := engine.LocaleTable()
	if err != nil {
		return err
	}
	current, err := engine.Locale("")
	if err != nil {
		return err
	}

	for _, id := range table.IDs() {
		marker := " "
		if id == current.ID {
			marker = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", marker, id); err != nil {
			return err
		}
	}
	return nil
}

// loadData reads the data tree from path. The extension picks the decoder;
// stdin is read as YAML, which also accepts JSON.
func loadData(path string) (value.Value, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("failed to read data: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return value.ParseJSON(raw)
	case ".yaml", ".yml", "":
		return value.ParseYAML(raw)
	default:
		return value.Value{}, fmt.Errorf("unsupported data file extension %q", ext)
	}
}

// writeOutput writes through a temporary file in the target directory so a
// failed render never leaves a truncated document behind. A path of "-"
// writes to stdout.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".docxfill-*")
	if err != nil {
		return docxfill.NewDocumentError("write", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return docxfill.NewDocumentError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return docxfill.NewDocumentError("write", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return docxfill.NewDocumentError("write", path, err)
	}
	return nil
}
