package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/qgen/internal/app"
	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/export"
)

// runApp loads settings, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive UI needs a terminal; use 'qgen generate' for scripted use")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	params, err := cfg.Params()
	if err != nil {
		return err
	}

	contextText, err := readContext(cmd)
	if err != nil {
		return err
	}

	opts := app.Options{
		Client:   client,
		Exporter: export.NewExporter(cfg.OutputDir),
		Context:  contextText,
		Params:   params,
		Log:      log,
	}

	if len(args) == 1 {
		f, err := document.Open(args[0])
		if err != nil {
			return err
		}
		if err := document.Validate(f); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		opts.File = &f
	}

	log.WithField("api_url", cfg.APIURL).Info("starting ui")
	return app.Run(opts)
}
