package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/auditflow/internal/config"
	"github.com/nao1215/auditflow/internal/progress"
	"github.com/nao1215/auditflow/internal/session"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url...]",
		Short: "Audit one or more websites",
		Long: `Audit analyzes each URL and writes a report covering:
- Overall, performance, SEO, security and accessibility scores
- Core Web Vitals style timings
- Detected technologies and cookies
- Prioritized issues with remediation steps
- Estimated business impact

Every report is added to the local history (the 10 most recent are kept).

Examples:
  # Audit a single website
  auditflow audit https://example.com

  # Audit several websites into a directory of Markdown files
  auditflow audit -F markdown -o reports/ https://a.example https://b.example

  # Export a PDF
  auditflow audit -F pdf -o example.pdf https://example.com

  # Save JSON and HTML reports side by side
  auditflow audit -F json,html -o reports/ https://example.com

  # Skip the animation and do not touch the saved history
  auditflow audit --duration 50ms --settle 0s --no-history https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Report flags
	cmd.Flags().StringP("format", "F", config.DefaultFormat,
		"Report format: text, json, markdown, csv, html, pdf (comma-separated for several)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to the given file, or into the given directory when it ends with /")
	cmd.Flags().String("title", "",
		"Document title for HTML and PDF reports")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not show analysis progress")

	// Progress flags
	cmd.Flags().Duration("tick", config.DefaultTick,
		"Interval between progress updates")
	cmd.Flags().Duration("duration", config.DefaultTotalDuration,
		"Time for the analysis to reach 100%")
	cmd.Flags().Duration("settle", config.DefaultSettleDelay,
		"Pause between 100% and the report")

	// History flags
	addStorageFlags(cmd)
	cmd.Flags().Bool("no-history", false,
		"Keep reports of this run out of the saved history")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Reject bad formats before any analysis starts
	for _, target := range cfg.Targets {
		if _, err := siteFormats(cfg.SiteFor(target)); err != nil {
			return fmt.Errorf("configuration error for %s: %w", target, err)
		}
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAudit(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from the configuration file and cobra flags.
// Only flags the user actually set override file settings.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("format") {
		if cfg.Overrides.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
		cfg.Format = cfg.Overrides.Format
	}
	if flags.Changed("output") {
		if cfg.Overrides.Output, err = flags.GetString("output"); err != nil {
			return nil, err
		}
		cfg.OutputFile = cfg.Overrides.Output
	}
	if cfg.Overrides.Title, err = flags.GetString("title"); err != nil {
		return nil, err
	}
	if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if flags.Changed("tick") {
		if cfg.Tick, err = flags.GetDuration("tick"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("duration") {
		if cfg.TotalDuration, err = flags.GetDuration("duration"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("settle") {
		if cfg.SettleDelay, err = flags.GetDuration("settle"); err != nil {
			return nil, err
		}
	}
	if cfg.NoHistory, err = flags.GetBool("no-history"); err != nil {
		return nil, err
	}

	cfg.Targets = args

	return cfg, nil
}

// runAudit audits every target in order. One goroutine drives the session
// while another tears it down as soon as ctx is cancelled, so an interrupt
// stops the running analysis without waiting for its timer.
func runAudit(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	history, closeStore, err := loadHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithSimulatorOptions(
			progress.WithTick(cfg.Tick),
			progress.WithTotalDuration(cfg.TotalDuration),
			progress.WithSettleDelay(cfg.SettleDelay),
		),
	}

	var display *progressDisplay
	if !cfg.Quiet {
		display = newProgressDisplay(stderr)
		opts = append(opts, session.WithProgressListener(display.Update))
	}

	controller := session.NewController(history, opts...)
	defer controller.Close()

	logger.Info("starting audit",
		"targets", len(cfg.Targets),
		"format", cfg.Format,
		"noHistory", cfg.NoHistory,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return auditTargets(gctx, cfg, controller, display, stdout, stderr)
	})
	g.Go(func() error {
		<-gctx.Done()
		controller.Close()
		return nil
	})

	return g.Wait()
}

// auditTargets runs the session once per target: submit, wait for the
// report, write it, and return to the landing view.
func auditTargets(ctx context.Context, cfg *config.Config, controller *session.Controller, display *progressDisplay, stdout, stderr io.Writer) error {
	for i, target := range cfg.Targets {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("audit interrupted: %w", err)
		}

		if display != nil {
			display.Begin(strings.TrimSpace(target), i+1, len(cfg.Targets))
		}
		if err := controller.Submit(target); err != nil {
			return fmt.Errorf("failed to audit %q: %w", target, err)
		}

		r, err := controller.AwaitReport(ctx)
		if display != nil {
			display.Done()
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("audit interrupted: %w", ctxErr)
			}
			return fmt.Errorf("failed to audit %q: %w", target, err)
		}

		paths, err := writeReport(stdout, r, cfg.SiteFor(r.URL))
		if err != nil {
			return fmt.Errorf("failed to write report for %s: %w", r.URL, err)
		}
		if !cfg.Quiet {
			printSaved(stderr, paths)
		}

		if err := controller.Reset(); err != nil {
			return err
		}
	}
	return nil
}
