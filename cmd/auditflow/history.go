package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/auditflow/internal/config"
	"github.com/nao1215/auditflow/internal/model"
	"github.com/nao1215/auditflow/internal/report"
	"github.com/nao1215/auditflow/internal/session"
)

// idPreviewLength is how many characters of a report ID history listings show.
const idPreviewLength = 8

// NewHistoryCmd creates the history command and its subcommands.
// Running "history" on its own lists the saved reports.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show or clear saved audit reports",
		Long: `History manages the reports saved by previous audits.
The 10 most recent reports are kept, newest first.

Examples:
  # List saved reports
  auditflow history

  # Show the three most recent reports as JSON
  auditflow history list -n 3 --json

  # Show a saved report (a unique ID prefix is enough)
  auditflow history show 3f2a9c1e

  # Delete all saved reports
  auditflow history clear`,
		Args: cobra.NoArgs,
		RunE: runHistoryListCmd,
	}
	addHistoryListFlags(cmd)
	addStorageFlags(cmd)

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

// newHistoryListCmd creates the history list command.
func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved audit reports",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	addHistoryListFlags(cmd)
	addStorageFlags(cmd)
	return cmd
}

// addHistoryListFlags registers the listing flags.
func addHistoryListFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", session.MaxHistory,
		"Maximum number of reports to list")
	cmd.Flags().BoolP("json", "j", false,
		"Print the reports as a JSON array")
}

// newHistoryShowCmd creates the history show command.
func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved audit report",
		Long: `Show prints a saved report. Without an ID the most recent report is shown.
A unique prefix of the ID is accepted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryShowCmd,
	}
	cmd.Flags().StringP("format", "F", "",
		"Report format: text, json, markdown, csv, html, pdf, comma-separated for several (default from config)")
	addStorageFlags(cmd)
	return cmd
}

// newHistoryClearCmd creates the history clear command.
func newHistoryClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved audit reports",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	addStorageFlags(cmd)
	return cmd
}

// historyContext loads the configuration, logger and history shared by the
// history subcommands.
func historyContext(cmd *cobra.Command) (*config.Config, *slog.Logger, *session.History, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	history, closeStore, err := loadHistory(commandContext(cmd), cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, logger, history, closeStore, nil
}

// commandContext returns the command's context, or Background if unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runHistoryListCmd executes the history list command.
func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	_, _, history, closeStore, err := historyContext(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	entries := history.Recent(limit)
	out := cmd.OutOrStdout()

	if asJSON {
		_, err := report.NewJSONWriter(out, report.WithPrettyPrint()).WriteHistory(entries)
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No saved reports.")
		return nil
	}
	writeHistoryTable(out, entries)
	if saved, ok := history.LastSaved(commandContext(cmd)); ok {
		fmt.Fprintf(out, "\nLast saved %s\n", saved.Local().Format(time.DateTime))
	}
	return nil
}

// writeHistoryTable prints one line per report, newest first.
func writeHistoryTable(w io.Writer, entries []*model.AuditReport) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Recent audits (%d)", len(entries))))
	for _, r := range entries {
		score := scoreStyle(r.Scores.Overall).Render(fmt.Sprintf("%3d", r.Scores.Overall))
		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			shortID(r.ID),
			r.Timestamp.Local().Format(time.DateTime),
			score,
			r.URL,
		)
	}
}

// runHistoryShowCmd executes the history show command.
// The entry is opened through the session controller, the same transition
// the landing view uses to reopen a past report.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	cfg, logger, history, closeStore, err := historyContext(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}
	entry, err := findEntry(history, ref)
	if err != nil {
		return err
	}

	controller := session.NewController(history, session.WithLogger(logger))
	defer controller.Close()
	if err := controller.LoadFromHistory(entry); err != nil {
		return err
	}
	current := controller.State().Report

	site := cfg.SiteFor(current.URL)
	site.Output = ""
	if cmd.Flags().Changed("format") {
		if site.Format, err = cmd.Flags().GetString("format"); err != nil {
			return err
		}
	}

	paths, err := writeReport(cmd.OutOrStdout(), current, site)
	if err != nil {
		return err
	}
	printSaved(cmd.ErrOrStderr(), paths)
	return nil
}

// runHistoryClearCmd executes the history clear command.
func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	_, logger, history, closeStore, err := historyContext(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	removed := history.Len()
	controller := session.NewController(history, session.WithLogger(logger))
	defer controller.Close()
	if err := controller.ClearHistory(commandContext(cmd)); err != nil {
		return err
	}

	noun := "reports"
	if removed == 1 {
		noun = "report"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "History cleared (%d %s removed).\n", removed, noun)
	return nil
}

// shortID returns the listing form of a report ID.
func shortID(id string) string {
	if len(id) > idPreviewLength {
		return id[:idPreviewLength]
	}
	return id
}
