package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/auditflow/internal/config"
)

// NewRootCmd creates the root command for AuditFlow.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auditflow",
		Short: "Website audit report generator",
		Long: `AuditFlow generates website audit reports with scores, performance metrics,
detected technologies, prioritized issues and a business impact estimate.

Reports are kept in a local history of the 10 most recent audits and can be
exported as text, JSON, Markdown, CSV, HTML or PDF.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.LogFormatText, "Log output format: text or json")

	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewShareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
