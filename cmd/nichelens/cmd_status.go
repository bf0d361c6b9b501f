package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"nichelens-be/internal/pkg/logger"
	"nichelens-be/pkg/gateway"

	"github.com/spf13/cobra"
)

var (
	logsLevel string
	logsLimit int
	logsFile  string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), gateway.DefaultHealthTimeout)
		defer cancel()
		current.out.Status(current.bench.Status(ctx), current.cfg.BackendURL)
		current.out.Session(current.sessions.Current())
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent client log entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

var guideCmd = &cobra.Command{
	Use:     "guide",
	Aliases: []string{"manual"},
	Short:   "Show the manual",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current.out.Guide()
		return nil
	},
}

func init() {
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "only show this level (debug, info, warn, error)")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "maximum entries to show")
	logsCmd.Flags().StringVar(&logsFile, "file", "", "read another log file, such as the backend's logs/app.log")

	rootCmd.AddCommand(statusCmd, logsCmd, guideCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	source := current.log
	if logsFile != "" {
		source = logger.NewIsolatedLogger(filepath.Clean(logsFile))
	}

	entries, err := source.Tail(strings.ToUpper(logsLevel), logsLimit)
	if err != nil {
		return fmt.Errorf("failed to read logs: %w", err)
	}
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no log entries")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %-5s %-10s %s", e.Timestamp, e.Level, e.Module, e.Message)
		for k, v := range e.Details {
			fmt.Fprintf(w, " %s=%v", k, v)
		}
		fmt.Fprintln(w)
	}
	return nil
}
