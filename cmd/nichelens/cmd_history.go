package main

import (
	"errors"
	"fmt"

	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/workbench"

	"github.com/spf13/cobra"
)

var clearConfirmed bool

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"archive"},
	Short:   "List past analyses, newest first",
	Long: `Lists the active archive. Signed-in accounts use the synced archive on the
backend; otherwise entries live on this device (the 30 most recent).`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Reopen an archived result without calling the backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete one archived entry",
	Args:    cobra.ExactArgs(1),
	RunE:    runHistoryRm,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Wipe the active archive",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyClearCmd.Flags().BoolVarP(&clearConfirmed, "yes", "y", false, "confirm wiping the archive")

	historyCmd.AddCommand(historyShowCmd, historyRmCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	items, err := current.bench.History(cmd.Context())
	if err != nil {
		return errors.New(analysis.UserMessage(err))
	}
	current.out.History(items, current.sessions.Current().UsesRemote())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	state, err := current.bench.SelectHistoryByID(cmd.Context(), args[0])
	if err != nil {
		return errors.New(analysis.UserMessage(err))
	}
	current.out.State(state)
	return nil
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	if err := current.bench.DeleteHistory(cmd.Context(), args[0]); err != nil {
		return errors.New(analysis.UserMessage(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	err := current.bench.ClearHistory(cmd.Context(), clearConfirmed)
	if errors.Is(err, workbench.ErrNotConfirmed) {
		return errors.New("refusing to wipe the archive without --yes")
	}
	if err != nil {
		return errors.New(analysis.UserMessage(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "archive cleared")
	return nil
}
