package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var historyLimit int

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored simulation reports",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of reports to list")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored report",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}
	show.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	cmd.AddCommand(show)
	return cmd
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	s, err := state.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	renderSummaries(os.Stdout, list)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	s, err := state.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printTitle("Stored Report")
	renderReport(os.Stdout, report)
	return nil
}
