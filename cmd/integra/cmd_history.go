package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"integra/internal/format"
	"integra/internal/store"
)

var historyFlags struct {
	output string
	limit  int
	dbPath string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded Φ measurements",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.output, "output", "ascii", "Output format (ascii, markdown)")
	f.IntVar(&historyFlags.limit, "limit", 20, "Maximum number of runs to show (0 = all)")
	f.StringVar(&historyFlags.dbPath, "db", "", "History database path (default ~/.integra/history.db)")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(historyFlags.output)
	if err != nil {
		return err
	}
	path := historyFlags.dbPath
	if path == "" {
		path = historyPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(historyFlags.limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}

	tb := format.NewTable(mode)
	tb.Header("When", "System", "Phi", "Method", "MIP", "Partitions", "ms")
	for _, r := range runs {
		tb.Row(r.CreatedAt, r.System, format.FmtPhi(r.Phi), r.Method,
			format.Truncate(r.MIP, 24), r.PartitionsEvaluated, r.ElapsedMS)
	}
	tb.AlignRight(3, 6, 7)
	fmt.Fprintln(out, tb.String())
	return nil
}
