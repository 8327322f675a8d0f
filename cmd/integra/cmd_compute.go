package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"integra/internal/format"
	"integra/internal/phi"
	"integra/internal/store"
	"integra/internal/workspace"
)

var computeFlags struct {
	output   string
	noRecord bool
	dbPath   string
}

var computeCmd = &cobra.Command{
	Use:   "compute <system-file>",
	Short: "Compute Φ for a system description file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompute,
}

func init() {
	f := computeCmd.Flags()
	f.StringVar(&computeFlags.output, "output", "ascii", "Output format (ascii, markdown)")
	f.BoolVar(&computeFlags.noRecord, "no-record", false, "Skip recording the run in history")
	f.StringVar(&computeFlags.dbPath, "db", "", "History database path (default ~/.integra/history.db)")
}

func runCompute(cmd *cobra.Command, args []string) error {
	mode, err := format.ParseMode(computeFlags.output)
	if err != nil {
		return err
	}
	doc, err := workspace.LoadFromPath(args[0])
	if err != nil {
		return err
	}
	model, err := doc.Model()
	if err != nil {
		return err
	}
	cfg, err := doc.PhiConfig()
	if err != nil {
		return err
	}

	res, err := phi.ComputePhi(cmd.Context(), model, cfg)
	if err != nil {
		return fmt.Errorf("compute phi: %w", err)
	}

	tb := format.NewTable(mode)
	tb.Header("System", "Phi", "Method", "MIP", "Partitions", "Elapsed")
	mip := ""
	if res.MIP != nil {
		mip = res.MIP.String()
	}
	tb.Row(model.Name, format.FmtPhi(res.Phi), res.Method.String(), mip,
		res.PartitionsEvaluated, format.FmtElapsed(res.Elapsed))
	tb.AlignRight(2, 5)
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())

	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "skipped %d partition(s) with numerical failures\n", len(res.Diagnostics))
	}

	if computeFlags.noRecord {
		return nil
	}
	return recordRun(model.Name, res)
}

func recordRun(systemName string, res *phi.Result) error {
	path := computeFlags.dbPath
	if path == "" {
		path = historyPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()
	return st.SaveRun(store.NewRun(uuid.NewString(), "", systemName, res))
}
