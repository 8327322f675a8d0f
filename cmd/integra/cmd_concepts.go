package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"integra/internal/format"
	"integra/internal/phi"
	"integra/internal/workspace"
)

var conceptsFlags struct {
	output string
}

var conceptsCmd = &cobra.Command{
	Use:   "concepts <system-file>",
	Short: "Identify the cause-effect structure of a system",
	Args:  cobra.ExactArgs(1),
	RunE:  runConcepts,
}

func init() {
	conceptsCmd.Flags().StringVar(&conceptsFlags.output, "output", "ascii", "Output format (ascii, markdown)")
}

func runConcepts(cmd *cobra.Command, args []string) error {
	mode, err := format.ParseMode(conceptsFlags.output)
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

	ces, err := phi.IdentifyConcepts(cmd.Context(), model, cfg)
	if err != nil {
		return fmt.Errorf("identify concepts: %w", err)
	}

	out := cmd.OutOrStdout()
	if ces.Count() == 0 {
		fmt.Fprintf(out, "%s specifies no concepts above the threshold\n", model.Name)
		return nil
	}

	tb := format.NewTable(mode)
	tb.Header("Mechanism", "Phi", "Phi(cause)", "Phi(effect)", "Cause purview", "Effect purview")
	for _, c := range ces.Concepts {
		tb.Row(fmt.Sprintf("%v", c.Mechanism),
			format.FmtPhi(c.Phi), format.FmtPhi(c.PhiCause), format.FmtPhi(c.PhiEffect),
			fmt.Sprintf("%v", c.CausePurview), fmt.Sprintf("%v", c.EffectPurview))
	}
	tb.Footer("", format.FmtPhi(ces.MeanPhi()), "", "", "", fmt.Sprintf("max %s", format.FmtPhi(ces.MaxPhi())))
	tb.AlignRight(2, 3, 4)
	fmt.Fprintln(out, tb.String())
	return nil
}
