package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/legality/go-checker/internal/logging"
	"github.com/danielpatrickdp/legality/go-checker/internal/replay"
	"github.com/danielpatrickdp/legality/go-checker/internal/rules"
)

var replayFlags struct {
	fromLog bool
	last    int
}

var replayCmd = &cobra.Command{
	Use:   "replay [fixture.json]",
	Short: "Re-verify recorded records and compare with the recorded verdicts",
	Long: "replay runs a fixture against its own rule set. With --from-log it\n" +
		"instead re-verifies the newest logged verdicts against the active rules.",
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var exportFlags struct {
	last int
	out  string
}

var replayExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the newest logged verdicts and the active rules as a fixture",
	RunE:  runReplayExport,
}

func init() {
	replayCmd.Flags().BoolVar(&replayFlags.fromLog, "from-log", false, "Replay the verdict log instead of a fixture")
	replayCmd.Flags().IntVar(&replayFlags.last, "last", 50, "Logged verdicts to replay with --from-log")

	f := replayExportCmd.Flags()
	f.IntVar(&exportFlags.last, "last", 20, "Number of most recent verdicts to export")
	f.StringVar(&exportFlags.out, "out", "", "Output fixture path (required)")
	_ = replayExportCmd.MarkFlagRequired("out")

	replayCmd.AddCommand(replayExportCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replayFlags.fromLog == (len(args) == 1) {
		return fmt.Errorf("give either a fixture path or --from-log")
	}
	if replayFlags.fromLog {
		return runLogReplay(cmd)
	}

	f, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}
	a, err := f.Analyzer(nil)
	if err != nil {
		return fmt.Errorf("fixture rules: %w", err)
	}
	results := replay.Replay(a, f.Snapshots(), f.ExpectedResults)
	return printComparison(cmd.OutOrStdout(), results)
}

func runLogReplay(cmd *cobra.Command) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	entries, err := logging.RecentVerdicts(rt.store.DB(), replayFlags.last)
	if err != nil {
		return err
	}
	f, err := replay.FromVerdicts("verdict log", rules.Set{}, entries)
	if err != nil {
		return err
	}
	results := replay.Replay(rt.analyzer, f.Snapshots(), f.ExpectedResults)
	return printComparison(cmd.OutOrStdout(), results)
}

func runReplayExport(cmd *cobra.Command, _ []string) error {
	_, _, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	set, err := store.Load()
	if err != nil {
		return err
	}
	entries, err := logging.RecentVerdicts(store.DB(), exportFlags.last)
	if err != nil {
		return err
	}
	f, err := replay.FromVerdicts(fmt.Sprintf("exported %d verdicts", len(entries)), set, entries)
	if err != nil {
		return err
	}

	out, err := os.Create(exportFlags.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportFlags.out, err)
	}
	defer out.Close()
	if err := writeJSON(out, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(f.Records), exportFlags.out)
	return nil
}

// #region output

func printComparison(w io.Writer, results []replay.ReplayResult) error {
	fmt.Fprintf(w, "%-4s %-24s %-10s %-8s %s\n", "#", "REF", "ACTION", "VALID", "REASON")
	for i, r := range results {
		valid := "-"
		if r.Report != nil {
			valid = fmt.Sprint(r.Report.Valid)
		}
		fmt.Fprintf(w, "%-4d %-24s %-10s %-8s %s\n", i+1, truncate(r.Ref, 24), r.Action, valid, r.Reason)
	}

	s := replay.Summarize(results)
	fmt.Fprintf(w, "\n=== Replay Summary ===\n")
	fmt.Fprintf(w, "Records:    %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Passes:     %d\n", s.Passes)
	fmt.Fprintf(w, "Mismatches: %d\n", s.Mismatches)
	fmt.Fprintf(w, "Defects:    %d\n", s.Defects)
	if s.Unchecked > 0 {
		fmt.Fprintf(w, "Unchecked:  %d\n", s.Unchecked)
	}
	if s.Mismatches > 0 || s.Defects > 0 {
		return fmt.Errorf("replay: %d mismatches, %d defects", s.Mismatches, s.Defects)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// #endregion output
