package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/logging"
)

var verdictsFlags struct {
	last    int
	runID   string
	jsonOut bool
}

var verdictsCmd = &cobra.Command{
	Use:   "verdicts",
	Short: "Inspect the verdict log",
	RunE:  runVerdicts,
}

func init() {
	f := verdictsCmd.Flags()
	f.IntVar(&verdictsFlags.last, "last", 20, "Show N most recent verdicts")
	f.StringVar(&verdictsFlags.runID, "run", "", "Show the full report of one run")
	f.BoolVar(&verdictsFlags.jsonOut, "json", false, "Output as JSON instead of a table")
}

func runVerdicts(cmd *cobra.Command, _ []string) error {
	_, _, store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	limit := verdictsFlags.last
	if verdictsFlags.runID != "" {
		limit = -1
	}
	entries, err := logging.RecentVerdicts(store.DB(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if verdictsFlags.runID != "" {
		for _, e := range entries {
			if e.RunID != verdictsFlags.runID {
				continue
			}
			var report legality.Report
			if err := json.Unmarshal([]byte(e.ReportJSON), &report); err != nil {
				return fmt.Errorf("run %s: %w", e.RunID, err)
			}
			return writeJSON(out, report)
		}
		return fmt.Errorf("run %s not found", verdictsFlags.runID)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no verdicts logged")
		return nil
	}
	if verdictsFlags.jsonOut {
		return writeJSON(out, entries)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tREF\tSPECIES\tVALID\tMATCH\tFAILURES\tLOGGED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\t%s\t%s\n", e.RunID, e.Ref, e.Species, e.Valid,
			orDash(e.MatchID), orDash(e.Failures), e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
