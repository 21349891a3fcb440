package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/legality/go-checker/internal/batch"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

var batchFlags struct {
	parallel int
	reports  bool
	log      bool
}

var batchCmd = &cobra.Command{
	Use:   "batch <records.json> ...",
	Short: "Verify many records concurrently and print a summary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.IntVar(&batchFlags.parallel, "parallel", 0, "Worker count (0 uses the configured value)")
	f.BoolVar(&batchFlags.reports, "reports", false, "Print every report, not only the summary")
	f.BoolVar(&batchFlags.log, "log", false, "Append each verdict to the verdict log")
}

func runBatch(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	records, err := readAll(cmd, args)
	if err != nil {
		return err
	}
	snapshots := make([]entity.Snapshot, len(records))
	for i, r := range records {
		snapshots[i] = r
	}

	parallel := batchFlags.parallel
	if parallel == 0 {
		parallel = rt.cfg.Parallel
	}
	reports, err := batch.Run(cmd.Context(), rt.analyzer, snapshots, parallel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, r := range reports {
		if batchFlags.log {
			if err := rt.logVerdict(r, records[i]); err != nil {
				return err
			}
		}
		if batchFlags.reports {
			if err := writeJSON(out, r); err != nil {
				return err
			}
		}
	}

	s := batch.Summarize(reports)
	rt.logger.Info("batch complete",
		zap.Int("total", s.Total),
		zap.Int("valid", s.Valid),
		zap.Int("invalid", s.Invalid),
		zap.Int("parallel", parallel),
	)
	fmt.Fprintf(out, "=== Batch Summary ===\n")
	fmt.Fprintf(out, "Total:   %d\n", s.Total)
	fmt.Fprintf(out, "Valid:   %d\n", s.Valid)
	fmt.Fprintf(out, "Invalid: %d\n", s.Invalid)
	for _, r := range reports {
		if r.Valid {
			continue
		}
		var keys []string
		for _, f := range r.Failures() {
			keys = append(keys, string(f.Check)+"/"+f.Key)
		}
		fmt.Fprintf(out, "  %-20s %s\n", r.Ref, strings.Join(keys, ", "))
	}
	return nil
}
