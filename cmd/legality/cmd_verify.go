package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/legality/go-checker/internal/accessor"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/logging"
)

var verifyFlags struct {
	raw    bool
	log    bool
	strict bool
}

var verifyCmd = &cobra.Command{
	Use:   "verify <records.json|-> ...",
	Short: "Verify records and print one JSON report per record",
	Long: "verify reads decoded records as JSON. With --raw each argument is a raw\n" +
		"record file sent to the decoder service first.",
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.BoolVar(&verifyFlags.raw, "raw", false, "Arguments are raw record files for the decoder")
	f.BoolVar(&verifyFlags.log, "log", false, "Append each verdict to the verdict log")
	f.BoolVar(&verifyFlags.strict, "strict", false, "Exit non-zero when any record is invalid")
}

func runVerify(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	var records []entity.Record
	if verifyFlags.raw {
		records, err = decodeRaw(cmd.Context(), rt, args)
	} else {
		records, err = readAll(cmd, args)
	}
	if err != nil {
		return err
	}

	invalid := 0
	for _, rec := range records {
		info, err := rt.analyzer.Verify(rec)
		if err != nil {
			return fmt.Errorf("verify %s: %w", rec.Ref, err)
		}
		report := info.Report()
		logging.LogReport(rt.logger, report)
		if verifyFlags.log {
			if err := rt.logVerdict(report, rec); err != nil {
				return err
			}
		}
		if !report.Valid {
			invalid++
		}
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	}
	if verifyFlags.strict && invalid > 0 {
		return fmt.Errorf("%d of %d records invalid", invalid, len(records))
	}
	return nil
}

func readAll(cmd *cobra.Command, paths []string) ([]entity.Record, error) {
	var out []entity.Record
	for _, p := range paths {
		recs, err := readRecords(p, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// decodeRaw sends every file to the decoder, one call per file.
func decodeRaw(ctx context.Context, rt *runtime, paths []string) ([]entity.Record, error) {
	client, err := accessor.NewDecoderClient(rt.cfg.DecoderAddr)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	out := make([]entity.Record, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		callCtx, cancel := context.WithTimeout(ctx, rt.cfg.Timeout)
		rec, err := client.Decode(callCtx, data, p)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", p, err)
		}
		rt.logger.Debug("record decoded", zap.String("ref", rec.Ref), zap.Uint16("species", uint16(rec.SpeciesID)))
		out = append(out, rec)
	}
	return out, nil
}

func (rt *runtime) logVerdict(report legality.Report, rec entity.Snapshot) error {
	entry, err := logging.EntryFromReport(report, rec, rt.set.SetID)
	if err != nil {
		return err
	}
	return logging.LogVerdict(rt.store.DB(), entry)
}
