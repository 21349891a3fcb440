package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
)

// New builds a production JSON logger at the named level.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	return cfg.Build()
}

// ReportFields summarizes a verdict as structured fields.
func ReportFields(r legality.Report) []zap.Field {
	fields := []zap.Field{
		zap.String("run_id", r.RunID),
		zap.Uint16("species", uint16(r.Species)),
		zap.Stringer("format", r.Format),
		zap.Bool("valid", r.Valid),
		zap.Stringer("method", r.PIDIV.Method),
	}
	if r.Ref != "" {
		fields = append(fields, zap.String("ref", r.Ref))
	}
	if r.Match != nil {
		fields = append(fields, zap.String("match", r.Match.ID))
	}
	if failures := r.Failures(); len(failures) > 0 {
		keys := make([]string, len(failures))
		for i, f := range failures {
			keys[i] = f.String()
		}
		fields = append(fields, zap.Strings("failures", keys))
	}
	return fields
}

// LogReport writes one verdict line: info when valid, warn otherwise.
func LogReport(logger *zap.Logger, r legality.Report) {
	if r.Valid {
		logger.Info("verdict", ReportFields(r)...)
		return
	}
	logger.Warn("verdict", ReportFields(r)...)
}
