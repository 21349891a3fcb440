package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/legality/go-checker/internal/analysis"
	"github.com/danielpatrickdp/legality/go-checker/internal/condition"
	"github.com/danielpatrickdp/legality/go-checker/internal/config"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/logging"
	"github.com/danielpatrickdp/legality/go-checker/internal/rules"
)

// #region runtime

// runtime is everything a verifying command needs, opened from config.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *rules.Store
	set      rules.SetRecord
	analyzer *analysis.Analyzer
}

// openStore loads config and opens the rules database without compiling.
func openStore() (config.Config, *zap.Logger, *rules.Store, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	store, err := rules.NewStore(cfg.RulesDB)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("open rules db: %w", err)
	}
	return cfg, logger, store, nil
}

// openRuntime compiles the active rule set into an analyzer.
func openRuntime() (*runtime, error) {
	cfg, logger, store, err := openStore()
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, store: store}
	if err := rt.compile(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) compile() error {
	set, err := rt.store.Active()
	if err != nil {
		return err
	}
	authored, err := rt.store.LoadSet(set.SetID)
	if err != nil {
		return err
	}
	engine, err := condition.NewEngine()
	if err != nil {
		return err
	}
	tables, err := rules.Compile(authored, rules.Options{
		RevisionConstraint: rt.cfg.RevisionConstraint,
		Conditions:         engine,
	})
	if err != nil {
		return err
	}
	policy, err := rt.cfg.EncounterPolicy()
	if err != nil {
		return err
	}
	rt.set = set
	rt.analyzer = analysis.New(tables, engine, policy, rt.logger.Named("analysis"))
	rt.logger.Debug("rules compiled",
		zap.String("set_id", set.SetID),
		zap.String("revision", tables.Revision()),
		zap.Int("encounters", tables.Len()),
	)
	return nil
}

// Close releases the store and flushes the logger.
func (rt *runtime) Close() {
	rt.store.Close()
	_ = rt.logger.Sync()
}

// #endregion runtime

// #region records

// readRecords decodes a JSON record or array of records from path; "-" reads in.
func readRecords(path string, in io.Reader) ([]entity.Record, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read records %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var recs []entity.Record
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("parse records %s: %w", path, err)
		}
		return recs, nil
	}
	var rec entity.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	return []entity.Record{rec}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion records
