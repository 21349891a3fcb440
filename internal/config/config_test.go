package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legality.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	p, err := cfg.EncounterPolicy()
	require.NoError(t, err)
	assert.Equal(t, encounter.DefaultPolicy(), p)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
rules_db: /var/lib/legality/rules.db
timeout: 750ms
parallel: 8
log_level: debug
policy: [wild, event, static, trade, egg]
`)
	t.Setenv("LEGALITY_PARALLEL", "2")
	t.Setenv("LEGALITY_DECODER_ADDR", "decoder:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/legality/rules.db", cfg.RulesDB)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 2, cfg.Parallel, "environment wins over the file")
	assert.Equal(t, "decoder:9000", cfg.DecoderAddr)
	assert.Equal(t, "debug", cfg.LogLevel)

	p, err := cfg.EncounterPolicy()
	require.NoError(t, err)
	assert.Equal(t, encounter.KindWild, p[0])
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]struct {
		body string
		env  map[string]string
	}{
		"partial policy":  {body: "policy: [wild, egg]"},
		"unknown level":   {body: "log_level: chatty"},
		"zero parallel":   {body: "parallel: 0"},
		"bad yaml":        {body: "parallel: [1"},
		"bad env timeout": {env: map[string]string{"LEGALITY_TIMEOUT": "soon"}},
		"bad env policy":  {env: map[string]string{"LEGALITY_POLICY": "wild,wild,event,static,trade"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.body != "" {
				path = writeConfig(t, tc.body)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
