package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, uint64(500), cfg.StakeAmount)
	assert.True(t, cfg.UnlimitedIDs())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "creature-registry", cfg.AppName)
	assert.Equal(t, 2*time.Minute, cfg.AuthCacheTTL)
	assert.Empty(t, cfg.DevBalances)
	assert.Equal(t, "none", cfg.TraceExporter)

	seed, err := cfg.Seed()
	require.NoError(t, err)
	assert.Nil(t, seed)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"PORT":            "9090",
		"STAKE_AMOUNT":    "100",
		"MAX_CREATURE_ID": "3",
		"DEV_BALANCES":    "alice:2000,bob:400",
		"RANDOM_SEED":     "00ff10",
		"LOG_FORMAT":      "json",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, uint64(100), cfg.StakeAmount)
	assert.Equal(t, uint32(3), cfg.MaxCreatureID)
	assert.False(t, cfg.UnlimitedIDs())
	assert.Equal(t, map[string]uint64{"alice": 2000, "bob": 400}, cfg.DevBalances)

	seed, err := cfg.Seed()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0x10}, seed)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad seed":          {"RANDOM_SEED": "xyz"},
		"zero max":          {"MAX_CREATURE_ID": "0"},
		"zero stake":        {"STAKE_AMOUNT": "0"},
		"ledger url only":   {"LEDGER_URL": "http://ledger"},
		"auth key only":     {"AUTH_API_KEY": "k"},
		"max out of range":  {"MAX_CREATURE_ID": "4294967296"},
		"malformed balance": {"DEV_BALANCES": "alice"},
		"unknown exporter":  {"TRACE_EXPORTER": "zipkin"},
	}
	for name, environment := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(environment)
			require.Error(t, err)
		})
	}
}
