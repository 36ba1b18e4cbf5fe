package reqbuilder

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, envconfig.ProcessWith(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{})))

	require.Equal(t, "dataset_E408.csv", cfg.CSVPath)
	require.Equal(t, ".", cfg.OutDir)
	require.Equal(t, 72, cfg.Window)
	require.Equal(t, []int{0, 500, 1500}, cfg.Offsets)
	require.Equal(t, DefaultColumns, cfg.InputColumns())
}

func TestConfigFromEnv(t *testing.T) {
	var cfg Config
	require.NoError(t, envconfig.ProcessWith(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{
		"PM10_REQUESTS_CSV":     "other.csv",
		"PM10_REQUESTS_WINDOW":  "24",
		"PM10_REQUESTS_OFFSETS": "10,20",
		"PM10_REQUESTS_COLUMNS": "PM2.5,clouds",
	})))

	require.Equal(t, "other.csv", cfg.CSVPath)
	require.Equal(t, 24, cfg.Window)
	require.Equal(t, []int{10, 20}, cfg.Offsets)
	require.Equal(t, []string{"PM2.5", "clouds"}, cfg.InputColumns())
}
