package reqbuilder

// DefaultColumns is the model input contract, in output order.
var DefaultColumns = []string{
	"PM2.5", "temperature", "rain", "pressure", "precipitation", "wind_speed",
	"hour_sin", "hour_cos", "dow_sin", "dow_cos", "month_sin", "month_cos",
	"is_weekend",
	"clouds",
}

type Config struct {
	CSVPath string   `env:"PM10_REQUESTS_CSV, default=dataset_E408.csv"`
	OutDir  string   `env:"PM10_REQUESTS_OUT_DIR, default=."`
	Window  int      `env:"PM10_REQUESTS_WINDOW, default=72"`
	Offsets []int    `env:"PM10_REQUESTS_OFFSETS, default=0,500,1500"`
	Columns []string `env:"PM10_REQUESTS_COLUMNS"`
}

// InputColumns returns the configured columns or DefaultColumns.
func (c *Config) InputColumns() []string {
	if len(c.Columns) == 0 {
		return DefaultColumns
	}
	return c.Columns
}
