package predict

// defaultMaxBodyBytes matches the PM10_MAX_BODY_BYTES default.
const defaultMaxBodyBytes = 4 << 20

type Config struct {
	MaxBodyBytes int64 `envconfig:"PM10_MAX_BODY_BYTES" default:"4194304"`
}
