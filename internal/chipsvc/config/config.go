package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
	BackendMock     = "mock"
)

type Config struct {
	Port         string `env:"CHIP_SERVICE_PORT" env-default:"8080"`
	StoreBackend string `env:"STORE_BACKEND" env-description:"postgres, mongo, memory or mock; empty picks from the urls"`
	PostgresURL  string `env:"POSTGRES_URL"`
	MongoURI     string `env:"MONGODB_URI"`

	NATS   NATSConfig
	Detect DetectConfig

	JWTSecret   string   `env:"JWT_SECRET_KEY"`
	RateLimit   int      `env:"RATE_LIMIT" env-default:"100"`
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	StoreTimeout     time.Duration `env:"STORE_TIMEOUT" env-default:"10s"`
	NoticeTTL        time.Duration `env:"NOTICE_TTL" env-default:"3s"`
	StatsConcurrency int           `env:"STATS_CONCURRENCY" env-default:"8"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogDir   string `env:"LOG_DIR"`
}

type NATSConfig struct {
	URL     string `env:"NATS_URL"`
	Token   string `env:"NATS_TOKEN"`
	Subject string `env:"NATS_SUBJECT" env-default:"chip.requests"`
}

type DetectConfig struct {
	BaseURL string `env:"DETECT_BASE_URL" env-default:"http://localhost:8000"`
	Path    string `env:"DETECT_PATH" env-default:"/predict/"`
	UseMock bool   `env:"DETECT_USE_MOCK" env-default:"false"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = c.autoBackend()
	}

	switch c.StoreBackend {
	case BackendPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires POSTGRES_URL")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("STORE_BACKEND=mongo requires MONGODB_URI")
		}
	case BackendMemory, BackendMock:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT value: %d", c.RateLimit)
	}
	if c.StatsConcurrency <= 0 {
		c.StatsConcurrency = 1
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 10 * time.Second
	}
	return nil
}

// autoBackend picks postgres, then mongo, and falls back to the mock store
// when neither is configured.
func (c *Config) autoBackend() string {
	switch {
	case c.PostgresURL != "":
		return BackendPostgres
	case c.MongoURI != "":
		return BackendMongo
	default:
		return BackendMock
	}
}

// DetectURL is the full address of the detection endpoint.
func (c *Config) DetectURL() string {
	return strings.TrimRight(c.Detect.BaseURL, "/") + "/" + strings.TrimLeft(c.Detect.Path, "/")
}
