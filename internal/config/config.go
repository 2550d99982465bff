package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Registrars RegistrarsConfig
	Search     SearchConfig
	Scheduler  SchedulerConfig
	Mimir      MimirConfig
	Demo       DemoConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

// DatabaseConfig selects the store. An empty URL keeps everything in memory.
type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdleConns   int
}

// RedisConfig is optional. Without a URL the search cache stays in process
// and the scheduler cannot run.
type RedisConfig struct {
	URL string
}

type RegistrarsConfig struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	RateLimit  float64
	RateBurst  int
	GoDaddy    GoDaddyConfig
	Namecheap  NamecheapConfig
	Dynadot    DynadotConfig
}

type GoDaddyConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

type NamecheapConfig struct {
	BaseURL  string
	ClientIP string
	APIKey   string
	Username string
}

type DynadotConfig struct {
	BaseURL string
	APIKey  string
}

type SearchConfig struct {
	CacheTTL    time.Duration
	Concurrency int
}

type SchedulerConfig struct {
	SyncSpec    string
	WorkerCount int
	JobTimeout  time.Duration
	MaxRetries  int
}

type MimirConfig struct {
	URL           string
	TenantHeader  string
	Tenant        string
	BatchSize     int
	FlushInterval time.Duration
	AuthToken     string
}

type DemoConfig struct {
	Seed          bool
	DefaultUserID string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("DOMAINHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.maxconnections", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("registrars.timeout", "30s")
	v.SetDefault("registrars.maxretries", 3)
	v.SetDefault("registrars.backoff", "500ms")
	v.SetDefault("registrars.ratelimit", 5.0)
	v.SetDefault("registrars.rateburst", 5)
	v.SetDefault("registrars.godaddy.baseurl", "https://api.godaddy.com")
	v.SetDefault("registrars.namecheap.baseurl", "https://api.namecheap.com/xml.response")
	v.SetDefault("registrars.namecheap.clientip", "127.0.0.1")
	v.SetDefault("registrars.dynadot.baseurl", "https://api.dynadot.com/api3.json")
	v.SetDefault("search.cachettl", "60s")
	v.SetDefault("search.concurrency", 4)
	v.SetDefault("scheduler.syncspec", "@every 6h")
	v.SetDefault("scheduler.workercount", 4)
	v.SetDefault("scheduler.jobtimeout", "5m")
	v.SetDefault("scheduler.maxretries", 3)
	v.SetDefault("mimir.tenantheader", "X-Scope-OrgID")
	v.SetDefault("mimir.tenant", "domainhub")
	v.SetDefault("mimir.batchsize", 1000)
	v.SetDefault("mimir.flushinterval", "10s")
	v.SetDefault("demo.seed", true)
	v.SetDefault("demo.defaultuserid", "mock-user-123")
	v.SetDefault("log.level", "info")

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Override with environment variables
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	}
	if url := os.Getenv("MIMIR_URL"); url != "" {
		cfg.Mimir.URL = url
	}
	if token := os.Getenv("MIMIR_AUTH_TOKEN"); token != "" {
		cfg.Mimir.AuthToken = token
	}
	if key := os.Getenv("GODADDY_API_KEY"); key != "" {
		cfg.Registrars.GoDaddy.APIKey = key
	}
	if secret := os.Getenv("GODADDY_API_SECRET"); secret != "" {
		cfg.Registrars.GoDaddy.APISecret = secret
	}
	if key := os.Getenv("NAMECHEAP_API_KEY"); key != "" {
		cfg.Registrars.Namecheap.APIKey = key
	}
	if user := os.Getenv("NAMECHEAP_USERNAME"); user != "" {
		cfg.Registrars.Namecheap.Username = user
	}
	if ip := os.Getenv("NAMECHEAP_CLIENT_IP"); ip != "" {
		cfg.Registrars.Namecheap.ClientIP = ip
	}
	if token := os.Getenv("DYNADOT_API_TOKEN"); token != "" {
		cfg.Registrars.Dynadot.APIKey = token
	}

	return &cfg, nil
}
