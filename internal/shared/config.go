package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"hotel_search/internal/domain"
)

const (
	SourceJSON  = "json"
	SourceMySQL = "mysql"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	AllowedOrigins []string

	DataSource  string
	DatasetPath string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	SeedWorkers int

	APIBaseURL string
	APIRPS     int

	DefaultLimit int
	MaxLimit     int
}

// Load reads the environment, after an optional .env file. Variables already
// set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":3001"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		AllowedOrigins: list(env("CORS_ORIGINS", "*")),
		DataSource:     strings.ToLower(env("DATA_SOURCE", SourceJSON)),
		DatasetPath:    env("DATASET_PATH", "data/database.json"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SeedWorkers:    atoi("SEED_WORKERS", 8),
		APIBaseURL:     env("API_BASE_URL", "http://localhost:3001/api"),
		APIRPS:         atoi("API_RPS", 10),
		DefaultLimit:   atoi("DEFAULT_LIMIT", domain.DefaultLimit),
		MaxLimit:       atoi("MAX_LIMIT", domain.MaxLimit),
	}

	if c.DataSource != SourceJSON && c.DataSource != SourceMySQL {
		log.Warn().Str("DATA_SOURCE", c.DataSource).Msg("unknown data source, using json")
		c.DataSource = SourceJSON
	}
	// the engine never serves more than domain.MaxLimit per page
	if c.MaxLimit < 1 || c.MaxLimit > domain.MaxLimit {
		c.MaxLimit = domain.MaxLimit
	}
	if c.DefaultLimit < 1 || c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = min(domain.DefaultLimit, c.MaxLimit)
	}
	if c.SeedWorkers < 1 {
		c.SeedWorkers = 1
	}
	if c.APIRPS < 1 {
		c.APIRPS = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func list(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
