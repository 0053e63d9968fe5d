package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	BotToken    string `env:"BOT_TOKEN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`
	Timezone    string `env:"TIMEZONE" envDefault:"UTC"`

	// LLM extraction
	LLMAPIKey    string `env:"LLM_API_KEY,required"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	RateLimitRPS int    `env:"RATE_LIMIT_RPS" envDefault:"1"`

	// Catalog search backend
	CatalogBaseURL   string        `env:"CATALOG_BASE_URL" envDefault:"https://world.openfoodfacts.org"`
	CatalogTimeout   time.Duration `env:"CATALOG_TIMEOUT" envDefault:"15s"`
	CatalogRPS       float64       `env:"CATALOG_RPS" envDefault:"5"`
	CatalogPageSize  int           `env:"CATALOG_PAGE_SIZE" envDefault:"20"`
	CatalogUserAgent string        `env:"CATALOG_USER_AGENT" envDefault:"nutrition-bot/1.0"`

	// Disambiguation gate
	BrandGateEnforced       bool    `env:"BRAND_GATE_ENFORCED" envDefault:"true"`
	HardBlocksEnabled       bool    `env:"HARD_BLOCKS_ENABLED" envDefault:"true"`
	CategoryMatchBoost      float64 `env:"CATEGORY_MATCH_BOOST" envDefault:"3"`
	CategoryConflictPenalty float64 `env:"CATEGORY_CONFLICT_PENALTY" envDefault:"5"`

	// Resolver memoization
	ResolverCacheMaxItems int           `env:"RESOLVER_CACHE_MAX_ITEMS" envDefault:"500"`
	ResolverCacheTTL      time.Duration `env:"RESOLVER_CACHE_TTL" envDefault:"1h"`

	// Similar-meal short-circuit
	SimilarMealEnabled   bool          `env:"SIMILAR_MEAL_ENABLED" envDefault:"true"`
	SimilarMealThreshold float32       `env:"SIMILAR_MEAL_THRESHOLD" envDefault:"0.92"`
	SimilarMealLookback  time.Duration `env:"SIMILAR_MEAL_LOOKBACK" envDefault:"720h"`

	// Pool sizing
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
