package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	LocalCachePath      string // owner-scoped sqlite fallback for the distribution ledger
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	RatesAPIURL         string // empty disables exchange-rate sync
	RatesSyncSpec       string // cron spec for the scheduled rate sync
}

// Load loads config from env and an optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	switch env {
	case "production":
		dbURL = viper.GetString("DATABASE_URL_PROD")
	case "test":
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}

	cachePath := viper.GetString("LOCAL_CACHE_PATH")
	if cachePath == "" {
		cachePath = "wealthcircle-cache.db"
	}

	syncSpec := viper.GetString("RATES_SYNC_CRON")
	if syncSpec == "" {
		syncSpec = "0 6 * * *"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		LocalCachePath:      cachePath,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		RatesAPIURL:         viper.GetString("RATES_API_URL"),
		RatesSyncSpec:       syncSpec,
	}, nil
}
