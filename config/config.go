package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// Server configuration
	Server struct {
		// Port the HTTP API listens on
		Port int `env:"SERVER_PORT" envDefault:"5250"`

		// Allowed CORS origins, comma separated
		CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*"`
	}

	// Sheet configuration for the published spreadsheet source
	Sheet struct {
		// Base URL of the published spreadsheet (gviz endpoint root)
		URL string `env:"SHEET_URL"`

		// Name of the sheet tab holding the price table
		Name string `env:"SHEET_NAME" envDefault:"Данные"`

		// Exact header labels of the required columns
		NameColumn     string `env:"SHEET_NAME_COLUMN" envDefault:"Название"`
		ClassColumn    string `env:"SHEET_CLASS_COLUMN" envDefault:"Класс"`
		DistrictColumn string `env:"SHEET_DISTRICT_COLUMN" envDefault:"Район"`

		// Case-insensitive prefix identifying time-series price columns
		PricePrefix string `env:"SHEET_PRICE_PREFIX" envDefault:"Цена"`

		// Timeout for a single fetch attempt
		FetchTimeout time.Duration `env:"SHEET_FETCH_TIMEOUT" envDefault:"15s"`

		// Maximum number of fetch attempts per refresh
		MaxRetries int `env:"SHEET_MAX_RETRIES" envDefault:"3"`

		// Base delay between attempts, doubled after each failure
		RetryDelay time.Duration `env:"SHEET_RETRY_DELAY" envDefault:"2s"`
	}

	// Refresh configuration
	Refresh struct {
		// Interval between scheduled refreshes
		Interval time.Duration `env:"REFRESH_INTERVAL" envDefault:"1h"`
	}

	// Forecast configuration
	Forecast struct {
		// Default market activity on the 0-1 scale when not supplied
		MarketActivity float64 `env:"FORECAST_MARKET_ACTIVITY" envDefault:"0.5"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
