package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	BidIncrement    float64       `mapstructure:"BID_INCREMENT"`
	AuctionDuration time.Duration `mapstructure:"AUCTION_DURATION"`
	CallProviderURL string        `mapstructure:"CALL_PROVIDER_URL"`
}

// Load reads configuration from an optional app.env file in the given path,
// with environment variables taking precedence. Defaults let the binary run
// with no configuration at all.
func Load(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", ":8000")
	v.SetDefault("BID_INCREMENT", 1.0)
	v.SetDefault("AUCTION_DURATION", time.Hour)
	v.SetDefault("CALL_PROVIDER_URL", "")

	for _, key := range []string{"SERVER_ADDRESS", "BID_INCREMENT", "AUCTION_DURATION", "CALL_PROVIDER_URL"} {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&cfg)
	return
}
