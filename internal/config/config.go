package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BSC mainnet defaults matching the contracts the dashboard was built for.
const (
	defaultRPCURL  = "https://bsc-dataseed.binance.org"
	defaultFactory = "0xca143ce32fe78f1f7019d7d551a6402fc5350c73" // PancakeSwap V2 factory
	defaultBase    = "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c" // WBNB
	defaultFeed    = "0x0567F2323251f0Aab15c8dFb1967E4e8A7D42aeE" // Chainlink BNB/USD
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL       string
	Listen       string
	Robot        string
	Token        string
	Factory      string
	Base         string
	OracleFeed   string
	APIBase      string
	PollInterval time.Duration
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
// Environment variables use the BUYBACK_ prefix with dashes mapped to
// underscores, e.g. BUYBACK_ORACLE_FEED.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BUYBACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc", defaultRPCURL)
	v.SetDefault("listen", ":8080")
	v.SetDefault("factory", defaultFactory)
	v.SetDefault("base", defaultBase)
	v.SetDefault("oracle-feed", defaultFeed)
	v.SetDefault("api", "http://127.0.0.1:8080")
	v.SetDefault("poll-interval", 15*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:       v.GetString("rpc"),
		Listen:       v.GetString("listen"),
		Robot:        v.GetString("robot"),
		Token:        v.GetString("token"),
		Factory:      v.GetString("factory"),
		Base:         v.GetString("base"),
		OracleFeed:   v.GetString("oracle-feed"),
		APIBase:      v.GetString("api"),
		PollInterval: v.GetDuration("poll-interval"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
