package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Config
	Listen  string
	Metrics bool
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("listen", ":8080")
		v.SetDefault("metrics", true)
	})
	if err != nil {
		return ServeConfig{}, err
	}

	cfg := ServeConfig{
		Config: Config{
			RPCURL:   v.GetString("rpc"),
			LogLevel: v.GetString("log-level"),
		},
		Listen:  v.GetString("listen"),
		Metrics: v.GetBool("metrics"),
	}
	if err := loadAddresses(v, &cfg.Config); err != nil {
		return ServeConfig{}, err
	}
	return cfg, nil
}
