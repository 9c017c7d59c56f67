package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultNetworkAddress is the colony network contract on mainnet.
	DefaultNetworkAddress = "0x5346D0f80e2816FaD329F2c140c870ffc3c3E2Ef"
	// DefaultColonyAddress is the colony whose feed is built when none is configured.
	DefaultColonyAddress = "0x869814034d96544f3C62DE2aC22448ed79Ac8e70"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	NetworkAddress common.Address
	VerifyColony   bool
	ColonyAddress  common.Address
	Format         string
	Out            string
	LogLevel       string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("format", "json")
		v.SetDefault("out", "-")
	})
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:   v.GetString("rpc"),
		Format:   v.GetString("format"),
		Out:      v.GetString("out"),
		LogLevel: v.GetString("log-level"),
	}
	if err := loadAddresses(v, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("COLONYFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("network-address", DefaultNetworkAddress)
	v.SetDefault("colony-address", DefaultColonyAddress)
	v.SetDefault("verify-colony", true)
	v.SetDefault("log-level", "info")
	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func loadAddresses(v *viper.Viper, cfg *Config) error {
	network, err := parseAddress("network-address", v.GetString("network-address"))
	if err != nil {
		return err
	}
	colony, err := parseAddress("colony-address", v.GetString("colony-address"))
	if err != nil {
		return err
	}
	cfg.NetworkAddress = network
	cfg.ColonyAddress = colony
	cfg.VerifyColony = v.GetBool("verify-colony")
	return nil
}

func parseAddress(key, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s: %q", key, value)
	}
	return common.HexToAddress(value), nil
}
