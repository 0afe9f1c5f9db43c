package calc

import (
	"cmp"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	defaultRedisAddr = "localhost:6379"
	defaultChannel   = "calc_results"
	defaultPort      = "8080"
)

// Settings configure publishing and the live feed.
type Settings struct {
	RedisAddr string `toml:"redis"`
	Channel   string `toml:"channel"`
	Port      string `toml:"port"`
}

// SettingsFlags are the raw flag values, empty when not given.
type SettingsFlags struct {
	ConfigPath string
	RedisAddr  string
	Channel    string
	Port       string
}

// ResolveSettings merges flags, environment (CALC_REDIS_ADDR, CALC_CHANNEL,
// CALC_PORT), the optional TOML config file and defaults, in that order of
// precedence.
func ResolveSettings(flags SettingsFlags) (Settings, error) {
	var file Settings
	if flags.ConfigPath != "" {
		if _, err := toml.DecodeFile(flags.ConfigPath, &file); err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", flags.ConfigPath, err)
		}
	}

	return Settings{
		RedisAddr: cmp.Or(flags.RedisAddr, os.Getenv("CALC_REDIS_ADDR"), file.RedisAddr, defaultRedisAddr),
		Channel:   cmp.Or(flags.Channel, os.Getenv("CALC_CHANNEL"), file.Channel, defaultChannel),
		Port:      cmp.Or(flags.Port, os.Getenv("CALC_PORT"), file.Port, defaultPort),
	}, nil
}
