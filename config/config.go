package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigDataPath         = "data-path"
	ConfigDefaultLexicon   = "default-lexicon"
	ConfigLoadTimeout      = "load-timeout"
	ConfigRackSize         = "rack-size"
	ConfigMinVowels        = "min-vowels"
	ConfigMinWordLength    = "min-word-length"
	ConfigMinSolutions     = "min-solutions"
	ConfigMaxDraws         = "max-draws"
	ConfigQueryParallelism = "query-parallelism"
	ConfigNatsURL          = "nats-url"
	ConfigQuerySubject     = "query-subject"
	ConfigCPUProfile       = "cpu-profile"
)

// Config wraps a viper instance. Values come from, in increasing priority:
// defaults, an optional config.yaml, WORDFORMATIONS_* environment variables,
// and --key=value arguments.
type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDataPath, "./data")
	c.SetDefault(ConfigDefaultLexicon, "words.txt")
	c.SetDefault(ConfigLoadTimeout, 30*time.Second)
	c.SetDefault(ConfigRackSize, 7)
	c.SetDefault(ConfigMinVowels, 2)
	c.SetDefault(ConfigMinWordLength, 0)
	c.SetDefault(ConfigMinSolutions, 0)
	c.SetDefault(ConfigMaxDraws, 100)
	c.SetDefault(ConfigQueryParallelism, 4)
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigQuerySubject, "wordformations.query")
	c.SetDefault(ConfigCPUProfile, "")
}

// Load populates the config. Unknown arguments are ignored; arguments that
// are not of the form --key=value or --key are left for the caller.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.SetEnvPrefix("wordformations")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		kv := strings.SplitN(strings.TrimPrefix(arg, "--"), "=", 2)
		if len(kv) == 1 {
			// A bare flag is a boolean switch.
			c.Set(kv[0], true)
			continue
		}
		c.Set(kv[0], kv[1])
	}
	return nil
}

// SanitizedSettings returns the settings suitable for logging. There are no
// secrets in this config today, but the NATS URL may carry credentials.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if u, ok := settings[ConfigNatsURL].(string); ok && strings.Contains(u, "@") {
		settings[ConfigNatsURL] = "<redacted>"
	}
	return settings
}

// AdjustRelativePaths makes a relative data path relative to the executable's
// directory, if nothing exists at the relative path from the working directory.
func (c *Config) AdjustRelativePaths(basePath string) {
	dataPath := c.GetString(ConfigDataPath)
	if filepath.IsAbs(dataPath) {
		return
	}
	if _, err := os.Stat(dataPath); err == nil {
		return
	}
	adjusted := filepath.Join(basePath, dataPath)
	log.Debug().Str("from", dataPath).Str("to", adjusted).Msg("adjusting data path")
	c.Set(ConfigDataPath, adjusted)
}
