// Package config loads application configuration from an optional yaml
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	DBPath string     `yaml:"db_path" env:"XUCI_DB_PATH" env-default:"xuci.db"`
	Log    LogConfig  `yaml:"log"`
	Quiz   QuizConfig `yaml:"quiz"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"XUCI_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"XUCI_LOG_FORMAT" env-default:"text"`
}

// QuizConfig holds paper generation defaults.
type QuizConfig struct {
	DefaultCount int    `yaml:"default_count" env:"XUCI_QUIZ_DEFAULT_COUNT" env-default:"10"`
	TitlePrefix  string `yaml:"title_prefix"  env:"XUCI_QUIZ_TITLE_PREFIX"  env-default:"虚词练习"`
}

// Load reads configuration from path, then applies environment
// overrides. An empty path skips the file and reads the environment
// alone; a non-empty path must name an existing file.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env config: %w", err)
	}
	return cfg, nil
}
