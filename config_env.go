package authkit

import (
	"github.com/caarlos0/env/v11"
)

// ConfigFromEnv returns the default configuration overridden by AUTHKIT_*
// environment variables. Unset variables keep their defaults; a variable
// that is set but unparsable is an error.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
