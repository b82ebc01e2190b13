package config

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

type JwtConfig struct {
	Secret        string   `json:"secret"`
	TokenLifetime Duration `json:"token_lifetime"`
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSizeMb  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type Config struct {
	Mode string    `json:"mode"`
	Addr string    `json:"addr"`
	Jwt  JwtConfig `json:"jwt"`
	Log  LogConfig `json:"log"`
}

// Default is a development-mode configuration that serves without a config
// file.
func Default() Config {
	return Config{
		Mode: "development",
		Addr: ":8080",
		Jwt: JwtConfig{
			Secret:        "bombas-dev-secret",
			TokenLifetime: Duration{24 * time.Hour},
		},
		Log: LogConfig{
			MaxSizeMb:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":               c.Mode,
		"addr":               c.Addr,
		"jwt_token_lifetime": c.Jwt.TokenLifetime.Duration.String(),
		"log_file":           c.Log.File,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func Read(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}
