// Package config loads settings for the lenient command from defaults, an
// optional YAML file, a .env file and LENIENT_ environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/reoring/lenient"
	"github.com/reoring/lenient/internal/logger"
)

// EnvPrefix prefixes every environment override (LENIENT_DECODE_MAX_DEPTH).
const EnvPrefix = "LENIENT"

// Config holds all configuration for the command.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Decode holds reader limits and driver selection.
	Decode Decode `mapstructure:"decode"`
	// Output is the report format: json or yaml.
	Output string `mapstructure:"output" default:"json"`
}

// Decode mirrors lenient.ReadOpt plus the driver choice.
type Decode struct {
	NumberMode    string `mapstructure:"number_mode" default:"json"`
	MaxDepth      int    `mapstructure:"max_depth" default:"0"`
	MaxBytes      int64  `mapstructure:"max_bytes" default:"0"`
	DuplicateKeys string `mapstructure:"duplicate_keys" default:"ignore"`
	Driver        string `mapstructure:"driver" default:"gojson"`
}

// Load reads configuration. dir is searched for a .env file; file, when set,
// names a YAML config file. Environment variables win over the file.
func Load(dir, file string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindValues registers every mapstructure key with its default tag value so
// AutomaticEnv can see it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

// Validate rejects unknown enumerated settings.
func (c *Config) Validate() error {
	check := func(name, got string, allowed ...string) error {
		for _, a := range allowed {
			if got == a {
				return nil
			}
		}
		return fmt.Errorf("config: %s must be one of %s, got %q", name, strings.Join(allowed, "|"), got)
	}
	if err := check("output", c.Output, "json", "yaml"); err != nil {
		return err
	}
	if err := check("decode.number_mode", c.Decode.NumberMode, "json", "float64"); err != nil {
		return err
	}
	if err := check("decode.duplicate_keys", c.Decode.DuplicateKeys, "ignore", "warn", "error"); err != nil {
		return err
	}
	if err := check("decode.driver", c.Decode.Driver, "gojson", "stdlib"); err != nil {
		return err
	}
	if c.Decode.MaxDepth < 0 || c.Decode.MaxBytes < 0 {
		return fmt.Errorf("config: decode limits must not be negative")
	}
	return nil
}

// ReadOpt converts the decode settings.
func (d Decode) ReadOpt() lenient.ReadOpt {
	opt := lenient.ReadOpt{MaxDepth: d.MaxDepth, MaxBytes: d.MaxBytes}
	if d.NumberMode == "float64" {
		opt.NumberMode = lenient.NumberFloat64
	}
	switch d.DuplicateKeys {
	case "warn":
		opt.OnDuplicateKey = lenient.Warn
	case "error":
		opt.OnDuplicateKey = lenient.Error
	}
	return opt
}

// JSONDriver returns the configured token driver.
func (d Decode) JSONDriver() lenient.JSONDriver {
	if d.Driver == "stdlib" {
		return lenient.StdlibJSONDriver()
	}
	return lenient.GoJSONDriver()
}
