package cli

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/connmat/pkg/archive"
	"github.com/matzehuels/connmat/pkg/errors"
)

// Config is the TOML configuration file. Command-line flags override it.
//
//	input_path    = "sub-0001/assignments.csv"
//	output_path   = "sub-0001/connectivity_matrix_from_assignments.csv"
//	zero_diagonal = true
//	format        = "csv"
//	labels_path   = "sub-0001/labels.csv"
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "72h"
//
//	[archive]
//	mongo_uri  = "mongodb://localhost:27017"
//	database   = "connmat"
//	collection = "matrices"
//
//	[server]
//	addr = ":8080"
type Config struct {
	InputPath    string `toml:"input_path"`
	OutputPath   string `toml:"output_path"`
	ZeroDiagonal *bool  `toml:"zero_diagonal"`
	Format       string `toml:"format"`
	LabelsPath   string `toml:"labels_path"`

	Cache   CacheConfig         `toml:"cache"`
	Archive archive.MongoConfig `toml:"archive"`
	Server  ServerConfig        `toml:"server"`
}

// CacheConfig selects the build cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	RedisURL string   `toml:"redis_url"`
	TTL      duration `toml:"ttl"`
}

// ServerConfig configures "connmat serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings like "90m" into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadConfig decodes the TOML file at path. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Cache.TTL.Duration < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return &cfg, nil
}
