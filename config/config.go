package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings for a test run. Values come from, in increasing order of
// precedence: the defaults, a YAML file, a dotenv file, the process environment, and
// command-line flags (applied by the caller).
type Config struct {
	Filters         []string `yaml:"filters"`
	Run             []string `yaml:"run"`
	Skip            []string `yaml:"skip"`
	Tags            []string `yaml:"tags"`
	ExcludeDisabled bool     `yaml:"exclude_disabled"`
	FailFast        bool     `yaml:"fail_fast"`
	StopOnFailure   bool     `yaml:"stop_on_failure"`
	Workers         int      `yaml:"workers"`
	Format          string   `yaml:"format"`
	JUnitFile       string   `yaml:"junit_file"`
	JSONFile        string   `yaml:"json_file"`
	Debug           bool     `yaml:"debug"`
	DebugAll        bool     `yaml:"debug_all"`
	NoColor         bool     `yaml:"no_color"`
}

// LookupFunc has the same signature as os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// New creates a Config with defaults
func New() Config {
	return Config{
		Workers: DefaultWorkers,
		Format:  DefaultFormat,
	}
}

// Load reads the configuration using the process environment. If configFile is empty,
// DefaultConfigFile is used when it exists.
func Load(configFile, envFile string) (Config, error) {
	return LoadWithEnv(configFile, envFile, os.LookupEnv)
}

// LoadWithEnv is like Load but reads environment variables through lookup.
func LoadWithEnv(configFile, envFile string, lookup LookupFunc) (Config, error) {
	cfg := New()

	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigFile
	}
	if err := cfg.readFile(configFile); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
		if values != nil {
			dotenv = values
		}
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := dotenv[EnvPrefix+key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env LookupFunc) error {
	for key, target := range map[string]*[]string{
		"FILTER": &c.Filters,
		"RUN":    &c.Run,
		"SKIP":   &c.Skip,
		"TAGS":   &c.Tags,
	} {
		if v, ok := env(key); ok {
			*target = splitList(v)
		}
	}
	for key, target := range map[string]*bool{
		"EXCLUDE_DISABLED": &c.ExcludeDisabled,
		"FAIL_FAST":        &c.FailFast,
		"STOP_ON_FAILURE":  &c.StopOnFailure,
		"DEBUG":            &c.Debug,
		"DEBUG_ALL":        &c.DebugAll,
		"NO_COLOR":         &c.NoColor,
	} {
		if v, ok := env(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s%s: %w", EnvPrefix, key, err)
			}
			*target = b
		}
	}
	for key, target := range map[string]*string{
		"FORMAT":     &c.Format,
		"JUNIT_FILE": &c.JUnitFile,
		"JSON_FILE":  &c.JSONFile,
	} {
		if v, ok := env(key); ok {
			*target = v
		}
	}
	if v, ok := env("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value for %sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks for settings that cannot be used.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatTable:
	default:
		return fmt.Errorf("unknown report format %q (expected %q or %q)", c.Format, FormatText, FormatTable)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

func splitList(s string) []string {
	var ret []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}
