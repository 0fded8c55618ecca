// Package config loads the settings of the oraudt command from an
// oraudt.yaml file, a .env file and ORAUDT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/syssam/oraudt/compiler/gen"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "oraudt.yaml"

// EnvPrefix prefixes the environment variables that override file values.
const EnvPrefix = "ORAUDT_"

// Defaults.
const (
	DefaultRoot      = "."
	DefaultOut       = "Generated"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds the command settings.
type Config struct {
	// Root is the directory searched for specification documents.
	Root string `yaml:"root"`
	// Module is the project name used to derive namespaces.
	Module string `yaml:"module"`
	// Out is the directory generated files are written to.
	Out string `yaml:"out"`
	// Extension of specification documents.
	Extension string `yaml:"extension"`
	// OutputExtension of generated files.
	OutputExtension string `yaml:"output_extension"`
	// Header replaces the generated file header.
	Header string `yaml:"header"`
	// Workers bounds parallelism; zero uses the number of CPUs.
	Workers int `yaml:"workers"`
	// Features are the names of the enabled generator features.
	Features []string `yaml:"features"`
	// CacheDir holds the incremental cache. Empty disables the disk cache.
	CacheDir string `yaml:"cache_dir"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`

	// File is the configuration file that was read, if any.
	File string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Root:      DefaultRoot,
		Out:       DefaultOut,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Load reads the configuration file at path, then applies the variables
// of the .env file next to it and of the process environment. An empty
// path reads DefaultFile from the working directory when it exists.
// Relative directories in the file are resolved against its directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("oraudt/config: parse %s: %w", path, err)
		}
		cfg.File = path
		cfg.resolve(filepath.Dir(path))
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("oraudt/config: %w", err)
	}
	dotenv, err := readDotenv(filepath.Join(filepath.Dir(path), ".env"))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readDotenv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("oraudt/config: read %s: %w", path, err)
	}
	return env, nil
}

// resolve makes relative directories relative to dir.
func (c *Config) resolve(dir string) {
	for _, p := range []*string{&c.Root, &c.Out, &c.CacheDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ROOT":             &c.Root,
		"MODULE":           &c.Module,
		"OUT":              &c.Out,
		"EXTENSION":        &c.Extension,
		"OUTPUT_EXTENSION": &c.OutputExtension,
		"HEADER":           &c.Header,
		"CACHE_DIR":        &c.CacheDir,
		"LOG_LEVEL":        &c.LogLevel,
		"LOG_FORMAT":       &c.LogFormat,
	}
	for name, p := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*p = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("oraudt/config: %sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "FEATURES"); ok {
		c.Features = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Features = append(c.Features, name)
			}
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Root == "":
		return fmt.Errorf("oraudt/config: root is empty")
	case c.Out == "":
		return fmt.Errorf("oraudt/config: out is empty")
	case c.Workers < 0:
		return fmt.Errorf("oraudt/config: workers must not be negative, got %d", c.Workers)
	case !slices.Contains(logLevels, strings.ToLower(c.LogLevel)):
		return fmt.Errorf("oraudt/config: unknown log level %q", c.LogLevel)
	case !slices.Contains(logFormats, strings.ToLower(c.LogFormat)):
		return fmt.Errorf("oraudt/config: unknown log format %q", c.LogFormat)
	}
	if _, err := gen.NewConfig(c.GenOptions()...); err != nil {
		return err
	}
	return nil
}

// GenOptions returns the generator options for the configuration.
func (c *Config) GenOptions() []gen.Option {
	var opts []gen.Option
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.OutputExtension != "" {
		opts = append(opts, gen.WithExtension(c.OutputExtension))
	}
	if len(c.Features) > 0 {
		opts = append(opts, gen.WithFeatureNames(c.Features...))
	}
	return opts
}
