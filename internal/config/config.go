// Package config assembles the settings of one run from defaults, an
// optional JSON5 file, a dotenv file, the process environment and flags,
// in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

const (
	DefaultBaseURL  = "https://quotes.toscrape.com/"
	DefaultDataPath = "quotes.jsonl"
	DefaultEnvFile  = "data.env"

	FormatBlock = "block"
	FormatTable = "table"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	BaseURL   string        `json:"base_url"`
	DataPath  string        `json:"data_path"`
	MaxPages  int           `json:"max_pages"`
	Timeout   time.Duration `json:"-"`
	UserAgent string        `json:"user_agent"`
	Format    string        `json:"format"`

	// TimeoutSeconds is the file form of Timeout.
	TimeoutSeconds float64 `json:"timeout_seconds"`
}

// Options say where Load looks for settings. Zero values skip a layer,
// except EnvFile which falls back to DefaultEnvFile.
type Options struct {
	// File is a JSON5 config file; <name>.local.<ext> next to it overrides it.
	File string
	// EnvFile is a dotenv file; the process environment wins over it.
	EnvFile string
	// Getenv reads the environment; nil means os.Getenv.
	Getenv func(string) string
}

func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		DataPath: DefaultDataPath,
		Format:   FormatBlock,
	}
}

// Load layers defaults, the config file, the dotenv file and the
// environment. Flags are applied by the caller before Validate.
func Load(opts Options) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		fileCfg, err := ReadFile(opts.File)
		if err != nil {
			return cfg, err
		}
		if fileCfg.TimeoutSeconds > 0 {
			fileCfg.Timeout = time.Duration(fileCfg.TimeoutSeconds * float64(time.Second))
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return cfg, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", envFile, err)
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := getenv("DATA_PATH"); v != "" {
		cfg.DataPath = v
	}
	if v := getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv("MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_PAGES=%q: %w", v, ErrInvalid)
		}
		cfg.MaxPages = n
	}
	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT=%q: %w", v, ErrInvalid)
		}
		cfg.Timeout = d
	}
	return nil
}

// Validate checks cfg and normalizes the base URL to end with a slash.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required: %w", ErrInvalid)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) url: %w", c.BaseURL, ErrInvalid)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.DataPath == "" {
		return fmt.Errorf("data path is required: %w", ErrInvalid)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages %d is negative: %w", c.MaxPages, ErrInvalid)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout %s is negative: %w", c.Timeout, ErrInvalid)
	}
	switch c.Format {
	case FormatBlock, FormatTable:
	default:
		return fmt.Errorf("unknown format %q: %w", c.Format, ErrInvalid)
	}
	return nil
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// ReadFile reads a JSON5 config file and merges <name>.local.<ext> over it
// when present. It returns fs.ErrNotExist only if neither file exists.
func ReadFile(name string) (Config, error) {
	var out Config
	allNotFound := true

	prefixname, ext := splitExt(filepath.Base(name))

	defaultFile, err := os.ReadFile(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return out, err
	}
	if len(defaultFile) > 0 {
		if err := json5.Unmarshal(defaultFile, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localPath := filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefixname, ext))
	localFile, err := os.ReadFile(localPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return out, err
	}
	if len(localFile) > 0 {
		var override Config
		if err := json5.Unmarshal(localFile, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", localPath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localPath)
		allNotFound = false
	}

	if allNotFound {
		return out, fs.ErrNotExist
	}
	return out, nil
}
