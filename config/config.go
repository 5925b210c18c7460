package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0
const SERIES_CACHE_TTL = 24 * time.Hour

// Server config
const DEFAULT_LISTEN_ADDR = ":8080"
const DEFAULT_SHUTDOWN_TIMEOUT = 5 * time.Second

// Series refresher config, cron syntax
const SERIES_REFRESHER_SCHEDULE = "0 3 * * *"
const SERIES_REFRESH_TIMEOUT = 2 * time.Minute

// Synthetic series config
const DEFAULT_SYNTHETIC_SEED = 2024
const DEFAULT_SYNTHETIC_YEAR = 2024

// Remote dataset source
const DATA_SOURCE_TIMEOUT = 10 * time.Second

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const CONFIG_RESOURCE = "config.yaml"
const EVENTS_RESOURCE = "aktiviteter-2024.json"
const PLACE_ANALYSIS_RESOURCE = "stedsanalyse-2024.json"
const QUARTERLY_RESOURCE = "kvartalsvis-banktransaksjoner.json"
const DAILY_CATEGORIES_RESOURCE = "daglige-kategorier.json"
const ACTORS_RESOURCE = "aktorer.json"
const AREAS_RESOURCE = "omrader.json"
const AREA_ACTORS_RESOURCE_FORMAT = "aktorer-%s.json"

// Environment overrides
const ENV_LISTEN_ADDR = "PLACE_LISTEN_ADDR"
const ENV_DATA_DIR = "PLACE_DATA_DIR"
const ENV_DATA_URL = "PLACE_DATA_URL"
const ENV_REDIS_ADDR = "PLACE_REDIS_ADDR"
const ENV_CACHE_ENABLED = "PLACE_CACHE_ENABLED"

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}

// AreaActorsResource names the actor file of one area.
func AreaActorsResource(area string) string {
	return fmt.Sprintf(AREA_ACTORS_RESOURCE_FORMAT, area)
}

type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DataConfig selects where datasets are read from. A non-empty BaseURL
// fetches documents over HTTP instead of reading Dir.
type DataConfig struct {
	Dir     string        `yaml:"dir"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

type RefresherConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// SyntheticConfig overrides the built-in synthetic series profiles. Zero
// totals keep the built-in values.
type SyntheticConfig struct {
	Seed                int64   `yaml:"seed"`
	Year                int     `yaml:"year"`
	BankAnnualTotal     float64 `yaml:"bank_annual_total"`
	VisitorDailyAverage float64 `yaml:"visitor_daily_average"`
}

// Config is the server configuration file.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Cache     CacheConfig     `yaml:"cache"`
	Refresher RefresherConfig `yaml:"refresher"`
	Synthetic SyntheticConfig `yaml:"synthetic"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      DEFAULT_LISTEN_ADDR,
			ShutdownTimeout: DEFAULT_SHUTDOWN_TIMEOUT,
		},
		Data: DataConfig{
			Dir:     filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX),
			Timeout: DATA_SOURCE_TIMEOUT,
		},
		Cache: CacheConfig{
			RedisAddr:     REDIS_DB_ADDRESS,
			RedisPassword: REDIS_DB_PASSWORD,
			RedisDB:       REDIS_DB,
			TTL:           SERIES_CACHE_TTL,
		},
		Refresher: RefresherConfig{
			Enabled:  true,
			Schedule: SERIES_REFRESHER_SCHEDULE,
		},
		Synthetic: SyntheticConfig{
			Seed: DEFAULT_SYNTHETIC_SEED,
			Year: DEFAULT_SYNTHETIC_YEAR,
		},
	}
}

// Load reads a YAML config over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(ENV_LISTEN_ADDR); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv(ENV_DATA_DIR); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv(ENV_DATA_URL); v != "" {
		c.Data.BaseURL = v
	}
	if v := os.Getenv(ENV_REDIS_ADDR); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(ENV_CACHE_ENABLED); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", ENV_CACHE_ENABLED, v, err)
		}
		c.Cache.Enabled = enabled
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr must be set")
	}
	if c.Data.Dir == "" && c.Data.BaseURL == "" {
		return errors.New("one of data.dir or data.base_url must be set")
	}
	if c.Cache.Enabled && c.Cache.RedisAddr == "" {
		return errors.New("cache.redis_addr must be set when the cache is enabled")
	}
	if c.Refresher.Enabled && c.Refresher.Schedule == "" {
		return errors.New("refresher.schedule must be set when the refresher is enabled")
	}
	if c.Synthetic.BankAnnualTotal < 0 || c.Synthetic.VisitorDailyAverage < 0 {
		return errors.New("synthetic totals must be non-negative")
	}
	return nil
}
