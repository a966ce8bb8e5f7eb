package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	yaml "go.yaml.in/yaml/v3"
)

type Config struct {
	Env        string `yaml:"env"`
	LogLevel   string `yaml:"log_level"`
	HTTPAddr   string `yaml:"http_addr"`
	CORSOrigin string `yaml:"cors_origin"`

	DBType        string `yaml:"storage_backend"`
	DBDSN         string `yaml:"database_url"`
	SQLitePath    string `yaml:"sqlite_path"`
	FileProfiles  string `yaml:"profiles_file"`
	FileSchedules string `yaml:"schedules_file"`

	LLM LLMConfig `yaml:"llm"`
}

type LLMConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"` // 0 disables pacing
	Temperature       float32       `yaml:"temperature"`
}

var (
	cfg     *Config
	loadErr error
	once    sync.Once
)

// Load reads .env, the optional CONFIG_FILE and the environment, in that
// order of increasing precedence. The result is cached for the process.
func Load() (*Config, error) {
	once.Do(func() {
		_ = godotenv.Load()
		cfg, loadErr = FromEnv(os.Getenv("CONFIG_FILE"))
	})
	return cfg, loadErr
}

func Defaults() *Config {
	return &Config{
		Env:           "development",
		LogLevel:      "info",
		HTTPAddr:      ":8000",
		CORSOrigin:    "http://localhost:3000",
		DBType:        "file",
		SQLitePath:    "data/zchedule.db",
		FileProfiles:  "data/user_profiles.json",
		FileSchedules: "data/schedules.json",
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama3-70b-8192",
			Timeout:     120 * time.Second,
			Temperature: 0.2,
		},
	}
}

// FromEnv builds a config from defaults, an optional YAML file and
// environment variables.
func FromEnv(path string) (*Config, error) {
	c := Defaults()
	if path != "" {
		if err := c.mergeFile(path); err != nil {
			return nil, err
		}
	}
	c.Env = getEnv("APP_ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.CORSOrigin = getEnv("CORS_ORIGIN", c.CORSOrigin)
	c.DBType = getEnv("STORAGE_BACKEND", c.DBType)
	c.DBDSN = getEnv("DATABASE_URL", c.DBDSN)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.FileProfiles = getEnv("PROFILES_FILE", c.FileProfiles)
	c.FileSchedules = getEnv("SCHEDULES_FILE", c.FileSchedules)

	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.APIKey = getEnv("LLM_API_KEY", getEnv("GROQ_API_KEY", c.LLM.APIKey))
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("LLM_TIMEOUT: %w", err)
		}
		c.LLM.Timeout = d
	}
	if v := os.Getenv("LLM_REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("LLM_REQUESTS_PER_MINUTE: %w", err)
		}
		c.LLM.RequestsPerMinute = n
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("LLM_TEMPERATURE: %w", err)
		}
		c.LLM.Temperature = float32(f)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}
	return nil
}

// Validate rejects settings the process cannot start with. Missing
// credentials are not errors here; see Warnings.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.DBType {
	case "file":
		if c.FileProfiles == "" || c.FileSchedules == "" {
			return errors.New("file storage requires PROFILES_FILE and SCHEDULES_FILE to be set")
		}
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: file, postgres, sqlite (got %q)", c.DBType)
	}
	if c.LLM.RequestsPerMinute < 0 {
		return errors.New("LLM_REQUESTS_PER_MINUTE must not be negative")
	}
	return nil
}

// Warnings lists missing external credentials. The server still starts; the
// affected requests fail individually.
func (c *Config) Warnings() []string {
	var out []string
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		out = append(out, "LLM_API_KEY (or GROQ_API_KEY) is not set; schedule generation is disabled")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		out = append(out, "DATABASE_URL is not set; profile lookup and persistence are disabled")
	}
	if c.DBType == "sqlite" && c.SQLitePath == "" {
		out = append(out, "SQLITE_PATH is not set; profile lookup and persistence are disabled")
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
