package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"upfile/internal/auth"
)

const (
	DefaultAPIURL        = "http://127.0.0.1:8000"
	DefaultUploadDirName = "uploads"
	DefaultLogLevel      = "info"

	DefaultMaxUploadBytes     int64 = 100 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024
	DefaultConvertConcurrency       = 5
	DefaultFetchTimeout             = "30s"

	configFileName           = ".upfile.toml"
	configDirEnvKey          = "UPFILE_CONFIG_DIR"
	trustProjectConfigEnvKey = "UPFILE_TRUST_PROJECT_CONFIG"

	apiURLEnvKey             = "UPFILE_API_URL"
	baseURLEnvKey            = "UPFILE_BASE_URL"
	uploadDirEnvKey          = "UPFILE_UPLOAD_DIR"
	adminUsernameEnvKey      = "UPFILE_ADMIN_USERNAME"
	adminPasswordHashEnvKey  = "UPFILE_ADMIN_PASSWORD_HASH"
	convertConcurrencyEnvKey = "UPFILE_CONVERT_CONCURRENCY"
	fetchTimeoutEnvKey       = "UPFILE_FETCH_TIMEOUT"
)

// UploadConfig bounds request bodies accepted by /upload and /convert.
type UploadConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// ConvertConfig tunes the fetch-by-URL pipeline.
type ConvertConfig struct {
	Concurrency  int    `toml:"concurrency"`
	FetchTimeout string `toml:"fetch_timeout"`
}

// AdminConfig holds the single admin credential guarding /admin.
type AdminConfig struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
}

// Config defines runtime configuration for upfile.
type Config struct {
	APIURL                   string        `toml:"api_url"`
	BaseURL                  string        `toml:"base_url"`
	UploadDir                string        `toml:"upload_dir"`
	LogLevel                 string        `toml:"log_level"`
	Uploads                  UploadConfig  `toml:"uploads"`
	Convert                  ConvertConfig `toml:"convert"`
	Admin                    AdminConfig   `toml:"admin"`
	TrustedProjectConfigPath string        `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:    DefaultAPIURL,
		UploadDir: "",
		LogLevel:  DefaultLogLevel,
		Uploads: UploadConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
		Convert: ConvertConfig{
			Concurrency:  DefaultConvertConcurrency,
			FetchTimeout: DefaultFetchTimeout,
		},
	}
}

// FetchTimeoutDuration parses convert.fetch_timeout. Zero or negative means unbounded.
func (c *Config) FetchTimeoutDuration() time.Duration {
	d, err := parseDuration(c.Convert.FetchTimeout)
	if err != nil {
		d, _ = parseDuration(DefaultFetchTimeout)
	}
	if d <= 0 {
		return -1
	}
	return d
}

// AdminConfigured reports whether an admin credential is present.
func (c *Config) AdminConfigured() bool {
	return strings.TrimSpace(c.Admin.Username) != "" && strings.TrimSpace(c.Admin.PasswordHash) != ""
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"api_url",
	"base_url",
	"upload_dir",
	"log_level",
	"uploads.max_upload_bytes",
	"uploads.multipart_max_memory",
	"convert.concurrency",
	"convert.fetch_timeout",
	"admin.username",
	"admin.password_hash",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "base_url":
		return c.BaseURL, nil
	case "upload_dir":
		return c.UploadDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "uploads.max_upload_bytes":
		return strconv.FormatInt(c.Uploads.MaxUploadBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	case "convert.concurrency":
		return strconv.Itoa(c.Convert.Concurrency), nil
	case "convert.fetch_timeout":
		return c.Convert.FetchTimeout, nil
	case "admin.username":
		return c.Admin.Username, nil
	case "admin.password_hash":
		if c.Admin.PasswordHash == "" {
			return "", nil
		}
		return "<redacted>", nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if baseURL := os.Getenv(baseURLEnvKey); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if uploadDir := os.Getenv(uploadDirEnvKey); uploadDir != "" {
		cfg.UploadDir = uploadDir
	}
	if username := os.Getenv(adminUsernameEnvKey); username != "" {
		cfg.Admin.Username = username
	}
	if hash := os.Getenv(adminPasswordHashEnvKey); hash != "" {
		cfg.Admin.PasswordHash = hash
	}
	if raw := strings.TrimSpace(os.Getenv(convertConcurrencyEnvKey)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.Convert.Concurrency = parsed
		}
	}
	if raw := strings.TrimSpace(os.Getenv(fetchTimeoutEnvKey)); raw != "" {
		if _, err := parseDuration(raw); err == nil {
			cfg.Convert.FetchTimeout = raw
		}
	}

	if cfg.UploadDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.UploadDir = filepath.Join(cwd, DefaultUploadDirName)
		}
	}

	cfg.normalizeDefaults()

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "uploads.max_upload_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "convert.concurrency":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "convert.fetch_timeout":
		if _, err := parseDuration(value); err != nil {
			return nil, fmt.Errorf("%s must be a duration such as 30s", key)
		}
		return value, nil
	case "admin.password_hash":
		if !auth.IsPasswordHash(value) {
			return nil, fmt.Errorf("%s must be a bcrypt hash (see: upfile admin hash-password)", key)
		}
		return value, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

// parseDuration accepts Go durations ("30s") and bare integer seconds ("30").
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("duration is required")
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return time.Duration(seconds) * time.Second, nil
}

func (c *Config) normalizeDefaults() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Uploads.MaxUploadBytes <= 0 {
		c.Uploads.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
	if c.Convert.Concurrency <= 0 {
		c.Convert.Concurrency = DefaultConvertConcurrency
	}
	if _, err := parseDuration(c.Convert.FetchTimeout); err != nil {
		c.Convert.FetchTimeout = DefaultFetchTimeout
	}
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.Admin.Username = strings.TrimSpace(c.Admin.Username)
	c.Admin.PasswordHash = strings.TrimSpace(c.Admin.PasswordHash)
}
