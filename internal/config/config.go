package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"qbo-mcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/qbo-mcp"
	configFileName = "config.yaml"

	// EnvSandbox targets the QuickBooks sandbox API.
	EnvSandbox = "sandbox"
	// EnvProduction targets the live QuickBooks API.
	EnvProduction = "production"

	// DefaultRedirectURI is the OAuth redirect URI registered with the
	// Intuit app by default. The callback listener binds whatever port
	// this URI names, so changing the port is purely a config change.
	DefaultRedirectURI = "http://localhost:8080/callback"

	// DefaultAuthTimeout bounds the interactive browser authorization wait.
	DefaultAuthTimeout = 5 * time.Minute

	// DefaultMinorVersion is the QuickBooks API minorversion sent with
	// every request.
	DefaultMinorVersion = "65"

	credentialFileName = "credential.json"
)

// Config holds all settings for the server. Environment variables take
// precedence over the optional YAML config file, which in turn overrides
// the built-in defaults.
type Config struct {
	// ClientID is the Intuit app OAuth client ID.
	ClientID string `yaml:"clientId"`

	// ClientSecret is the Intuit app OAuth client secret.
	ClientSecret string `yaml:"clientSecret"`

	// RedirectURI is the OAuth redirect URI. Its port determines where the
	// local callback listener binds.
	RedirectURI string `yaml:"redirectUri"`

	// Environment selects sandbox or production.
	Environment string `yaml:"environment"`

	// CompanyID optionally pins the QuickBooks company (realm). When empty
	// it is captured from the realmId parameter of the OAuth callback.
	CompanyID string `yaml:"companyId"`

	// CredentialFile is the path of the persisted credential record.
	CredentialFile string `yaml:"credentialFile"`

	// AuthTimeout bounds the interactive authorization flow.
	AuthTimeout time.Duration `yaml:"authTimeout"`

	// MinorVersion is the QuickBooks API minorversion query parameter.
	MinorVersion string `yaml:"minorVersion"`

	// SentryDSN enables Sentry error reporting for provider calls when set.
	SentryDSN string `yaml:"sentryDsn"`
}

// ConfigurationError reports missing or invalid settings. It is fatal at
// startup and never retried.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user home directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

func defaults() Config {
	cfg := Config{
		RedirectURI:  DefaultRedirectURI,
		Environment:  EnvSandbox,
		AuthTimeout:  DefaultAuthTimeout,
		MinorVersion: DefaultMinorVersion,
	}
	if dir, err := DefaultConfigDir(); err == nil {
		cfg.CredentialFile = filepath.Join(dir, credentialFileName)
	}
	return cfg
}

// Load builds the configuration from defaults, the optional YAML file in
// configDir (empty means the default directory), and the process
// environment, in increasing order of precedence.
func Load(configDir string) (Config, error) {
	cfg := defaults()

	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return Config{}, err
		}
		configDir = dir
	}

	configFilePath := filepath.Join(configDir, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("Config", "Loaded configuration from %s", configFilePath)
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("Config", "No config.yaml found at %s, using defaults", configFilePath)
	default:
		return Config{}, fmt.Errorf("error reading config file %s: %w", configFilePath, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays QBO_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.ClientID, "QBO_CLIENT_ID")
	setString(&cfg.ClientSecret, "QBO_CLIENT_SECRET")
	setString(&cfg.RedirectURI, "QBO_REDIRECT_URI")
	setString(&cfg.Environment, "QBO_ENVIRONMENT")
	setString(&cfg.CompanyID, "QBO_COMPANY_ID")
	setString(&cfg.CredentialFile, "QBO_CREDENTIAL_FILE")
	setString(&cfg.MinorVersion, "QBO_MINOR_VERSION")
	setString(&cfg.SentryDSN, "QBO_SENTRY_DSN")

	if v := os.Getenv("QBO_AUTH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.AuthTimeout = d
		} else {
			logging.Warn("Config", "Ignoring invalid QBO_AUTH_TIMEOUT %q", v)
		}
	}
}

// Validate checks the configuration and returns a *ConfigurationError
// listing every problem found.
func (c Config) Validate() error {
	var problems []string

	if c.ClientID == "" {
		problems = append(problems, "QBO_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		problems = append(problems, "QBO_CLIENT_SECRET is required")
	}
	if c.Environment != EnvSandbox && c.Environment != EnvProduction {
		problems = append(problems, fmt.Sprintf("QBO_ENVIRONMENT must be %q or %q", EnvSandbox, EnvProduction))
	}
	if c.CredentialFile == "" {
		problems = append(problems, "QBO_CREDENTIAL_FILE is required")
	}
	if c.AuthTimeout <= 0 {
		problems = append(problems, "QBO_AUTH_TIMEOUT must be positive")
	}
	if _, err := c.CallbackPort(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// CallbackPort extracts the port the local callback listener must bind
// from the redirect URI. The URI is authoritative; there is no separate
// port setting to drift out of sync with it.
func (c Config) CallbackPort() (int, error) {
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return 0, fmt.Errorf("QBO_REDIRECT_URI is not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return 0, fmt.Errorf("QBO_REDIRECT_URI must be an http(s) URL, got %q", c.RedirectURI)
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("QBO_REDIRECT_URI has an invalid port %q", p)
		}
		return port, nil
	}
	if u.Scheme == "https" {
		return 443, nil
	}
	return 80, nil
}

// CallbackPath returns the path component of the redirect URI, defaulting
// to /callback.
func (c Config) CallbackPath() string {
	u, err := url.Parse(c.RedirectURI)
	if err != nil || u.Path == "" {
		return "/callback"
	}
	return u.Path
}
