package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type SessionStoreType string

const (
	SessionStoreMemory SessionStoreType = "memory"
	SessionStoreCookie SessionStoreType = "cookie"
)

// Config holds the configuration for the aimarketer server and its dependencies.
type Config struct {
	// Listen is the address the server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// Port overrides the port part of Listen when set (usually through the PORT environment variable).
	Port int `yaml:"port" mapstructure:"port"`
	// LogLevel is the log level used when no --log-level flag is given.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// ServerURL is the public base URL of the site, used in links sent by email.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// PagesDir is the directory the static HTML pages are read from.
	PagesDir string `yaml:"pages_dir" mapstructure:"pages_dir"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Session holds the session configuration.
	Session *SessionConfig `yaml:"session" mapstructure:"session"`
	// Auth holds the credential handling configuration.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Gzip holds the response compression configuration.
	Gzip *GzipConfig `yaml:"gzip" mapstructure:"gzip"`
	// Metrics holds the prometheus metrics configuration.
	Metrics *MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	// Email holds the feedback notification configuration.
	Email *EmailConfig `yaml:"email" mapstructure:"email"`
	// Gravatar holds the configuration for avatars in the feedback summary.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// SessionConfig holds the session configuration.
type SessionConfig struct {
	// Key is the secret used to sign (and for the cookie store, encrypt) session cookies.
	Key string `yaml:"key" mapstructure:"key"`
	// Name is the name of the session cookie.
	Name string `yaml:"name" mapstructure:"name"`
	// Store selects where session data lives. Options: "memory", "cookie".
	Store SessionStoreType `yaml:"store" mapstructure:"store"`
	// MaxAge is the maximum age of a session in seconds.
	MaxAge int `yaml:"max_age" mapstructure:"max_age"`
	// Secure marks the session cookie as HTTPS only.
	Secure bool `yaml:"secure" mapstructure:"secure"`
}

// AuthConfig holds the credential handling configuration.
type AuthConfig struct {
	// BcryptCost is the work factor used when hashing new passwords.
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	// DistinguishUnknownUser makes login answer "User not found." for unknown usernames
	// instead of the generic invalid credentials message.
	DistinguishUnknownUser bool `yaml:"distinguish_unknown_user" mapstructure:"distinguish_unknown_user"`
}

// GzipConfig holds the response compression configuration.
type GzipConfig struct {
	// Enabled indicates whether responses are gzip compressed.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// MetricsConfig holds the prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled indicates whether request metrics are collected and exposed.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Path is the route the metrics are exposed on.
	Path string `yaml:"path" mapstructure:"path"`
}

// EmailConfig holds the email notification configuration.
type EmailConfig struct {
	// Enabled indicates whether email notifications are enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// SMTPHost is the SMTP server host.
	SMTPHost string `yaml:"smtp_host" mapstructure:"smtp_host"`
	// SMTPPort is the SMTP server port.
	SMTPPort int `yaml:"smtp_port" mapstructure:"smtp_port"`
	// Username is the SMTP username.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the SMTP password.
	Password string `yaml:"password" mapstructure:"password"`
	// FromEmail is the email address from which notifications are sent.
	FromEmail string `yaml:"from_email" mapstructure:"from_email"`
	// FromName is the name from which notifications are sent.
	FromName string `yaml:"from_name" mapstructure:"from_name"`
	// NotifyTo is the address that receives new feedback notifications.
	NotifyTo string `yaml:"notify_to" mapstructure:"notify_to"`
	// UseTLS indicates whether to use TLS for the SMTP connection.
	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls"`
	// UseSSL indicates whether to use SSL for the SMTP connection.
	UseSSL bool `yaml:"use_ssl" mapstructure:"use_ssl"`
	// InsecureSkipVerify indicates whether to skip TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// GravatarConfig holds the configuration for the avatars shown next to feedback submitters.
type GravatarConfig struct {
	// Enabled indicates whether avatars are shown.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the image gravatar serves for unknown addresses.
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating of the avatars.
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the avatar size in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// A missing config file is not an error, defaults and environment variables are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	bindNestedEnv(v)

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("AIMARKETER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.aimarketer")
		v.AddConfigPath("/etc/aimarketer")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug("No config file found, using defaults and environment")
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3000")
	v.SetDefault("port", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("server_url", "http://localhost:3000")
	v.SetDefault("pages_dir", "./web/pages")

	// Database defaults
	v.SetDefault("database.path", "./data/aimarketer.db")

	// Session defaults
	v.SetDefault("session.key", "")
	v.SetDefault("session.name", "aimarketer_session")
	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.max_age", 86400) // 24 hours
	v.SetDefault("session.secure", false)

	// Auth defaults
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.distinguish_unknown_user", false)

	v.SetDefault("gzip.enabled", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_email", "")
	v.SetDefault("email.from_name", "AIMarketer")
	v.SetDefault("email.notify_to", "")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.insecure_skip_verify", false)

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 32)
}

// bindNestedEnv binds environment variables that don't follow the AIMARKETER_ naming scheme.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("port", "PORT")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.PagesDir == "" {
		return fmt.Errorf("pages directory is required")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Session == nil {
		return fmt.Errorf("missing session config")
	}
	if c.Session.Key == "" {
		return fmt.Errorf("session key is required")
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreCookie:
	default:
		return fmt.Errorf("session store must be one of %q or %q, got %q", SessionStoreMemory, SessionStoreCookie, c.Session.Store)
	}

	if c.Auth == nil {
		return fmt.Errorf("missing auth config")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}

	if c.Metrics != nil && c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with a slash")
	}

	if c.Email != nil && c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required when email notifications are enabled") //nolint:staticcheck
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email notifications are enabled")
		}
		if c.Email.NotifyTo == "" {
			return fmt.Errorf("notify_to is required when email notifications are enabled")
		}
	}

	if c.Gravatar != nil && c.Gravatar.Enabled {
		if !validGravatarDefaults[c.Gravatar.DefaultImage] {
			return fmt.Errorf("invalid gravatar default image %q", c.Gravatar.DefaultImage)
		}
		if !validGravatarRatings[c.Gravatar.Rating] {
			return fmt.Errorf("invalid gravatar rating %q", c.Gravatar.Rating)
		}
		if c.Gravatar.Size < 1 || c.Gravatar.Size > 2048 {
			return fmt.Errorf("gravatar size must be between 1 and 2048")
		}
	}

	return nil
}

var validGravatarDefaults = map[string]bool{
	"404":       true,
	"mp":        true,
	"identicon": true,
	"monsterid": true,
	"wavatar":   true,
	"retro":     true,
	"robohash":  true,
	"blank":     true,
}

var validGravatarRatings = map[string]bool{
	"g":  true,
	"pg": true,
	"r":  true,
	"x":  true,
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	if c.Port > 0 {
		c.Listen = withPort(c.Listen, c.Port)
	}

	c.PagesDir = strings.TrimSpace(c.PagesDir)
	c.ServerURL = strings.TrimSuffix(strings.TrimSpace(c.ServerURL), "/")

	if c.Session != nil {
		c.Session.Store = SessionStoreType(strings.ToLower(strings.TrimSpace(string(c.Session.Store))))
	}

	if c.Gravatar != nil {
		c.Gravatar.DefaultImage = strings.ToLower(strings.TrimSpace(c.Gravatar.DefaultImage))
		c.Gravatar.Rating = strings.ToLower(strings.TrimSpace(c.Gravatar.Rating))
	}

	if c.Metrics != nil {
		c.Metrics.Path = strings.TrimSuffix(strings.TrimSpace(c.Metrics.Path), "/")
	}
}

// withPort replaces the port of a host:port listen address.
func withPort(listen string, port int) string {
	host, _, err := net.SplitHostPort(listen)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
