package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds the configuration for the clanhub server and its dependencies.
type Config struct {
	// Listen is the address the clanhub server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the public base URL of the portal.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the key used to sign session cookies.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks the session cookie as Secure (HTTPS only).
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// StaticDir is served under /static instead of the bundled default images.
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Uploads holds the configuration for uploaded profile pictures and clan logos.
	Uploads *UploadsConfig `yaml:"uploads" mapstructure:"uploads"`
	// Admin describes the default administrative account ensured at startup.
	Admin *AdminConfig `yaml:"admin" mapstructure:"admin"`
	// Cache holds the leaderboard cache configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Gravatar holds the configuration for Gravatar profile pictures.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
	// Email holds the SMTP configuration used to deliver contact messages.
	Email *EmailConfig `yaml:"email" mapstructure:"email"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// UploadsConfig holds the configuration for stored images.
type UploadsConfig struct {
	// Dir is the directory uploaded files are written to. It is served under /uploads.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// MaxSize is the maximum accepted upload size in bytes.
	MaxSize int64 `yaml:"max_size" mapstructure:"max_size"`
	// MaxWidth is the maximum width of a stored image, larger images are scaled down.
	MaxWidth int `yaml:"max_width" mapstructure:"max_width"`
	// MaxHeight is the maximum height of a stored image, larger images are scaled down.
	MaxHeight int `yaml:"max_height" mapstructure:"max_height"`
	// Quality is the JPEG quality (1-100) used when re-encoding images.
	Quality int `yaml:"quality" mapstructure:"quality"`
}

// AdminConfig describes the default admin account.
type AdminConfig struct {
	Username string `yaml:"username" mapstructure:"username"`
	Email    string `yaml:"email" mapstructure:"email"`
	// Password is only needed when the admin account does not exist yet.
	Password string `yaml:"password" mapstructure:"password"`
}

// CacheConfig holds the configuration for the cache engine.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the Redis server if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// TTL is how long a cached leaderboard stays valid.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar is used as the default profile picture.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// EmailConfig holds the SMTP configuration.
type EmailConfig struct {
	// Enabled indicates whether contact messages are delivered by email.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// SMTPHost is the SMTP server host.
	SMTPHost string `yaml:"smtp_host" mapstructure:"smtp_host"`
	// SMTPPort is the SMTP server port.
	SMTPPort int `yaml:"smtp_port" mapstructure:"smtp_port"`
	// Username is the SMTP username.
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the SMTP password.
	Password string `yaml:"password" mapstructure:"password"`
	// FromEmail is the email address from which messages are sent.
	FromEmail string `yaml:"from_email" mapstructure:"from_email"`
	// FromName is the name from which messages are sent.
	FromName string `yaml:"from_name" mapstructure:"from_name"`
	// ContactAddress receives contact form messages. Defaults to the admin email.
	ContactAddress string `yaml:"contact_address" mapstructure:"contact_address"`
	// UseTLS indicates whether to use STARTTLS for the SMTP connection.
	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls"`
	// UseSSL indicates whether to use implicit TLS for the SMTP connection.
	UseSSL bool `yaml:"use_ssl" mapstructure:"use_ssl"`
	// InsecureSkipVerify indicates whether to skip TLS certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("CLANHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.clanhub")
		v.AddConfigPath("/etc/clanhub")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the CLANHUB_ prefix override config file values")
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
	v.SetDefault("listen", "0.0.0.0:5000")
	v.SetDefault("server_url", "http://localhost:5000")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 172800) // 48 hours
	v.SetDefault("secure_cookies", false)
	v.SetDefault("static_dir", "")

	// Database defaults
	v.SetDefault("database.path", "./data/clanhub.db")

	// Upload defaults
	v.SetDefault("uploads.dir", "./data/uploads")
	v.SetDefault("uploads.max_size", 5<<20) // 5 MiB
	v.SetDefault("uploads.max_width", 512)
	v.SetDefault("uploads.max_height", 512)
	v.SetDefault("uploads.quality", 85)

	// Admin defaults
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@mmc.com")
	v.SetDefault("admin.password", "")

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 5*time.Minute)

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 80)

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_name", "clanhub")
	v.SetDefault("email.contact_address", "")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.use_ssl", false)
	v.SetDefault("email.insecure_skip_verify", false)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing clanhub config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}
	if len(c.SessionKey) < 32 {
		log.Warn("session key is shorter than 32 bytes, consider using a longer one")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Uploads == nil || c.Uploads.Dir == "" {
		return fmt.Errorf("uploads dir is required")
	}
	if c.Uploads.MaxSize <= 0 {
		return fmt.Errorf("uploads max size must be greater than 0")
	}
	if c.Uploads.Quality < 1 || c.Uploads.Quality > 100 {
		return fmt.Errorf("uploads quality must be between 1 and 100")
	}

	if c.Admin == nil || c.Admin.Username == "" {
		return fmt.Errorf("admin username is required")
	}
	if c.Admin.Email == "" {
		return fmt.Errorf("admin email is required")
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
			TTL:  5 * time.Minute,
		}
	}

	if c.Email != nil && c.Email.Enabled {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required when email is enabled")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("from email is required when email is enabled")
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = urlSanitize(c.Listen)

	if c.ServerURL != "" {
		c.ServerURL = urlSanitize(c.ServerURL)
	}

	if c.Admin != nil {
		c.Admin.Username = strings.TrimSpace(c.Admin.Username)
		c.Admin.Email = strings.ToLower(strings.TrimSpace(c.Admin.Email))
	}

	if c.Email != nil && c.Email.ContactAddress == "" && c.Admin != nil {
		c.Email.ContactAddress = c.Admin.Email
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}

// GetSessionMaxAge returns the session max age with proper defaults.
func (c *Config) GetSessionMaxAge() int {
	if c == nil || c.SessionMaxAge <= 0 {
		return 172800
	}
	return c.SessionMaxAge
}

// GetCacheTTL returns the leaderboard cache TTL with proper defaults.
func (c *CacheConfig) GetCacheTTL() time.Duration {
	if c == nil || c.TTL <= 0 {
		return 5 * time.Minute
	}
	return c.TTL
}
