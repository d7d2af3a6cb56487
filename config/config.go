package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Contact       ContactConfig
	SMTP          SMTPConfig
	ReCAPTCHA     ReCAPTCHAConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	SiteDomain     string
	AllowedOrigins []string
}

// ContactConfig controls how submissions are validated, answered and addressed.
type ContactConfig struct {
	Recipients       []string
	SubjectPrefix    string
	FromAddress      string
	FromName         string
	ValidationStatus int // HTTP status for validation failures: 400, or 200 for legacy front-ends
	DefaultLocale    string
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxBodyBytes     int64
}

type SMTPConfig struct {
	Driver         string // "smtp" or "log"
	Host           string
	Port           int
	Username       string
	Password       string
	TLSPolicy      string // "mandatory", "opportunistic" or "none"
	SSL            bool
	TimeoutSeconds int
}

type ReCAPTCHAConfig struct {
	SecretKey string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("CONTACT_SUBJECT_PREFIX", "[Contact Form]")
	v.SetDefault("CONTACT_FROM_NAME", "Website Contact")
	v.SetDefault("CONTACT_VALIDATION_STATUS", 400)
	v.SetDefault("CONTACT_DEFAULT_LOCALE", "ar")
	v.SetDefault("CONTACT_RATE_LIMIT_RPS", 0.2) // one submission every 5s per IP
	v.SetDefault("CONTACT_RATE_LIMIT_BURST", 5)
	v.SetDefault("CONTACT_MAX_BODY_BYTES", 64*1024)
	v.SetDefault("MAIL_DRIVER", "smtp")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_TLS_POLICY", "mandatory")
	v.SetDefault("SMTP_SSL", false)
	v.SetDefault("SMTP_TIMEOUT_SECONDS", 15)
	v.SetDefault("O11Y_BE_SERVICE_NAME", "contact-relay")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "fixitdz")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "contact-relay")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	siteDomain := strings.TrimSpace(v.GetString("SITE_DOMAIN"))
	fromAddress := strings.TrimSpace(v.GetString("CONTACT_FROM_ADDRESS"))
	if fromAddress == "" && siteDomain != "" {
		fromAddress = "noreply@" + siteDomain
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			SiteDomain:     siteDomain,
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Contact: ContactConfig{
			Recipients:       splitList(v.GetString("CONTACT_RECIPIENTS")),
			SubjectPrefix:    v.GetString("CONTACT_SUBJECT_PREFIX"),
			FromAddress:      fromAddress,
			FromName:         v.GetString("CONTACT_FROM_NAME"),
			ValidationStatus: v.GetInt("CONTACT_VALIDATION_STATUS"),
			DefaultLocale:    v.GetString("CONTACT_DEFAULT_LOCALE"),
			RateLimitRPS:     v.GetFloat64("CONTACT_RATE_LIMIT_RPS"),
			RateLimitBurst:   v.GetInt("CONTACT_RATE_LIMIT_BURST"),
			MaxBodyBytes:     v.GetInt64("CONTACT_MAX_BODY_BYTES"),
		},
		SMTP: SMTPConfig{
			Driver:         strings.ToLower(v.GetString("MAIL_DRIVER")),
			Host:           v.GetString("SMTP_HOST"),
			Port:           v.GetInt("SMTP_PORT"),
			Username:       v.GetString("SMTP_USERNAME"),
			Password:       v.GetString("SMTP_PASSWORD"),
			TLSPolicy:      strings.ToLower(v.GetString("SMTP_TLS_POLICY")),
			SSL:            v.GetBool("SMTP_SSL"),
			TimeoutSeconds: v.GetInt("SMTP_TIMEOUT_SECONDS"),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_V2_SECRET_KEY"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping empty entries
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Contact configuration
	if len(c.Contact.Recipients) == 0 {
		return fmt.Errorf("CONTACT_RECIPIENTS is required")
	}
	if c.Contact.FromAddress == "" {
		return fmt.Errorf("CONTACT_FROM_ADDRESS or SITE_DOMAIN is required")
	}
	if c.Contact.ValidationStatus != 400 && c.Contact.ValidationStatus != 200 {
		return fmt.Errorf("CONTACT_VALIDATION_STATUS must be 400 or 200, got %d", c.Contact.ValidationStatus)
	}
	if c.Contact.MaxBodyBytes <= 0 {
		return fmt.Errorf("CONTACT_MAX_BODY_BYTES must be positive")
	}

	// Mail transport
	switch c.SMTP.Driver {
	case "smtp":
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_DRIVER=smtp")
		}
	case "log":
		if c.IsProduction() {
			return fmt.Errorf("MAIL_DRIVER=log is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER: %q", c.SMTP.Driver)
	}
	switch c.SMTP.TLSPolicy {
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("unsupported SMTP_TLS_POLICY: %q", c.SMTP.TLSPolicy)
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
