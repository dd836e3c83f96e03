package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Content  ContentConfig  `mapstructure:"content"  validate:"required"`
	Admin    AdminConfig    `mapstructure:"admin"    validate:"required"`
	Banner   BannerConfig   `mapstructure:"banner"   validate:"required"`
	Export   ExportConfig   `mapstructure:"export"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
}

// ContentConfig describes where catalog fragments are fetched from.
type ContentConfig struct {
	// Origin is either an http(s) base URL or a local directory holding
	// sections.json, banners.json and the per-section folders.
	Origin string `mapstructure:"origin" validate:"required"`

	// PublicBase prefixes the data URLs of attachments loaded from the origin,
	// as seen by the browser.
	PublicBase string `mapstructure:"public_base" validate:"required"`

	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" validate:"gte=1"`
}

// AdminConfig holds the single administrator credential pair.
// When PasswordHash is set it takes precedence over Password.
type AdminConfig struct {
	Login        string `mapstructure:"login"         validate:"required"`
	Password     string `mapstructure:"password"      validate:"required_without=PasswordHash"`
	PasswordHash string `mapstructure:"password_hash"`

	// LoginAttemptsPerMinute throttles credential checks over HTTP.
	LoginAttemptsPerMinute int `mapstructure:"login_attempts_per_minute" validate:"gte=1"`
}

// BannerConfig configures the banner rotation controller.
type BannerConfig struct {
	RotationIntervalMS int `mapstructure:"rotation_interval_ms" validate:"gte=100"`
}

// ExportConfig holds the fixed texts written into exported documents.
type ExportConfig struct {
	SystemTitle string `mapstructure:"system_title" validate:"required"`
	Creator     string `mapstructure:"creator"      validate:"required"`
}

// DatabaseConfig configures the optional revision journal.
// An empty URL disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}
