package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Admin modes.
const (
	AdminModeDisabled = "disabled"
	AdminModeToken    = "token"
)

// Store backends.
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendLedger = "ledger"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Store    StoreConfig       `yaml:"store"`
	Evidence EvidenceConfig    `yaml:"evidence"`
	Admin    AdminConfig       `yaml:"admin"`
	Contact  ContactConfig     `yaml:"contact"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Evidence.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	return c.Contact.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig selects and configures the case store backend.
//
// Backend controls where case records live:
//   - "sqlite" (default): indexed store, constant-cost lookups and appends.
//   - "ledger": a single JSON document rewritten whole on every change;
//     simpler to inspect, and watched for writes by other processes.
type StoreConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
	LedgerDir  string `yaml:"ledger_dir"`
	LedgerKey  string `yaml:"ledger_key"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = StoreBackendSQLite
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(StoreBackendSQLite, StoreBackendLedger)),
	); err != nil {
		return err
	}
	if c.Backend == StoreBackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("store: backend is %q but sqlite_path is empty", StoreBackendSQLite)
	}
	if c.Backend == StoreBackendLedger && c.LedgerDir == "" {
		return fmt.Errorf("store: backend is %q but ledger_dir is empty", StoreBackendLedger)
	}
	return nil
}

// EvidenceConfig holds evidence upload configuration.
type EvidenceConfig struct {
	Dir         string `yaml:"dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// MaxBytes returns the upload size cap in bytes.
func (c *EvidenceConfig) MaxBytes() int64 {
	return c.MaxUploadMB << 20
}

// Validate validates the evidence configuration.
func (c *EvidenceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.MaxUploadMB, validation.Required, validation.Min(1), validation.Max(512)),
	)
}

// AdminConfig holds configuration for administrative status transitions.
//
// Mode controls how the admin routes are protected:
//   - "disabled" (default): admin routes are open, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AdminConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the admin configuration.
func (c *AdminConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AdminModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AdminModeDisabled, AdminModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AdminModeToken && c.Token == "" {
		return fmt.Errorf("admin: mode is %q but token is empty", AdminModeToken)
	}
	return nil
}

// AuthEnabled returns true when admin authentication is active.
func (c *AdminConfig) AuthEnabled() bool {
	return c.Mode == AdminModeToken
}

// ContactConfig holds the upstream contact-form relay configuration.
type ContactConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the relay request timeout.
func (c *ContactConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the contact configuration.
func (c *ContactConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(120)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Backend:    StoreBackendSQLite,
			SQLitePath: "./cybershield.db",
			LedgerDir:  "./data",
		},
		Evidence: EvidenceConfig{
			Dir:         "./evidence",
			MaxUploadMB: 25,
		},
		Admin: AdminConfig{
			Mode: AdminModeDisabled,
		},
		Contact: ContactConfig{
			Endpoint:       "https://formrelay.example.org/submit",
			TimeoutSeconds: 10,
		},
	}
}
