package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	ConfigFile  string
	Profile     string
	Suite       string

	// Database client settings
	MySQLBinary string
	Connection  Connection

	// Report settings
	ReportFile string
	ReportDir  string

	// Runtime settings
	Timeout  time.Duration
	LogLevel string

	// Command flags
	Flags Flags
}

// Connection holds optional client connection overrides. Empty fields fall
// back to the client's ambient credentials (~/.my.cnf and friends).
type Connection struct {
	Host     string
	Port     string
	User     string
	Password string
	Socket   string
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile           string
	Profile              string
	Suite                string
	ProjectRoot          string
	MySQLBinary          string
	LogLevel             string
	Timeout              time.Duration
	AllowUnknownPlatform bool
	SkipImport           bool
	Interactive          bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath: DefaultProjectPath,
		ConfigFile:  DefaultConfigFile,
		Profile:     DefaultProfile,
		Suite:       DefaultSuite,
		MySQLBinary: DefaultMySQLBinary,
		ReportFile:  DefaultReportFile,
		ReportDir:   DefaultReportDir,
		LogLevel:    DefaultLogLevel,
	}
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Apply(flags)
	return cfg
}

// Apply stores flags and lets non-empty values override the defaults
func (c *Config) Apply(flags Flags) {
	c.Flags = flags

	if flags.ProjectRoot != "" {
		c.ProjectPath = flags.ProjectRoot
	}
	if flags.ConfigFile != "" {
		c.ConfigFile = flags.ConfigFile
	}
	if flags.Profile != "" {
		c.Profile = flags.Profile
	}
	if flags.Suite != "" {
		c.Suite = flags.Suite
	}
	if flags.MySQLBinary != "" {
		c.MySQLBinary = flags.MySQLBinary
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
}

// LoadEnv reads connection overrides from the project's .env file and the
// process environment.
func (c *Config) LoadEnv() {
	envPath := filepath.Join(c.ProjectPath, DefaultEnvFile)
	if err := godotenv.Load(envPath); err != nil {
		// .env file might not exist, that's okay - use environment variables
		_ = err
	}

	c.Connection = Connection{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USERNAME"),
		Password: os.Getenv("DB_PASSWORD"),
		Socket:   os.Getenv("DB_SOCKET"),
	}
}

// GetConfigPath returns the test-runner config path. Relative paths are
// resolved against the project path.
func (c *Config) GetConfigPath() string {
	if filepath.IsAbs(c.ConfigFile) {
		return c.ConfigFile
	}
	return filepath.Join(c.ProjectPath, c.ConfigFile)
}

// GetAnchor returns the absolute directory platform detection starts from.
func (c *Config) GetAnchor() (string, error) {
	return filepath.Abs(c.ProjectPath)
}

// GetReportPath returns the full path to the setup report. Resolves to an
// absolute path so setup and report always agree regardless of cwd.
func (c *Config) GetReportPath() string {
	p := filepath.Join(c.ProjectPath, c.ReportDir, c.ReportFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
