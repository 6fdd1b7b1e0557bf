package cli

import (
	"time"

	"dbctx/internal/config"
)

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:           f.ConfigFile,
		Profile:              f.Profile,
		Suite:                f.Suite,
		ProjectRoot:          f.ProjectRoot,
		MySQLBinary:          f.MySQLBinary,
		LogLevel:             f.LogLevel,
		Timeout:              f.Timeout,
		AllowUnknownPlatform: f.AllowUnknownPlatform,
		SkipImport:           f.SkipImport,
		Interactive:          f.Interactive,
	}
}
