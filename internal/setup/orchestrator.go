// Package setup runs the before-suite database preparation: settings,
// platform safety check, dump import and custom assertions. Every step is a
// hard precondition for the next one.
package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"dbctx/internal/apperror"
	"dbctx/internal/domain"
	"dbctx/internal/platform"
	"dbctx/internal/settings"
)

// Step names as they appear in the setup report
const (
	StepSettings  = "settings"
	StepPlatform  = "platform"
	StepDump      = "dump"
	StepRecreate  = "recreate"
	StepImport    = "import"
	StepAssertion = "assertion"
)

// DatabaseClient performs the destructive and read-only database commands
type DatabaseClient interface {
	RecreateDatabase(ctx context.Context, name string) error
	ImportDatabase(ctx context.Context, dumpPath, name string) error
	ExecuteCustomAssertion(ctx context.Context, name, sql string) error
}

// Detector finds the platform that owns the project
type Detector interface {
	Detect() (platform.Detection, error)
}

// Progress reports custom assertion progress
type Progress interface {
	Update(passed, failed int)
	Finish()
}

// Orchestrator is the before-suite hook
type Orchestrator struct {
	client     DatabaseClient
	detector   Detector
	verify     func(platform.Detection, string) error
	progress   func(total int) Progress
	skipImport bool
}

// NewOrchestrator creates an Orchestrator that verifies platforms with
// platform.Verify.
func NewOrchestrator(client DatabaseClient, detector Detector) *Orchestrator {
	return &Orchestrator{
		client:   client,
		detector: detector,
		verify:   platform.Verify,
	}
}

// SetProgress installs a progress reporter for custom assertions
func (o *Orchestrator) SetProgress(fn func(total int) Progress) {
	o.progress = fn
}

// SetSkipImport disables the recreate and import steps regardless of settings
func (o *Orchestrator) SetSkipImport(skip bool) {
	o.skipImport = skip
}

// BeforeSuite runs the whole preparation sequence against the suite
// configuration in src. The returned report is never nil and lists every step
// attempted; the error is the first failure.
func (o *Orchestrator) BeforeSuite(ctx context.Context, suiteName string, src settings.Source) (*domain.SetupReport, error) {
	start := time.Now()
	report := &domain.SetupReport{Meta: domain.SetupMeta{Suite: suiteName}}

	err := o.run(ctx, report, src)

	duration := time.Since(start)
	report.Meta.Success = err == nil
	report.Meta.Duration = duration.Round(time.Millisecond).String()
	report.Meta.DurationSeconds = duration.Seconds()
	report.Meta.Timestamp = start.Format(time.RFC3339)

	if err != nil {
		log.WithError(err).WithField("suite", suiteName).Error("database setup failed")
	}
	return report, err
}

func (o *Orchestrator) run(ctx context.Context, report *domain.SetupReport, src settings.Source) error {
	var s settings.Settings
	err := record(report, StepSettings, func() (string, error) {
		var err error
		s, err = settings.Extract(src)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("database %s", s.DatabaseName()), nil
	})
	if err != nil {
		return err
	}
	if o.skipImport {
		s = s.WithoutImport()
	}
	report.Meta.DatabaseName = s.DatabaseName()

	if err := o.assertTestingDatabaseIsBeingUsed(report, s); err != nil {
		return err
	}

	if err := o.importFreshTestingDatabase(ctx, report, s); err != nil {
		return err
	}

	return o.runCustomAssertions(ctx, report, s)
}

func (o *Orchestrator) assertTestingDatabaseIsBeingUsed(report *domain.SetupReport, s settings.Settings) error {
	return record(report, StepPlatform, func() (string, error) {
		detection, err := o.detector.Detect()
		if err != nil {
			return "", err
		}
		report.Meta.Platform = detection.Kind.String()
		report.Meta.ProjectRoot = detection.ProjectRoot

		log.WithFields(log.Fields{"platform": detection.Kind, "root": detection.ProjectRoot}).Info("platform detected")

		if err := o.verify(detection, s.DatabaseName()); err != nil {
			return "", err
		}
		if detection.Kind == platform.None {
			return "no platform detected, check skipped", nil
		}
		return fmt.Sprintf("%s at %s uses %s", detection.Kind, detection.ProjectRoot, s.DatabaseName()), nil
	})
}

func (o *Orchestrator) importFreshTestingDatabase(ctx context.Context, report *domain.SetupReport, s settings.Settings) error {
	if !s.ShouldImportTestingDatabase() {
		for _, name := range []string{StepDump, StepRecreate, StepImport} {
			report.Steps = append(report.Steps, domain.StepReport{Name: name, Status: domain.StepSkipped, Duration: "0s"})
		}
		return nil
	}

	color.White("Importing clean testing database.")

	err := record(report, StepDump, func() (string, error) {
		return s.PathToSQLDump(), AssertSQLDumpIsReadable(s.PathToSQLDump())
	})
	if err != nil {
		return err
	}

	err = record(report, StepRecreate, func() (string, error) {
		return s.DatabaseName(), o.client.RecreateDatabase(ctx, s.DatabaseName())
	})
	if err != nil {
		return err
	}

	err = record(report, StepImport, func() (string, error) {
		return s.PathToSQLDump(), o.client.ImportDatabase(ctx, s.PathToSQLDump(), s.DatabaseName())
	})
	if err != nil {
		return err
	}

	color.Green("✓ Testing database has been imported successfully.")
	return nil
}

func (o *Orchestrator) runCustomAssertions(ctx context.Context, report *domain.SetupReport, s settings.Settings) error {
	assertions := s.CustomAssertions()
	if len(assertions) == 0 {
		return nil
	}

	var bar Progress
	if o.progress != nil {
		bar = o.progress(len(assertions))
		defer bar.Finish()
	}

	for i, sql := range assertions {
		err := record(report, fmt.Sprintf("%s %d", StepAssertion, i+1), func() (string, error) {
			return sql, o.client.ExecuteCustomAssertion(ctx, s.DatabaseName(), sql)
		})
		if bar != nil {
			if err != nil {
				bar.Update(i, 1)
			} else {
				bar.Update(i+1, 0)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// AssertSQLDumpIsReadable checks that path names a regular file that can be
// opened for reading.
func AssertSQLDumpIsReadable(path string) error {
	unreadable := apperror.Configuration(settings.KeyPathToSQLDump,
		fmt.Sprintf("The provided SQL dump '%s' is not readable.", path))

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return unreadable
	}
	f, err := os.Open(path)
	if err != nil {
		return unreadable
	}
	return f.Close()
}

func record(report *domain.SetupReport, name string, fn func() (string, error)) error {
	start := time.Now()
	detail, err := fn()

	step := domain.StepReport{
		Name:     name,
		Status:   domain.StepPassed,
		Detail:   detail,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		step.Status = domain.StepFailed
		step.Error = err.Error()
		if appErr, ok := apperror.As(err); ok {
			step.ErrorKind = appErr.Kind.String()
			step.Output = appErr.Output
			step.Error = appErr.Message
			if appErr.Err != nil {
				step.Error = fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
			}
		}
	}
	report.Steps = append(report.Steps, step)

	log.WithFields(log.Fields{"step": name, "status": step.Status, "duration": step.Duration}).Debug("setup step finished")
	return err
}
