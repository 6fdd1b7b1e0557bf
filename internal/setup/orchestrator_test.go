package setup

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dbctx/internal/apperror"
	"dbctx/internal/domain"
	"dbctx/internal/platform"
	"dbctx/internal/settings"
	"dbctx/internal/suite"
)

// recordingClient records calls in order and fails the configured ones.
type recordingClient struct {
	calls      []string
	failOn     map[string]error
	assertions map[string]error
}

func (c *recordingClient) fail(call string) error {
	if c.failOn == nil {
		return nil
	}
	return c.failOn[call]
}

func (c *recordingClient) RecreateDatabase(ctx context.Context, name string) error {
	c.calls = append(c.calls, "recreate "+name)
	return c.fail("recreate")
}

func (c *recordingClient) ImportDatabase(ctx context.Context, dumpPath, name string) error {
	c.calls = append(c.calls, "import "+name)
	return c.fail("import")
}

func (c *recordingClient) ExecuteCustomAssertion(ctx context.Context, name, sql string) error {
	c.calls = append(c.calls, "assert "+sql)
	if c.assertions != nil {
		return c.assertions[sql]
	}
	return nil
}

type staticDetector struct {
	detection platform.Detection
	err       error
}

func (d staticDetector) Detect() (platform.Detection, error) {
	return d.detection, d.err
}

type countingProgress struct {
	total, passed, failed int
	finished              bool
}

func (p *countingProgress) Update(passed, failed int) {
	p.passed, p.failed = passed, failed
}

func (p *countingProgress) Finish() {
	p.finished = true
}

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.sql")
	if err := os.WriteFile(path, []byte("CREATE TABLE users (id INT);"), 0644); err != nil {
		t.Fatalf("failed to write dump: %v", err)
	}
	return path
}

func suiteWith(db map[string]any) *suite.Suite {
	return suite.New("default", map[string]any{
		settings.KeyParameters: map[string]any{settings.KeyDatabaseSettings: db},
	})
}

func noPlatform() staticDetector {
	return staticDetector{detection: platform.Detection{Kind: platform.None}}
}

func TestBeforeSuite_FullSequence(t *testing.T) {
	dump := writeDump(t)
	client := &recordingClient{}
	o := NewOrchestrator(client, noPlatform())

	report, err := o.BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:     "test_db",
		settings.KeyPathToSQLDump:    dump,
		settings.KeyCustomAssertions: []any{"SELECT COUNT(*) FROM users", "SELECT COUNT(*) FROM orders WHERE id = 1"},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"recreate test_db",
		"import test_db",
		"assert SELECT COUNT(*) FROM users",
		"assert SELECT COUNT(*) FROM orders WHERE id = 1",
	}
	if !reflect.DeepEqual(client.calls, expected) {
		t.Errorf("expected calls %v, got %v", expected, client.calls)
	}
	if !report.Meta.Success {
		t.Error("expected successful report")
	}
	if report.Meta.DatabaseName != "test_db" {
		t.Errorf("expected database test_db in report, got %s", report.Meta.DatabaseName)
	}
	if len(report.Steps) != 7 {
		t.Errorf("expected 7 steps, got %d", len(report.Steps))
	}
}

func TestBeforeSuite_MissingRequiredKeyIssuesNoCommands(t *testing.T) {
	for _, key := range []string{settings.KeyDatabaseName, settings.KeyPathToSQLDump} {
		t.Run(key, func(t *testing.T) {
			db := map[string]any{
				settings.KeyDatabaseName:  "test_db",
				settings.KeyPathToSQLDump: writeDump(t),
			}
			delete(db, key)

			client := &recordingClient{}
			_, err := NewOrchestrator(client, noPlatform()).BeforeSuite(context.Background(), "default", suiteWith(db))

			appErr, ok := apperror.As(err)
			if !ok || appErr.Kind != apperror.KindConfiguration || appErr.Key != key {
				t.Fatalf("expected ConfigurationError for %s, got %v", key, err)
			}
			if len(client.calls) != 0 {
				t.Errorf("expected no commands, got %v", client.calls)
			}
		})
	}
}

func TestBeforeSuite_ImportDisabledStillRunsAssertions(t *testing.T) {
	client := &recordingClient{}
	o := NewOrchestrator(client, noPlatform())

	report, err := o.BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:          "test_db",
		settings.KeyPathToSQLDump:         "/does/not/exist.sql",
		settings.KeyImportTestingDatabase: false,
		settings.KeyCustomAssertions:      []any{"SELECT COUNT(*) FROM users"},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(client.calls, []string{"assert SELECT COUNT(*) FROM users"}) {
		t.Errorf("expected only the assertion, got %v", client.calls)
	}
	skipped := 0
	for _, step := range report.Steps {
		if step.Status == domain.StepSkipped {
			skipped++
		}
	}
	if skipped != 3 {
		t.Errorf("expected dump/recreate/import skipped, got %d skipped steps", skipped)
	}
}

func TestBeforeSuite_SkipImportOverride(t *testing.T) {
	client := &recordingClient{}
	o := NewOrchestrator(client, noPlatform())
	o.SetSkipImport(true)

	_, err := o.BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:  "test_db",
		settings.KeyPathToSQLDump: writeDump(t),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no commands, got %v", client.calls)
	}
}

func TestBeforeSuite_UnreadableDump(t *testing.T) {
	client := &recordingClient{}

	_, err := NewOrchestrator(client, noPlatform()).BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:  "test_db",
		settings.KeyPathToSQLDump: filepath.Join(t.TempDir(), "missing.sql"),
	}))

	appErr, ok := apperror.As(err)
	if !ok || appErr.Key != settings.KeyPathToSQLDump {
		t.Fatalf("expected ConfigurationError for pathToSqlDump, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no commands, got %v", client.calls)
	}
}

func TestBeforeSuite_ConfigurationMismatchStopsEverything(t *testing.T) {
	root := t.TempDir()
	localXML := filepath.Join(root, platform.MagentoOneLocalXML)
	os.MkdirAll(filepath.Dir(localXML), 0755)
	content := "<config><global><resources><default_setup><connection><dbname><![CDATA[shop_live]]></dbname></connection></default_setup></resources></global></config>"
	if err := os.WriteFile(localXML, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write local.xml: %v", err)
	}

	client := &recordingClient{}
	o := NewOrchestrator(client, platform.NewDetector(root, false))

	report, err := o.BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:     "test_db",
		settings.KeyPathToSQLDump:    writeDump(t),
		settings.KeyCustomAssertions: []any{"SELECT COUNT(*) FROM users"},
	}))

	if !apperror.IsKind(err, apperror.KindConfigurationMismatch) {
		t.Fatalf("expected ConfigurationMismatch, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no commands, got %v", client.calls)
	}
	if report.Meta.Platform != platform.MagentoOne.String() {
		t.Errorf("expected platform in report, got %q", report.Meta.Platform)
	}
}

func TestBeforeSuite_UnsupportedPlatform(t *testing.T) {
	client := &recordingClient{}
	detector := staticDetector{err: apperror.UnsupportedPlatform("Laravel")}

	_, err := NewOrchestrator(client, detector).BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:  "test_db",
		settings.KeyPathToSQLDump: writeDump(t),
	}))
	if !apperror.IsKind(err, apperror.KindUnsupportedPlatform) {
		t.Fatalf("expected UnsupportedPlatformError, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no commands, got %v", client.calls)
	}
}

func TestBeforeSuite_RecreateFailureSkipsImport(t *testing.T) {
	client := &recordingClient{failOn: map[string]error{
		"recreate": apperror.ExternalCommand("An error occurred while dropping the current testing database 'test_db'", 1, []string{"ERROR 1045"}, nil),
	}}

	report, err := NewOrchestrator(client, noPlatform()).BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:     "test_db",
		settings.KeyPathToSQLDump:    writeDump(t),
		settings.KeyCustomAssertions: []any{"SELECT COUNT(*) FROM users"},
	}))

	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind != apperror.KindExternalCommand {
		t.Fatalf("expected ExternalCommandError, got %v", err)
	}
	if !reflect.DeepEqual(appErr.Output, []string{"ERROR 1045"}) {
		t.Errorf("expected literal output, got %v", appErr.Output)
	}
	if !reflect.DeepEqual(client.calls, []string{"recreate test_db"}) {
		t.Errorf("expected import and assertions to be skipped, got %v", client.calls)
	}

	failed := report.FailedStep()
	if failed == nil || failed.Name != StepRecreate {
		t.Fatalf("expected recreate step to fail, got %+v", failed)
	}
	if failed.ErrorKind != "ExternalCommandError" || len(failed.Output) != 1 {
		t.Errorf("expected error kind and output recorded, got %+v", failed)
	}
}

func TestBeforeSuite_FirstFailingAssertionStops(t *testing.T) {
	client := &recordingClient{assertions: map[string]error{
		"SELECT COUNT(*) FROM orders": apperror.AssertionFailure("Custom assertion 'SELECT COUNT(*) FROM orders' has failed."),
	}}
	progress := &countingProgress{}
	o := NewOrchestrator(client, noPlatform())
	o.SetProgress(func(total int) Progress {
		progress.total = total
		return progress
	})

	_, err := o.BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:          "test_db",
		settings.KeyPathToSQLDump:         "/tmp/dump.sql",
		settings.KeyImportTestingDatabase: false,
		settings.KeyCustomAssertions: []any{
			"SELECT COUNT(*) FROM users",
			"SELECT COUNT(*) FROM orders",
			"SELECT COUNT(*) FROM products",
		},
	}))

	if !apperror.IsKind(err, apperror.KindAssertionFailure) {
		t.Fatalf("expected AssertionFailure, got %v", err)
	}
	if len(client.calls) != 2 {
		t.Errorf("expected the third assertion to be skipped, got %v", client.calls)
	}
	if progress.total != 3 || progress.passed != 1 || progress.failed != 1 || !progress.finished {
		t.Errorf("unexpected progress state: %+v", progress)
	}
}

func TestBeforeSuite_NoPlatformFoundBeforeImport(t *testing.T) {
	client := &recordingClient{}
	o := NewOrchestrator(client, platform.NewDetector(t.TempDir(), false))

	report, err := o.BeforeSuite(context.Background(), "default", suiteWith(map[string]any{
		settings.KeyDatabaseName:          "test_db",
		settings.KeyPathToSQLDump:         "/tmp/dump.sql",
		settings.KeyImportTestingDatabase: true,
		settings.KeyCustomAssertions:      []any{"SELECT COUNT(*) FROM users"},
	}))

	if !apperror.IsKind(err, apperror.KindProjectRootNotFound) {
		t.Fatalf("expected ProjectRootNotFoundError, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no recreate/import, got %v", client.calls)
	}
	if report.Meta.Success {
		t.Error("expected failed report")
	}
	if last := report.Steps[len(report.Steps)-1]; last.Name != StepPlatform {
		t.Errorf("expected platform to be the last step, got %s", last.Name)
	}
}

func TestAssertSQLDumpIsReadable(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"regular file", writeDump(t), false},
		{"missing file", filepath.Join(dir, "missing.sql"), true},
		{"directory", dir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertSQLDumpIsReadable(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil && !apperror.IsKind(err, apperror.KindConfiguration) {
				t.Errorf("expected ConfigurationError, got %v", err)
			}
		})
	}
}
