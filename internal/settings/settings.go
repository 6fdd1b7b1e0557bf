// Package settings extracts and validates the database settings block of a
// suite configuration.
package settings

import (
	"fmt"
	"strings"

	"dbctx/internal/apperror"
	"dbctx/internal/suite"
)

const (
	KeyParameters            = "parameters"
	KeyDatabaseSettings      = "databaseSettings"
	KeyImportTestingDatabase = "importTestingDatabase"
	KeyPathToSQLDump         = "pathToSqlDump"
	KeyDatabaseName          = "databaseName"
	KeyCustomAssertions      = "customAssertions"
)

// Source is the suite-level configuration settings are read from
type Source interface {
	HasSetting(key string) bool
	Setting(key string) any
}

// Settings is the validated database settings of one suite run. The zero
// value is never returned from Extract.
type Settings struct {
	importTestingDatabase bool
	pathToSQLDump         string
	databaseName          string
	customAssertions      []string
}

// Extract validates src and builds Settings. It fails with a
// ConfigurationError naming the offending key.
func Extract(src Source) (Settings, error) {
	block, err := databaseSettings(src)
	if err != nil {
		return Settings{}, err
	}

	databaseName, err := requiredString(block, KeyDatabaseName)
	if err != nil {
		return Settings{}, err
	}
	pathToSQLDump, err := requiredString(block, KeyPathToSQLDump)
	if err != nil {
		return Settings{}, err
	}
	assertions, err := customAssertions(block)
	if err != nil {
		return Settings{}, err
	}

	importTestingDatabase := true
	if v, ok := block[KeyImportTestingDatabase]; ok && v != nil {
		importTestingDatabase = toBool(v)
	}

	return Settings{
		importTestingDatabase: importTestingDatabase,
		pathToSQLDump:         pathToSQLDump,
		databaseName:          databaseName,
		customAssertions:      assertions,
	}, nil
}

// ShouldImportTestingDatabase reports whether the dump is re-imported
func (s Settings) ShouldImportTestingDatabase() bool {
	return s.importTestingDatabase
}

// PathToSQLDump returns the dump file path
func (s Settings) PathToSQLDump() string {
	return s.pathToSQLDump
}

// DatabaseName returns the testing database name
func (s Settings) DatabaseName() string {
	return s.databaseName
}

// CustomAssertions returns the assertions in declared order
func (s Settings) CustomAssertions() []string {
	out := make([]string, len(s.customAssertions))
	copy(out, s.customAssertions)
	return out
}

// WithoutImport returns a copy with the import step disabled
func (s Settings) WithoutImport() Settings {
	s.importTestingDatabase = false
	return s
}

func databaseSettings(src Source) (map[string]any, error) {
	missing := apperror.Configuration(KeyParameters,
		"There must be a parameters section of behat.yml containing your database settings.")

	if !src.HasSetting(KeyParameters) {
		return nil, missing
	}
	params, ok := suite.AsMap(src.Setting(KeyParameters))
	if !ok {
		return nil, missing
	}
	block, ok := suite.AsMap(params[KeyDatabaseSettings])
	if !ok {
		missing.Key = KeyDatabaseSettings
		return nil, missing
	}
	return block, nil
}

func requiredString(block map[string]any, key string) (string, error) {
	missing := apperror.Configuration(key,
		fmt.Sprintf("You must set '%s' within the database settings in behat.yml.", key))

	v, ok := block[key]
	if !ok || v == nil {
		return "", missing
	}
	s, ok := scalarString(v)
	if !ok {
		return "", apperror.Configuration(key, fmt.Sprintf("'%s' must be a string in behat.yml.", key))
	}
	if strings.TrimSpace(s) == "" {
		return "", missing
	}
	return s, nil
}

func customAssertions(block map[string]any) ([]string, error) {
	v, ok := block[KeyCustomAssertions]
	if !ok || v == nil {
		return []string{}, nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil, apperror.Configuration(KeyCustomAssertions,
			fmt.Sprintf("'%s' must be a list of SQL queries in behat.yml.", KeyCustomAssertions))
	}

	out := make([]string, 0, len(list))
	for i, item := range list {
		sql, ok := scalarString(item)
		if !ok {
			return nil, apperror.Configuration(KeyCustomAssertions,
				fmt.Sprintf("'%s' entry %d must be an SQL string.", KeyCustomAssertions, i))
		}
		out = append(out, sql)
	}
	return out, nil
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val), true
	default:
		return "", false
	}
}

// toBool follows loose scripting-language truthiness so values such as 0,
// "0" and "" disable the import like an explicit false does. Quoted
// "false", "no" and "off" also disable it, since yaml.v3 keeps them as
// strings.
func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	case []any:
		return len(val) > 0
	default:
		if m, ok := suite.AsMap(v); ok {
			return len(m) > 0
		}
		return true
	}
}
