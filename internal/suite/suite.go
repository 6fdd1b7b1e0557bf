// Package suite reads a test-runner suite configuration from a Behat-style
// YAML file.
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"dbctx/internal/apperror"
)

// BasePathPlaceholder expands to the directory holding the config file
const BasePathPlaceholder = "%paths.base%"

// Suite is one configured suite and its settings
type Suite struct {
	Name     string
	settings map[string]any
}

// New creates a Suite from already-decoded settings
func New(name string, settings map[string]any) *Suite {
	if settings == nil {
		settings = map[string]any{}
	}
	return &Suite{Name: name, settings: settings}
}

// HasSetting reports whether key is present with a non-null value
func (s *Suite) HasSetting(key string) bool {
	v, ok := s.settings[key]
	return ok && v != nil
}

// Setting returns the raw value stored under key
func (s *Suite) Setting(key string) any {
	return s.settings[key]
}

// Load reads path and returns the named suite of the given profile
func Load(path, profile, name string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperror.Error{
			Kind:    apperror.KindConfiguration,
			Message: fmt.Sprintf("failed to read test-runner config %s", path),
			Err:     err,
		}
	}

	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &apperror.Error{
			Kind:    apperror.KindConfiguration,
			Message: fmt.Sprintf("failed to parse test-runner config %s", path),
			Err:     err,
		}
	}

	profileSection, ok := AsMap(root[profile])
	if !ok {
		return nil, apperror.Configuration(profile,
			fmt.Sprintf("profile '%s' is not defined in %s", profile, filepath.Base(path)))
	}

	suites, ok := AsMap(profileSection["suites"])
	if !ok {
		return nil, apperror.Configuration("suites",
			fmt.Sprintf("profile '%s' has no suites section in %s", profile, filepath.Base(path)))
	}

	settings, ok := AsMap(suites[name])
	if !ok {
		return nil, apperror.Configuration(name,
			fmt.Sprintf("suite '%s' is not defined in profile '%s'", name, profile))
	}

	basePath, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		basePath = filepath.Dir(path)
	}

	expanded, _ := expand(settings, basePath).(map[string]any)
	return New(name, expanded), nil
}

// AsMap normalises a decoded YAML mapping to map[string]any
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func expand(v any, basePath string) any {
	switch val := v.(type) {
	case string:
		return strings.ReplaceAll(val, BasePathPlaceholder, basePath)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = expand(item, basePath)
		}
		return out
	default:
		if m, ok := AsMap(v); ok {
			out := make(map[string]any, len(m))
			for k, item := range m {
				out[k] = expand(item, basePath)
			}
			return out
		}
		return v
	}
}
