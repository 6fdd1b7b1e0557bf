package storage

import (
	"dbctx/internal/config"
	"dbctx/internal/domain"
)

// Storage persists and loads setup reports (e.g. for the report viewer).
type Storage interface {
	Save(report *domain.SetupReport) error
	Load() (*domain.SetupReport, error)
}

// JSONStorage stores reports in a JSON file under the configured report path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's report path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
