package crew

import (
	"context"
	"fmt"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/repo"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	boltdbStore "github.com/kiosk404/andalem/internal/andalem/service/crew/store/boltdb"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/inmemory"
	"github.com/kiosk404/andalem/pkg/logger"
)

const (
	StoreTypeInMemory = "inmemory"
	StoreTypeBoltDB   = "boltdb"
)

// Config holds the configuration for the Crew module.
// Follows K8S-style: Config → Complete() → New(ctx).
type Config struct {
	// StoreType selects the session backend: "inmemory" or "boltdb".
	// Default: "inmemory".
	StoreType string `json:"store_type,omitempty" mapstructure:"store-type"`

	// BoltDBPath is the file path for BoltDB storage (when StoreType="boltdb").
	// Default: "data/andalem.db".
	BoltDBPath string `json:"boltdb_path,omitempty" mapstructure:"boltdb-path"`

	// SavedCrewsDir is the directory holding the crew files.
	// Default: "saved_crews".
	SavedCrewsDir string `json:"saved_crews_dir,omitempty" mapstructure:"saved-crews-dir"`
}

// CompletedConfig is the validated and completed configuration.
type CompletedConfig struct {
	*Config
}

// Complete fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.StoreType == "" {
		c.StoreType = StoreTypeInMemory
	}
	if c.BoltDBPath == "" {
		c.BoltDBPath = "data/andalem.db"
	}
	if c.SavedCrewsDir == "" {
		c.SavedCrewsDir = "saved_crews"
	}
	return CompletedConfig{c}
}

// Module is the top-level Crew module.
type Module struct {
	Service service.CrewService
	Files   *crewfile.Store
	boltDB  *boltdbStore.DB // nil when using inmemory store
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m.boltDB != nil {
		return m.boltDB.Close()
	}
	return nil
}

// New creates the Crew module from a completed config.
func (c CompletedConfig) New(_ context.Context) (*Module, error) {
	logger.Info("[Crew] creating Crew module...")

	var (
		sessionStore repo.SessionRepository
		boltDB       *boltdbStore.DB
	)
	switch c.StoreType {
	case StoreTypeBoltDB:
		var err error
		boltDB, err = boltdbStore.Open(c.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb at %s: %w", c.BoltDBPath, err)
		}
		sessionStore = boltdbStore.NewSessionStore(boltDB)
		logger.Info("[Crew] using BoltDB store at %s", c.BoltDBPath)
	case StoreTypeInMemory:
		sessionStore = inmemory.NewSessionStore()
		logger.Info("[Crew] using in-memory store")
	default:
		return nil, fmt.Errorf("unknown store type %q", c.StoreType)
	}

	files := crewfile.NewStore(c.SavedCrewsDir)
	svc := service.NewCrewService(sessionStore, files, service.NewIDGenerator())

	logger.Info("[Crew] Crew module initialized (store=%s, saved_crews=%s)", c.StoreType, c.SavedCrewsDir)
	return &Module{
		Service: svc,
		Files:   files,
		boltDB:  boltDB,
	}, nil
}
