package options

import (
	"fmt"

	"github.com/kiosk404/andalem/internal/andalem/service/crew"
	"github.com/spf13/pflag"
)

// StoreOptions selects where sessions and crew files live.
type StoreOptions struct {
	Type          string `json:"type"            mapstructure:"type"`
	BoltDBPath    string `json:"boltdb-path"     mapstructure:"boltdb-path"`
	SavedCrewsDir string `json:"saved-crews-dir" mapstructure:"saved-crews-dir"`
}

func NewStoreOptions() *StoreOptions {
	return &StoreOptions{
		Type:          crew.StoreTypeInMemory,
		BoltDBPath:    "data/andalem.db",
		SavedCrewsDir: "saved_crews",
	}
}

func (o *StoreOptions) Validate() []error {
	var errs []error
	switch o.Type {
	case crew.StoreTypeInMemory, crew.StoreTypeBoltDB:
	default:
		errs = append(errs, fmt.Errorf("store.type must be %q or %q, got %q",
			crew.StoreTypeInMemory, crew.StoreTypeBoltDB, o.Type))
	}
	if o.SavedCrewsDir == "" {
		errs = append(errs, fmt.Errorf("store.saved-crews-dir must not be empty"))
	}
	return errs
}

func (o *StoreOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Type, "store.type", o.Type, "Session store: inmemory or boltdb.")
	fs.StringVar(&o.BoltDBPath, "store.boltdb-path", o.BoltDBPath, "BoltDB file used when store.type is boltdb.")
	fs.StringVar(&o.SavedCrewsDir, "store.saved-crews-dir", o.SavedCrewsDir, "Directory holding saved crew files.")
}

// CrewConfig returns the crew module configuration.
func (o *StoreOptions) CrewConfig() *crew.Config {
	return &crew.Config{
		StoreType:     o.Type,
		BoltDBPath:    o.BoltDBPath,
		SavedCrewsDir: o.SavedCrewsDir,
	}
}
