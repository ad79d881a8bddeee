package util

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiosk404/andalem/internal/andalem/service/crew"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	"github.com/kiosk404/andalem/internal/andalem/service/llm"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
	genericoptions "github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/spf13/viper"
)

// Viper keys shared by the andactl commands.
const (
	FlagConfig    = "config"
	FlagCrewsDir  = "crews-dir"
	FlagLogLevel  = "log-level"
	FlagOllamaURL = "models.ollama-url"
)

// Factory provides the services the andactl commands work with. andactl
// works on crew files directly: every command gets a private in-memory
// session over the crews directory.
type Factory interface {
	// CrewService returns the crew editing service.
	CrewService(ctx context.Context) (crewService.CrewService, error)
	// CrewFiles returns the crew file store.
	CrewFiles() *crewfile.Store
	// Runtime builds the modules a run needs. Close it when done.
	Runtime(ctx context.Context) (*runtime.Module, error)
}

type defaultFactory struct {
	once    sync.Once
	crewMod *crew.Module
	crewErr error
}

// NewDefaultFactory returns a Factory configured from viper.
func NewDefaultFactory() Factory {
	return &defaultFactory{}
}

func (f *defaultFactory) crewModule(ctx context.Context) (*crew.Module, error) {
	f.once.Do(func() {
		f.crewMod, f.crewErr = (&crew.Config{
			StoreType:     crew.StoreTypeInMemory,
			SavedCrewsDir: crewsDir(),
		}).Complete().New(ctx)
	})
	return f.crewMod, f.crewErr
}

func (f *defaultFactory) CrewService(ctx context.Context) (crewService.CrewService, error) {
	mod, err := f.crewModule(ctx)
	if err != nil {
		return nil, err
	}
	return mod.Service, nil
}

func (f *defaultFactory) CrewFiles() *crewfile.Store {
	return crewfile.NewStore(crewsDir())
}

func (f *defaultFactory) Runtime(ctx context.Context) (*runtime.Module, error) {
	modelOpts := genericoptions.NewModelOptions()
	toolOpts := genericoptions.NewToolOptions()
	memoryOpts := genericoptions.NewMemoryOptions()
	for key, target := range map[string]interface{}{
		"models": modelOpts,
		"tools":  toolOpts,
		"memory": memoryOpts,
	} {
		if err := viper.UnmarshalKey(key, target); err != nil {
			return nil, fmt.Errorf("read %s configuration: %w", key, err)
		}
	}
	if u := viper.GetString(FlagOllamaURL); u != "" {
		modelOpts.OllamaURL = u
	}
	for _, errs := range [][]error{modelOpts.Validate(), toolOpts.Validate(), memoryOpts.Validate()} {
		if len(errs) > 0 {
			return nil, fmt.Errorf("invalid configuration: %v", errs)
		}
	}

	llmModule, err := (&llm.Config{ModelOptions: modelOpts}).Complete().New(ctx)
	if err != nil {
		return nil, err
	}
	toolMapper := (&tools.Config{ToolOptions: toolOpts}).Complete().New()
	return (&runtime.Config{MemoryOptions: memoryOpts}).Complete().New(ctx, runtime.Deps{
		Models: llmModule.Mapper,
		Tools:  toolMapper,
	})
}

func crewsDir() string {
	if dir := viper.GetString(FlagCrewsDir); dir != "" {
		return dir
	}
	return "saved_crews"
}
