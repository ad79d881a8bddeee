package util

import (
	"context"
	"sync"

	"github.com/kiosk404/andalem/internal/andalem/service/crew"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime"
)

// TestFactory is a Factory over a fixed crews directory and an injected runtime.
type TestFactory struct {
	Dir string
	// NewRuntime builds the runtime module; nil fails Runtime.
	NewRuntime func(ctx context.Context) (*runtime.Module, error)

	once sync.Once
	mod  *crew.Module
	err  error
}

func (f *TestFactory) CrewService(ctx context.Context) (crewService.CrewService, error) {
	f.once.Do(func() {
		f.mod, f.err = (&crew.Config{SavedCrewsDir: f.Dir}).Complete().New(ctx)
	})
	if f.err != nil {
		return nil, f.err
	}
	return f.mod.Service, nil
}

func (f *TestFactory) CrewFiles() *crewfile.Store {
	return crewfile.NewStore(f.Dir)
}

func (f *TestFactory) Runtime(ctx context.Context) (*runtime.Module, error) {
	if f.NewRuntime == nil {
		return nil, ErrExit
	}
	return f.NewRuntime(ctx)
}
