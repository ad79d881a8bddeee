package andalem

import (
	"context"
	"fmt"

	"github.com/kiosk404/andalem/internal/andalem/config"
	"github.com/kiosk404/andalem/internal/andalem/handler/middleware"
	"github.com/kiosk404/andalem/internal/andalem/service/crew"
	"github.com/kiosk404/andalem/internal/andalem/service/llm"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
	genericapiserver "github.com/kiosk404/andalem/internal/pkg/server"
	"github.com/kiosk404/andalem/pkg/logger"
)

type apiServer struct {
	genericAPIServer *genericapiserver.GenericAPIServer

	authConfig    *middleware.AuthConfig
	llmModule     *llm.Module
	crewModule    *crew.Module
	runtimeModule *runtime.Module
}

type preparedAPIServer struct {
	*apiServer
}

func createAPIServer(ctx context.Context, cfg *config.Config) (*apiServer, error) {
	genericConfig, err := buildGenericConfig(cfg)
	if err != nil {
		return nil, err
	}
	genericServer, err := genericConfig.Complete().New()
	if err != nil {
		return nil, err
	}

	modules, err := buildModules(ctx, cfg)
	if err != nil {
		return nil, err
	}
	modules.genericAPIServer = genericServer
	modules.authConfig = &middleware.AuthConfig{
		Enabled: cfg.AuthOptions.Enabled,
		Token:   cfg.AuthOptions.Token,
	}
	return modules, nil
}

// buildModules wires the service modules in dependency order: llm and tools
// feed the runtime, the crew module owns sessions and crew files.
func buildModules(ctx context.Context, cfg *config.Config) (*apiServer, error) {
	llmModule, err := (&llm.Config{ModelOptions: cfg.ModelOptions}).Complete().New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM module: %w", err)
	}
	logger.Info("[Andalem] LLM module initialized successfully")

	toolMapper := (&tools.Config{ToolOptions: cfg.ToolOptions}).Complete().New()

	crewModule, err := cfg.StoreOptions.CrewConfig().Complete().New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Crew module: %w", err)
	}
	logger.Info("[Andalem] Crew module initialized successfully")

	runtimeModule, err := (&runtime.Config{MemoryOptions: cfg.MemoryOptions}).Complete().New(ctx, runtime.Deps{
		Models: llmModule.Mapper,
		Tools:  toolMapper,
	})
	if err != nil {
		_ = crewModule.Close()
		return nil, fmt.Errorf("failed to create Runtime module: %w", err)
	}
	logger.Info("[Andalem] Runtime module initialized successfully")

	return &apiServer{
		llmModule:     llmModule,
		crewModule:    crewModule,
		runtimeModule: runtimeModule,
	}, nil
}

func (s *apiServer) PrepareRun() preparedAPIServer {
	initRouter(s.genericAPIServer.Engine, &routerDeps{
		crewService:  s.crewModule.Service,
		orchestrator: s.runtimeModule.Orchestrator,
		models:       s.llmModule.Mapper,
		authConfig:   s.authConfig,
	})
	return preparedAPIServer{s}
}

func (s preparedAPIServer) Run(ctx context.Context) error {
	defer s.close()
	return s.genericAPIServer.Run(ctx)
}

func (s *apiServer) close() {
	if s.runtimeModule != nil {
		if err := s.runtimeModule.Close(); err != nil {
			logger.Warn("[Andalem] close runtime module: %v", err)
		}
	}
	if s.crewModule != nil {
		if err := s.crewModule.Close(); err != nil {
			logger.Warn("[Andalem] close crew module: %v", err)
		}
	}
}

func buildGenericConfig(cfg *config.Config) (genericConfig *genericapiserver.Config, lastErr error) {
	genericConfig = genericapiserver.NewConfig()
	if lastErr = cfg.GenericServerRunOptions.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	return
}
