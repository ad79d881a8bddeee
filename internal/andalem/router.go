package andalem

import (
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/andalem/internal/andalem/handler/middleware"
	v1 "github.com/kiosk404/andalem/internal/andalem/handler/v1"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	llmService "github.com/kiosk404/andalem/internal/andalem/service/llm/domain/service"
	runtimeService "github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/service"
)

// routerDeps holds the dependencies needed for route registration.
type routerDeps struct {
	crewService  crewService.CrewService
	orchestrator runtimeService.Orchestrator
	models       llmService.ModelMapper
	authConfig   *middleware.AuthConfig
}

func initRouter(g *gin.Engine, deps *routerDeps) {
	installMiddleware(g, deps)
	installController(g, deps)
}

func installMiddleware(g *gin.Engine, deps *routerDeps) {
	g.Use(gin.Recovery())
	g.Use(middleware.RequestLog())
	g.Use(middleware.CORS())

	if deps.authConfig != nil {
		g.Use(middleware.BearerAuth(deps.authConfig))
	}
}

func installController(g *gin.Engine, deps *routerDeps) {
	inputs := v1.NewInputBroker()

	sessionHandler := v1.NewSessionHandler(deps.crewService, deps.orchestrator)
	agentHandler := v1.NewAgentHandler(deps.crewService)
	taskHandler := v1.NewTaskHandler(deps.crewService)
	crewHandler := v1.NewCrewHandler(deps.crewService)
	fileHandler := v1.NewFileHandler(deps.crewService)
	runHandler := v1.NewRunHandler(deps.crewService, deps.orchestrator, inputs)
	catalogHandler := v1.NewCatalogHandler(deps.models)

	apiV1 := g.Group("/v1")
	{
		apiV1.GET("/catalog", catalogHandler.Get)
		apiV1.GET("/providers", catalogHandler.Providers)

		// Sessions.
		apiV1.POST("/sessions", sessionHandler.Create)
		apiV1.GET("/sessions", sessionHandler.List)
		apiV1.GET("/sessions/:id", sessionHandler.Get)
		apiV1.DELETE("/sessions/:id", sessionHandler.Delete)

		// Agents and their tasks.
		apiV1.POST("/sessions/:id/agents", agentHandler.Add)
		apiV1.PATCH("/sessions/:id/agents/:agent", agentHandler.Update)
		apiV1.DELETE("/sessions/:id/agents/:agent", agentHandler.Remove)
		apiV1.POST("/sessions/:id/agents/:agent/tasks", taskHandler.Add)
		apiV1.PATCH("/sessions/:id/agents/:agent/tasks/:number", taskHandler.Update)
		apiV1.DELETE("/sessions/:id/agents/:agent/tasks/:number", taskHandler.Remove)

		// Crew.
		apiV1.PATCH("/sessions/:id/crew", crewHandler.Update)
		apiV1.DELETE("/sessions/:id/crew", crewHandler.Remove)
		apiV1.GET("/sessions/:id/validate", crewHandler.Validate)

		// Crew files.
		apiV1.POST("/sessions/:id/save", fileHandler.Save)
		apiV1.POST("/sessions/:id/load", fileHandler.Load)
		apiV1.GET("/crews", fileHandler.List)
		apiV1.DELETE("/crews/:name", fileHandler.Delete)

		// Runs.
		apiV1.POST("/sessions/:id/runs", runHandler.Run)
		apiV1.GET("/sessions/:id/runs", runHandler.List)
		apiV1.GET("/sessions/:id/runs/:run", runHandler.Get)
		apiV1.GET("/sessions/:id/runs/:run/report", runHandler.Report)
		apiV1.GET("/sessions/:id/questions", runHandler.Questions)
		apiV1.POST("/sessions/:id/questions/:question", runHandler.Answer)
	}
}
