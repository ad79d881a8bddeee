package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	crewEntity "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	crewService "github.com/kiosk404/andalem/internal/andalem/service/crew/domain/service"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/repo"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/engine"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
	"github.com/kiosk404/andalem/pkg/ansihtml"
	"github.com/kiosk404/andalem/pkg/logger"
)

// RunOptions carries the per-run collaborators of the caller.
type RunOptions struct {
	// Sink receives the verbose trace. Nil drops it.
	Sink LineSink
	// Input answers human input tasks and the User Input tool. Nil skips them.
	Input tools.InputProvider
}

// InvalidCrewError is returned when a run is requested on an incomplete configuration.
type InvalidCrewError struct {
	Report *crewService.Report
}

func (e *InvalidCrewError) Error() string {
	return fmt.Sprintf("%v: %s", errno.ErrCrewNotReady, strings.Join(e.Report.Messages(), "; "))
}

func (e *InvalidCrewError) Unwrap() error {
	return errno.ErrCrewNotReady
}

// Orchestrator runs a session's crew: validate, build, execute, render.
type Orchestrator interface {
	// Run executes a snapshot of sess and blocks until the run ends. A failed
	// run is returned with a nil error and its RunError set.
	Run(ctx context.Context, sess *crewEntity.Session, opts RunOptions) (*entity.Run, error)
	GetRun(ctx context.Context, id string) (*entity.Run, error)
	ListRuns(ctx context.Context, sessionID string) ([]*entity.Run, error)
	// ForgetSession drops the runs of a deleted session.
	ForgetSession(ctx context.Context, sessionID string) error
}

type orchestrator struct {
	runs    repo.RunRepository
	builder *PipelineBuilder
	engine  engine.Engine
}

func NewOrchestrator(runs repo.RunRepository, builder *PipelineBuilder, eng engine.Engine) Orchestrator {
	return &orchestrator{runs: runs, builder: builder, engine: eng}
}

func (o *orchestrator) Run(ctx context.Context, sess *crewEntity.Session, opts RunOptions) (*entity.Run, error) {
	snapshot, err := sess.Clone()
	if err != nil {
		return nil, fmt.Errorf("snapshot session %s: %w", sess.ID, err)
	}
	if snapshot.Empty() {
		return nil, errno.ErrEmptyCrew
	}
	if report := crewService.Validate(snapshot); !report.Valid() {
		return nil, &InvalidCrewError{Report: report}
	}

	run := entity.NewRun(uuid.NewString(), snapshot.ID, snapshot.Crew.Name)
	if err := o.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	sm := NewRunStateMachine(run)

	if err := sm.TransitionToBuilding(); err != nil {
		return nil, err
	}
	o.save(ctx, run)

	spec, err := o.builder.Build(ctx, snapshot, opts.Input)
	var pipeline engine.Pipeline
	if err == nil {
		pipeline, err = o.engine.Build(ctx, spec)
	}
	if err != nil {
		logger.ErrorX(pkg.ModuleName, "[Orchestrator] There was an error building crew: %v", err)
		return o.fail(ctx, sm, buildError(err))
	}

	if err := sm.TransitionToRunning(); err != nil {
		return nil, err
	}
	o.save(ctx, run)

	streams := engine.DiscardStreams()
	var stdout, stderr *lineWriter
	if opts.Sink != nil {
		stdout, stderr = newLineWriters(opts.Sink)
		streams = engine.Streams{Stdout: stdout, Stderr: stderr}
	}

	out, err := pipeline.Run(ctx, streams)
	if stdout != nil {
		stdout.Flush()
		stderr.Flush()
	}
	if err != nil {
		logger.ErrorX(pkg.ModuleName, "[Orchestrator] There was an error running crew: %v", err)
		category := entity.Classify(err)
		return o.fail(ctx, sm, &entity.RunError{Category: category, Message: category.Message()})
	}

	if err := sm.TransitionToSucceeded(renderOutputs(snapshot.Crew.FullOutput, out)); err != nil {
		return nil, err
	}
	o.save(ctx, run)
	logger.InfoX(pkg.ModuleName, "[Orchestrator] run %s of crew %q succeeded", run.ID, run.CrewName)
	return run, nil
}

func (o *orchestrator) fail(ctx context.Context, sm *RunStateMachine, runErr *entity.RunError) (*entity.Run, error) {
	if err := sm.TransitionToFailed(runErr); err != nil {
		return nil, err
	}
	o.save(ctx, sm.Run())
	return sm.Run(), nil
}

func (o *orchestrator) save(ctx context.Context, run *entity.Run) {
	if err := o.runs.Update(ctx, run); err != nil {
		logger.WarnX(pkg.ModuleName, "[Orchestrator] failed to record run %s: %v", run.ID, err)
	}
}

func (o *orchestrator) GetRun(ctx context.Context, id string) (*entity.Run, error) {
	return o.runs.Get(ctx, id)
}

func (o *orchestrator) ListRuns(ctx context.Context, sessionID string) ([]*entity.Run, error) {
	return o.runs.ListBySession(ctx, sessionID)
}

func (o *orchestrator) ForgetSession(ctx context.Context, sessionID string) error {
	return o.runs.DeleteBySession(ctx, sessionID)
}

// buildError hides the cause behind the generic build message. Mapping
// failures add the message of the catalog reference that failed.
func buildError(err error) *entity.RunError {
	runErr := &entity.RunError{Message: entity.MessageBuildFailed}
	var mapping *entity.MappingError
	if errors.As(err, &mapping) {
		runErr.Details = []string{mapping.UserMessage()}
	}
	return runErr
}

// renderOutputs turns the engine result into display blocks: a description
// and an output block per task with full output, else the final output only.
func renderOutputs(fullOutput bool, out *engine.AggregateOutput) []entity.OutputBlock {
	if out == nil {
		return []entity.OutputBlock{}
	}
	if !fullOutput {
		return []entity.OutputBlock{block(entity.OutputFinal, "", 0, out.Final)}
	}
	blocks := make([]entity.OutputBlock, 0, 2*len(out.Tasks))
	for _, t := range out.Tasks {
		blocks = append(blocks,
			block(entity.OutputTaskDescription, t.AgentID, t.TaskNumber, t.Description),
			block(entity.OutputTaskResult, t.AgentID, t.TaskNumber, t.RawOutput),
		)
	}
	return blocks
}

func block(kind entity.OutputKind, agentID string, number int, raw string) entity.OutputBlock {
	return entity.OutputBlock{
		Kind:       kind,
		AgentID:    agentID,
		TaskNumber: number,
		Raw:        raw,
		HTML:       ansihtml.ConvertFull(raw),
	}
}
