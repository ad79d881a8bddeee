package service

import (
	"fmt"
	"time"

	"github.com/kiosk404/andalem/internal/andalem/service/runtime/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg"
	"github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/pkg/logger"
)

// RunStateMachine manages the lifecycle state transitions of a run.
// State machine: Idle -> Building -> Running -> Succeeded | Failed
type RunStateMachine struct {
	run *entity.Run
}

// NewRunStateMachine creates a new RunStateMachine for the given run.
func NewRunStateMachine(run *entity.Run) *RunStateMachine {
	return &RunStateMachine{run: run}
}

func (sm *RunStateMachine) transition(from, to entity.RunStatus) error {
	if sm.run.Status != from {
		return fmt.Errorf("%w: %s -> %s (run is %s)", errno.ErrInvalidTransition, from, to, sm.run.Status)
	}
	sm.run.Status = to
	logger.InfoX(pkg.ModuleName, "[RunState] run %s -> %s", sm.run.ID, to)
	return nil
}

// TransitionToBuilding starts mapping the configuration.
func (sm *RunStateMachine) TransitionToBuilding() error {
	return sm.transition(entity.RunStatusIdle, entity.RunStatusBuilding)
}

// TransitionToRunning hands the built pipeline to the engine.
func (sm *RunStateMachine) TransitionToRunning() error {
	if err := sm.transition(entity.RunStatusBuilding, entity.RunStatusRunning); err != nil {
		return err
	}
	now := time.Now()
	sm.run.StartedAt = &now
	return nil
}

// TransitionToSucceeded records the rendered outputs.
func (sm *RunStateMachine) TransitionToSucceeded(outputs []entity.OutputBlock) error {
	if err := sm.transition(entity.RunStatusRunning, entity.RunStatusSucceeded); err != nil {
		return err
	}
	now := time.Now()
	sm.run.CompletedAt = &now
	sm.run.Outputs = outputs
	return nil
}

// TransitionToFailed records runErr. Allowed from Building and Running;
// any output gathered so far is discarded.
func (sm *RunStateMachine) TransitionToFailed(runErr *entity.RunError) error {
	if sm.run.Status != entity.RunStatusBuilding && sm.run.Status != entity.RunStatusRunning {
		return fmt.Errorf("%w: %s -> %s", errno.ErrInvalidTransition, sm.run.Status, entity.RunStatusFailed)
	}
	now := time.Now()
	sm.run.CompletedAt = &now
	sm.run.Status = entity.RunStatusFailed
	sm.run.Outputs = []entity.OutputBlock{}
	sm.run.Error = runErr
	logger.ErrorX(pkg.ModuleName, "[RunState] run %s -> failed: %v", sm.run.ID, runErr)
	return nil
}

// Run returns the current run.
func (sm *RunStateMachine) Run() *entity.Run {
	return sm.run
}
