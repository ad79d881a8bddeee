package catalog

import (
	"fmt"
)

// Process is the execution topology of a crew.
type Process int32

const (
	// ProcessSequential runs tasks in a fixed chain.
	ProcessSequential Process = 0
	// ProcessHierarchical lets a manager model delegate tasks across agents.
	ProcessHierarchical Process = 1
)

const (
	processSequentialName   = "Sequential"
	processHierarchicalName = "Hierarchical"
)

func (p Process) String() string {
	switch p {
	case ProcessSequential:
		return processSequentialName
	case ProcessHierarchical:
		return processHierarchicalName
	default:
		return fmt.Sprintf("Process(%d)", p)
	}
}

// MarshalText writes the display form.
func (p Process) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts any string; see MapProcess.
func (p *Process) UnmarshalText(text []byte) error {
	*p = MapProcess(string(text))
	return nil
}

// Processes returns the selectable process names.
func Processes() []string {
	return []string{processSequentialName, processHierarchicalName}
}

// MapProcess maps a display value to a topology. Only "Hierarchical" selects
// the hierarchical topology; everything else falls back to sequential.
func MapProcess(name string) Process {
	if name == processHierarchicalName {
		return ProcessHierarchical
	}
	return ProcessSequential
}

const (
	choiceTrue  = "True"
	choiceFalse = "False"
)

// BooleanChoices returns the selectable values of boolean fields.
func BooleanChoices() []string {
	return []string{choiceFalse, choiceTrue}
}

// MapBooleanChoice maps "True" to true and every other value to false.
func MapBooleanChoice(value string) bool {
	return value == choiceTrue
}

// BooleanChoice renders b in its display form.
func BooleanChoice(b bool) string {
	if b {
		return choiceTrue
	}
	return choiceFalse
}

// MapRateLimit maps 0 to nil (unlimited) and passes any other value through.
func MapRateLimit(n int) *int {
	if n == 0 {
		return nil
	}
	v := n
	return &v
}
