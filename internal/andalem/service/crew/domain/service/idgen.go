package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
)

const agentIDLength = 4

// IDGenerator produces agent and session identifiers.
type IDGenerator struct {
	source func() uuid.UUID
}

// NewIDGenerator returns a generator backed by random (v4) UUIDs.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{source: uuid.New}
}

// AgentID returns the first four hex characters of a random UUID, drawing
// again until the result collides with none of existing.
func (g *IDGenerator) AgentID(existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}
	for {
		id := strings.ReplaceAll(g.source().String(), "-", "")[:agentIDLength]
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

// SessionID returns a new session identifier.
func (g *IDGenerator) SessionID() string {
	return g.source().String()
}

// NextTaskNumber hands out the next task number of agentID. Numbers grow
// strictly per agent and are never reused, even after removals.
func NextTaskNumber(sess *entity.Session, agentID string) int {
	if sess.TaskCounters == nil {
		sess.TaskCounters = map[string]int{}
	}
	n := sess.TaskCounters[agentID]
	for _, t := range sess.AgentTasks(agentID) {
		if t.Number > n {
			n = t.Number
		}
	}
	n++
	sess.TaskCounters[agentID] = n
	return n
}
