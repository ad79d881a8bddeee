package v1

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiosk404/andalem/internal/andalem/service/tools"
)

var errQuestionNotFound = errors.New("question not found")

// Question is a pending request for human input raised during a run.
type Question struct {
	ID       string    `json:"id"`
	RunID    string    `json:"run_id,omitempty"`
	Question string    `json:"question"`
	AskedAt  time.Time `json:"asked_at"`

	answer chan string
}

// InputBroker parks the questions of interactive runs until a client answers them.
type InputBroker struct {
	mu      sync.Mutex
	pending map[string]map[string]*Question // session id -> question id -> question
}

// NewInputBroker creates an empty broker.
func NewInputBroker() *InputBroker {
	return &InputBroker{pending: make(map[string]map[string]*Question)}
}

// Provider returns an InputProvider for one session. notify, when set, is
// called once per question before the provider starts waiting.
func (b *InputBroker) Provider(sessionID string, notify func(Question)) tools.InputProvider {
	return tools.InputProviderFunc(func(ctx context.Context, question string) (string, error) {
		q := &Question{
			ID:       uuid.NewString(),
			Question: question,
			AskedAt:  time.Now(),
			answer:   make(chan string, 1),
		}
		b.add(sessionID, q)
		defer b.remove(sessionID, q.ID)

		if notify != nil {
			notify(*q)
		}
		select {
		case a := <-q.answer:
			return a, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
}

// Pending lists the open questions of a session, oldest first.
func (b *InputBroker) Pending(sessionID string) []Question {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Question, 0, len(b.pending[sessionID]))
	for _, q := range b.pending[sessionID] {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AskedAt.Before(out[j].AskedAt) })
	return out
}

// Answer delivers answer to a pending question.
func (b *InputBroker) Answer(sessionID, questionID, answer string) error {
	b.mu.Lock()
	q, ok := b.pending[sessionID][questionID]
	if ok {
		delete(b.pending[sessionID], questionID)
	}
	b.mu.Unlock()

	if !ok {
		return errQuestionNotFound
	}
	q.answer <- answer
	return nil
}

func (b *InputBroker) add(sessionID string, q *Question) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending[sessionID] == nil {
		b.pending[sessionID] = make(map[string]*Question)
	}
	b.pending[sessionID][q.ID] = q
}

func (b *InputBroker) remove(sessionID, questionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending[sessionID], questionID)
	if len(b.pending[sessionID]) == 0 {
		delete(b.pending, sessionID)
	}
}
