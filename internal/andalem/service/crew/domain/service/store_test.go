package service

import (
	"testing"

	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newStoreAndSession() (*ConfigStore, *entity.Session) {
	return NewConfigStore(NewIDGenerator()), entity.NewSession("s1")
}

func TestConfigStore_AddAgent(t *testing.T) {
	t.Run("Should create the crew and one first task", func(t *testing.T) {
		store, sess := newStoreAndSession()
		for i := 1; i <= 4; i++ {
			agent, err := store.AddAgent(sess)
			require.NoError(t, err)

			tasks := sess.AgentTasks(agent.ID)
			require.Len(t, tasks, 1)
			assert.Equal(t, 1, tasks[0].Number)
			assert.Len(t, sess.Agents, i)
		}
		require.NotNil(t, sess.Crew)
		assert.Equal(t, catalog.ProcessSequential, sess.Crew.Process)
	})

	t.Run("Should apply defaults", func(t *testing.T) {
		store, sess := newStoreAndSession()
		agent, err := store.AddAgent(sess)
		require.NoError(t, err)
		assert.Equal(t, catalog.DefaultAgentModel, agent.LLM)
		assert.Equal(t, entity.DefaultMaxIterations, agent.MaxIterations)
		assert.Equal(t, entity.DefaultMaxRPM, agent.MaxRPM)
		assert.True(t, agent.Verbose)
		assert.Empty(t, agent.Tools)
	})
}

func TestConfigStore_RemoveAgent(t *testing.T) {
	t.Run("Should clear everything when the only agent goes", func(t *testing.T) {
		store, sess := newStoreAndSession()
		agent, err := store.AddAgent(sess)
		require.NoError(t, err)
		sess.CurrentCrew = "my_crew"

		require.NoError(t, store.RemoveAgent(sess, agent.ID))
		assert.Empty(t, sess.Agents)
		assert.Empty(t, sess.Tasks)
		assert.Nil(t, sess.Crew)
		assert.Empty(t, sess.CurrentCrew)
	})

	t.Run("Should keep the crew and the other agents' tasks", func(t *testing.T) {
		store, sess := newStoreAndSession()
		a, _ := store.AddAgent(sess)
		b, _ := store.AddAgent(sess)
		_, err := store.AddTask(sess, b.ID)
		require.NoError(t, err)
		sess.CurrentCrew = "my_crew"

		require.NoError(t, store.RemoveAgent(sess, a.ID))
		assert.NotNil(t, sess.Crew)
		assert.Equal(t, "my_crew", sess.CurrentCrew)
		assert.Len(t, sess.Tasks, 2)
		for _, task := range sess.Tasks {
			assert.Equal(t, b.ID, task.AgentID)
		}
	})

	t.Run("Should fail for an unknown agent", func(t *testing.T) {
		store, sess := newStoreAndSession()
		assert.ErrorIs(t, store.RemoveAgent(sess, "zzzz"), errno.ErrAgentNotFound)
	})
}

func TestConfigStore_RemoveTask(t *testing.T) {
	store, sess := newStoreAndSession()
	agent, err := store.AddAgent(sess)
	require.NoError(t, err)
	_, err = store.AddTask(sess, agent.ID)
	require.NoError(t, err)

	t.Run("Should refuse to remove the first task", func(t *testing.T) {
		assert.ErrorIs(t, store.RemoveTask(sess, agent.ID, 1), errno.ErrFirstTaskLocked)
		assert.Len(t, sess.Tasks, 2)
	})

	t.Run("Should remove without renumbering", func(t *testing.T) {
		_, err := store.AddTask(sess, agent.ID)
		require.NoError(t, err)
		require.NoError(t, store.RemoveTask(sess, agent.ID, 2))

		var numbers []int
		for _, task := range sess.AgentTasks(agent.ID) {
			numbers = append(numbers, task.Number)
		}
		assert.Equal(t, []int{1, 3}, numbers)
	})

	t.Run("Should fail for an unknown task", func(t *testing.T) {
		assert.ErrorIs(t, store.RemoveTask(sess, agent.ID, 9), errno.ErrTaskNotFound)
	})
}

func TestConfigStore_Delegation(t *testing.T) {
	store, sess := newStoreAndSession()
	a, err := store.AddAgent(sess)
	require.NoError(t, err)

	t.Run("Should force delegation off for a sole agent", func(t *testing.T) {
		_, err := store.UpdateAgent(sess, a.ID, AgentPatch{AllowDelegation: ptr(true)})
		require.NoError(t, err)
		assert.False(t, sess.Agent(a.ID).AllowDelegation)
	})

	t.Run("Should allow delegation once a second agent exists", func(t *testing.T) {
		b, err := store.AddAgent(sess)
		require.NoError(t, err)
		_, err = store.UpdateAgent(sess, a.ID, AgentPatch{AllowDelegation: ptr(true)})
		require.NoError(t, err)
		assert.True(t, sess.Agent(a.ID).AllowDelegation)
		assert.False(t, sess.Agent(b.ID).AllowDelegation)

		_, err = store.UpdateAgent(sess, b.ID, AgentPatch{AllowDelegation: ptr(true)})
		require.NoError(t, err)
		assert.True(t, sess.Agent(b.ID).AllowDelegation)

		require.NoError(t, store.RemoveAgent(sess, b.ID))
		assert.False(t, sess.Agent(a.ID).AllowDelegation)
	})
}

func TestConfigStore_UpdateAgent(t *testing.T) {
	t.Run("Should apply a partial patch", func(t *testing.T) {
		store, sess := newStoreAndSession()
		a, _ := store.AddAgent(sess)

		got, err := store.UpdateAgent(sess, a.ID, AgentPatch{
			Name:  ptr("Researcher"),
			Tools: []catalog.ToolKey{catalog.ToolDuckDuckGoSearch, catalog.ToolDuckDuckGoSearch},
			LLM:   ptr(catalog.ModelOpenAIGPT4O),
		})
		require.NoError(t, err)
		assert.Equal(t, "Researcher", got.Name)
		assert.Equal(t, []catalog.ToolKey{catalog.ToolDuckDuckGoSearch}, got.Tools)
		assert.Equal(t, catalog.ModelOpenAIGPT4O, got.LLM)
		assert.Equal(t, entity.DefaultLLMTemperature, got.LLMTemperature)
	})

	t.Run("Should reject out of range values without changing the agent", func(t *testing.T) {
		store, sess := newStoreAndSession()
		a, _ := store.AddAgent(sess)

		cases := []AgentPatch{
			{Name: ptr("x"), LLMTemperature: ptr(1.5)},
			{Name: ptr("x"), MaxRPM: ptr(101)},
			{Name: ptr("x"), MaxIterations: ptr(0)},
		}
		for _, patch := range cases {
			_, err := store.UpdateAgent(sess, a.ID, patch)
			assert.ErrorIs(t, err, errno.ErrInvalidSettings)
			assert.Empty(t, sess.Agent(a.ID).Name)
		}
	})

	t.Run("Should reject catalog mismatches", func(t *testing.T) {
		store, sess := newStoreAndSession()
		a, _ := store.AddAgent(sess)

		_, err := store.UpdateAgent(sess, a.ID, AgentPatch{Tools: []catalog.ToolKey{"Hammer"}})
		assert.ErrorIs(t, err, errno.ErrUnknownTool)
		_, err = store.UpdateAgent(sess, a.ID, AgentPatch{LLM: ptr(catalog.ModelKey("GPT 9"))})
		assert.ErrorIs(t, err, errno.ErrUnknownModel)
	})
}

func TestConfigStore_UpdateCrew(t *testing.T) {
	t.Run("Should fail without a crew", func(t *testing.T) {
		store, sess := newStoreAndSession()
		_, err := store.UpdateCrew(sess, CrewPatch{Name: ptr("x")})
		assert.ErrorIs(t, err, errno.ErrCrewNotFound)
	})

	t.Run("Should reset manager settings when switching to sequential", func(t *testing.T) {
		store, sess := newStoreAndSession()
		_, _ = store.AddAgent(sess)

		crew, err := store.UpdateCrew(sess, CrewPatch{
			Process:               ptr(catalog.ProcessHierarchical),
			ManagerLLM:            ptr(catalog.ModelOpenAIGPT4),
			ManagerLLMTemperature: ptr(0.9),
		})
		require.NoError(t, err)
		assert.Equal(t, catalog.ModelOpenAIGPT4, crew.ManagerLLM)
		assert.Equal(t, 0.9, crew.ManagerLLMTemperature)

		crew, err = store.UpdateCrew(sess, CrewPatch{Process: ptr(catalog.ProcessSequential)})
		require.NoError(t, err)
		assert.Empty(t, crew.ManagerLLM)
		assert.Equal(t, entity.DefaultLLMTemperature, crew.ManagerLLMTemperature)
	})

	t.Run("Should reject an out of range rate limit", func(t *testing.T) {
		store, sess := newStoreAndSession()
		_, _ = store.AddAgent(sess)
		_, err := store.UpdateCrew(sess, CrewPatch{MaxRPM: ptr(-1)})
		assert.ErrorIs(t, err, errno.ErrInvalidSettings)
		assert.Equal(t, entity.DefaultMaxRPM, sess.Crew.MaxRPM)
	})
}

func TestConfigStore_RemoveCrew(t *testing.T) {
	store, sess := newStoreAndSession()
	_, _ = store.AddAgent(sess)
	_, _ = store.AddAgent(sess)
	sess.CurrentCrew = "team"

	store.RemoveCrew(sess)
	assert.True(t, sess.Empty())
	assert.Empty(t, sess.Tasks)
	assert.Nil(t, sess.Crew)
	assert.Empty(t, sess.CurrentCrew)
}
