package crew

import (
	"context"
	"os"
	"testing"

	"github.com/kiosk404/andalem/internal/andactl/cmd/util"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeSession() *entity.Session {
	sess := entity.NewSession("s1")
	a := entity.NewAgent("abcd")
	a.Name, a.Role, a.Goal = "Scout", "Researcher", "Find sources"
	a.Backstory = "Spent a decade in archives."
	sess.Agents = append(sess.Agents, a)
	t := entity.NewTask("abcd", 1)
	t.Description, t.ExpectedOutput = "List five sources", "A bullet list"
	sess.Tasks = append(sess.Tasks, t)
	sess.TaskCounters["abcd"] = 1
	sess.Crew = entity.NewCrew()
	sess.Crew.Name, sess.Crew.Description = "Research", "Finds things"
	return sess
}

func saveCrew(t *testing.T, dir, name string, sess *entity.Session) {
	t.Helper()
	_, err := crewfile.NewStore(dir).Save(context.Background(), sess, name, false)
	require.NoError(t, err)
}

func TestNewCommand(t *testing.T) {
	t.Run("Should write a skeleton with one task per agent", func(t *testing.T) {
		f := &util.TestFactory{Dir: t.TempDir()}
		streams, _, out, _ := genericclioptions.NewTestIOStreams()
		cmd := NewCmdNew(f, streams)
		o := NewNewOptions(f, streams)
		o.Agents = 2
		o.Process = "Hierarchical"

		require.NoError(t, o.Complete(cmd, []string{"My Crew"}))
		require.NoError(t, o.Validate(cmd))
		require.NoError(t, o.Run(context.Background()))
		assert.Contains(t, out.String(), `crew "my_crew" created`)

		sess, err := f.CrewFiles().Load(context.Background(), "my_crew")
		require.NoError(t, err)
		assert.Len(t, sess.Agents, 2)
		assert.Len(t, sess.Tasks, 2)
		assert.Equal(t, "My Crew", sess.Crew.Name)
		assert.Equal(t, catalog.ProcessHierarchical, sess.Crew.Process)
	})

	t.Run("Should refuse to replace an existing crew without overwrite", func(t *testing.T) {
		dir := t.TempDir()
		saveCrew(t, dir, "taken", completeSession())
		f := &util.TestFactory{Dir: dir}
		streams, _, _, _ := genericclioptions.NewTestIOStreams()
		o := NewNewOptions(f, streams)
		o.Name = "taken"

		assert.Error(t, o.Run(context.Background()))

		o.Overwrite = true
		assert.NoError(t, o.Run(context.Background()))
	})

	t.Run("Should reject bad options", func(t *testing.T) {
		f := &util.TestFactory{Dir: t.TempDir()}
		streams, _, _, _ := genericclioptions.NewTestIOStreams()
		cmd := NewCmdNew(f, streams)

		o := NewNewOptions(f, streams)
		assert.Error(t, o.Complete(cmd, nil))

		o.Name = "!!!"
		assert.Error(t, o.Validate(cmd))

		o.Name, o.Agents = "ok", 0
		assert.Error(t, o.Validate(cmd))

		o.Agents, o.Process = 1, "Parallel"
		assert.Error(t, o.Validate(cmd))
	})
}

func TestListCommand(t *testing.T) {
	t.Run("Should report an empty directory", func(t *testing.T) {
		f := &util.TestFactory{Dir: t.TempDir()}
		streams, _, out, _ := genericclioptions.NewTestIOStreams()

		require.NoError(t, NewListOptions(f, streams).Run(context.Background()))
		assert.Contains(t, out.String(), "No saved crews")
	})

	t.Run("Should list the saved crews with their sizes", func(t *testing.T) {
		dir := t.TempDir()
		saveCrew(t, dir, "research", completeSession())
		require.NoError(t, os.WriteFile(crewfile.NewStore(dir).Path("broken"), []byte("{"), 0644))
		f := &util.TestFactory{Dir: dir}
		streams, _, out, _ := genericclioptions.NewTestIOStreams()

		require.NoError(t, NewListOptions(f, streams).Run(context.Background()))
		assert.Contains(t, out.String(), "NAME")
		assert.Regexp(t, `research\s+Research\s+Sequential\s+1\s+1`, out.String())
		assert.Contains(t, out.String(), "<unreadable>")
	})
}

func TestShowCommand(t *testing.T) {
	t.Run("Should render the agents and their tasks", func(t *testing.T) {
		dir := t.TempDir()
		saveCrew(t, dir, "research", completeSession())
		f := &util.TestFactory{Dir: dir}
		streams, _, out, _ := genericclioptions.NewTestIOStreams()
		o := NewShowOptions(f, streams)
		o.Name, o.Width = "research", 80

		require.NoError(t, o.Run(context.Background()))
		assert.Contains(t, out.String(), "Agent ABCD")
		assert.Contains(t, out.String(), "Scout")
		assert.Contains(t, out.String(), "List five sources")
		assert.Contains(t, out.String(), "Sequential")
	})

	t.Run("Should fail for an unknown crew", func(t *testing.T) {
		f := &util.TestFactory{Dir: t.TempDir()}
		streams, _, _, _ := genericclioptions.NewTestIOStreams()
		o := NewShowOptions(f, streams)
		o.Name = "missing"

		assert.Error(t, o.Run(context.Background()))
	})
}

func TestDeleteCommand(t *testing.T) {
	t.Run("Should remove the crew file", func(t *testing.T) {
		dir := t.TempDir()
		saveCrew(t, dir, "research", completeSession())
		f := &util.TestFactory{Dir: dir}
		streams, _, out, _ := genericclioptions.NewTestIOStreams()
		o := NewDeleteOptions(f, streams)
		o.Names = []string{"research"}

		require.NoError(t, o.Run(context.Background()))
		assert.Contains(t, out.String(), `crew "research" deleted`)
		_, err := os.Stat(f.CrewFiles().Path("research"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestValidateCommand(t *testing.T) {
	t.Run("Should accept a complete crew", func(t *testing.T) {
		dir := t.TempDir()
		saveCrew(t, dir, "research", completeSession())
		f := &util.TestFactory{Dir: dir}
		streams, _, out, _ := genericclioptions.NewTestIOStreams()
		o := NewValidateOptions(f, streams)
		o.Name = "research"

		require.NoError(t, o.Run(context.Background()))
		assert.Contains(t, out.String(), "ready to run")
	})

	t.Run("Should list every incomplete record", func(t *testing.T) {
		dir := t.TempDir()
		sess := completeSession()
		sess.Agents[0].Goal = ""
		sess.Tasks[0].ExpectedOutput = ""
		saveCrew(t, dir, "research", sess)
		f := &util.TestFactory{Dir: dir}
		streams, _, out, _ := genericclioptions.NewTestIOStreams()
		o := NewValidateOptions(f, streams)
		o.Name = "research"

		assert.ErrorIs(t, o.Run(context.Background()), util.ErrExit)
		assert.Contains(t, out.String(), "Agent ABCD is missing the following fields: goal")
		assert.Contains(t, out.String(), "Agent ABCD Task 1 is missing the following fields: expected_output")
	})
}
