package catalog

import (
	"testing"

	"github.com/kiosk404/andalem/pkg/cli/genericclioptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCommand(t *testing.T) {
	t.Run("Should print every section without a subject", func(t *testing.T) {
		streams, _, out, _ := genericclioptions.NewTestIOStreams()
		o := NewCatalogOptions(streams)
		o.Width = 120

		require.NoError(t, o.Complete(nil))
		require.NoError(t, o.Run())
		for _, header := range []string{"MODEL", "TOOL", "PROCESS", "RECORD"} {
			assert.Contains(t, out.String(), header)
		}
		assert.Contains(t, out.String(), "(default)")
		assert.Contains(t, out.String(), "Hierarchical")
	})

	t.Run("Should print only the requested subject", func(t *testing.T) {
		streams, _, out, _ := genericclioptions.NewTestIOStreams()
		o := NewCatalogOptions(streams)
		o.Width = 120

		require.NoError(t, o.Complete([]string{"processes"}))
		require.NoError(t, o.Run())
		assert.Contains(t, out.String(), "Sequential")
		assert.NotContains(t, out.String(), "MODEL")
	})

	t.Run("Should reject an unknown subject", func(t *testing.T) {
		streams, _, _, _ := genericclioptions.NewTestIOStreams()
		cmd := NewCmdCatalog(nil, streams)
		o := NewCatalogOptions(streams)

		require.NoError(t, o.Complete([]string{"agents"}))
		assert.Error(t, o.Validate(cmd))
	})
}
