package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	t.Run("Should validate the defaults", func(t *testing.T) {
		o := NewOptions()
		assert.NoError(t, o.Complete())
		assert.Empty(t, o.Validate())
	})

	t.Run("Should reject an unknown store type", func(t *testing.T) {
		o := NewOptions()
		o.StoreOptions.Type = "redis"
		assert.Len(t, o.Validate(), 1)
	})

	t.Run("Should register every flag section", func(t *testing.T) {
		fss := NewOptions().Flags()
		for _, name := range []string{"generic", "models", "tools", "memory", "store", "auth", "log"} {
			assert.Contains(t, fss.Order, name)
		}
		assert.NotNil(t, fss.FlagSet("store").Lookup("store.type"))
	})

	t.Run("Should keep the auth token out of the printed config", func(t *testing.T) {
		o := NewOptions()
		o.AuthOptions.Token = "secret"
		assert.NotContains(t, o.String(), "secret")
	})
}
