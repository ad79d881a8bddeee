package cliflag

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestNamedFlagSets(t *testing.T) {
	t.Run("Should keep the order of first use", func(t *testing.T) {
		var fss NamedFlagSets
		fss.FlagSet("serving").String("bind-address", "", "address")
		fss.FlagSet("models").String("ollama-url", "", "url")
		fss.FlagSet("serving").Int("bind-port", 0, "port")

		assert.Equal(t, []string{"serving", "models"}, fss.Order)
		assert.NotNil(t, fss.FlagSets["serving"].Lookup("bind-port"))
	})

	t.Run("Should print one section per flag set", func(t *testing.T) {
		var fss NamedFlagSets
		fss.FlagSet("serving").String("bind-address", "127.0.0.1", "Address to listen on.")
		fss.FlagSet("empty")

		var buf bytes.Buffer
		PrintSections(&buf, fss, 0)
		assert.Contains(t, buf.String(), "Serving flags:")
		assert.Contains(t, buf.String(), "--bind-address")
		assert.NotContains(t, buf.String(), "Empty flags:")
	})
}

func TestWordSepNormalizeFunc(t *testing.T) {
	fs := pflag.NewFlagSet("t", pflag.ContinueOnError)
	assert.Equal(t, pflag.NormalizedName("bind-port"), WordSepNormalizeFunc(fs, "bind_port"))
	assert.Equal(t, pflag.NormalizedName("bind-port"), WordSepNormalizeFunc(fs, "bind-port"))
}

func TestTerminalSize(t *testing.T) {
	w, h, err := TerminalSize(&bytes.Buffer{})
	assert.Error(t, err)
	assert.Zero(t, w)
	assert.Zero(t, h)
}
