package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProcess(t *testing.T) {
	t.Run("Should map Hierarchical to the hierarchical topology", func(t *testing.T) {
		assert.Equal(t, ProcessHierarchical, MapProcess("Hierarchical"))
	})
	t.Run("Should fall back to sequential for anything else", func(t *testing.T) {
		for _, in := range []string{"Sequential", "", "hierarchical", "Parallel"} {
			assert.Equal(t, ProcessSequential, MapProcess(in), in)
		}
	})
	t.Run("Should round-trip the display form", func(t *testing.T) {
		var p Process
		require.NoError(t, p.UnmarshalText([]byte(ProcessHierarchical.String())))
		assert.Equal(t, ProcessHierarchical, p)
	})
}

func TestMapBooleanChoice(t *testing.T) {
	t.Run("Should only accept the exact True value", func(t *testing.T) {
		assert.True(t, MapBooleanChoice("True"))
		assert.False(t, MapBooleanChoice("False"))
		assert.False(t, MapBooleanChoice("true"))
		assert.False(t, MapBooleanChoice(""))
	})
	t.Run("Should render display values", func(t *testing.T) {
		assert.Equal(t, "True", BooleanChoice(true))
		assert.Equal(t, "False", BooleanChoice(false))
	})
}

func TestMapRateLimit(t *testing.T) {
	t.Run("Should treat zero as unlimited", func(t *testing.T) {
		assert.Nil(t, MapRateLimit(0))
	})
	t.Run("Should pass other values through", func(t *testing.T) {
		got := MapRateLimit(5)
		require.NotNil(t, got)
		assert.Equal(t, 5, *got)
	})
}

func TestModels(t *testing.T) {
	t.Run("Should carry every Ollama, NVIDIA and OpenAI model key", func(t *testing.T) {
		entry, ok := LookupModel("Llama 3 8B")
		require.True(t, ok)
		assert.Equal(t, ProviderOllama, entry.Provider)
		assert.Equal(t, "llama3", entry.ModelID)

		entry, ok = LookupModel("NVIDIA Mistral Large")
		require.True(t, ok)
		assert.Equal(t, ProviderNVIDIA, entry.Provider)

		entry, ok = LookupModel("OpenAI GPT 4O")
		require.True(t, ok)
		assert.Equal(t, "gpt-4o", entry.ModelID)
	})
	t.Run("Should have unique keys", func(t *testing.T) {
		seen := map[ModelKey]bool{}
		for _, m := range Models() {
			assert.False(t, seen[m.Key], m.Key)
			seen[m.Key] = true
		}
		assert.Len(t, ModelKeys(), len(seen))
	})
	t.Run("Should reject unknown keys", func(t *testing.T) {
		assert.False(t, IsModel("GPT 9"))
	})
}

func TestTools(t *testing.T) {
	t.Run("Should expose the eight tools", func(t *testing.T) {
		assert.Len(t, Tools(), 8)
		assert.True(t, IsTool("YouTube Transcription Tool"))
		assert.False(t, IsTool("Calculator"))
	})
}

func TestFieldLabel(t *testing.T) {
	tests := map[string]string{
		"manager_llm":             "Manager LLM",
		"expected_output":         "Expected Output",
		"llm_temperature":         "LLM Temperature",
		"name":                    "Name",
		"max_requests_per_minute": "Max Requests Per Minute",
	}
	for in, want := range tests {
		t.Run("Should label "+in, func(t *testing.T) {
			assert.Equal(t, want, FieldLabel(in))
		})
	}
}
