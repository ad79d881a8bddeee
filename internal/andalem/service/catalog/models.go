package catalog

// Provider identifiers. They match the names the LLM provider plugins register under.
const (
	ProviderOllama    = "ollama"
	ProviderNVIDIA    = "nvidia"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderDeepSeek  = "deepseek"
	ProviderGemini    = "gemini"
	ProviderQwen      = "qwen"
	ProviderGLM       = "glm"
	ProviderKimi      = "kimi"
)

// ModelKey is the user-facing name of a selectable language model.
type ModelKey string

const (
	ModelDBRX132B                   ModelKey = "DBRX 132B"
	ModelGemma7B                    ModelKey = "Gemma 7B"
	ModelLlama38B                   ModelKey = "Llama 3 8B"
	ModelLlama38BDolphin            ModelKey = "Llama 3 8B Dolphin"
	ModelMistral7B                  ModelKey = "Mistral 7B"
	ModelMistral7BDolphin           ModelKey = "Mistral 7B Dolphin"
	ModelMixtral8x7B                ModelKey = "Mixtral 8 X 7B"
	ModelMixtral8x7BDolphin         ModelKey = "Mixtral 8 X 7B Dolphin"
	ModelNVIDIALlama370BInstruct    ModelKey = "NVIDIA Llama 3 70B Instruct"
	ModelNVIDIAMistralLarge         ModelKey = "NVIDIA Mistral Large"
	ModelNVIDIAMixtral8x22BInstruct ModelKey = "NVIDIA Mixtral 8 X 22B Instruct"
	ModelNVIDIANemotron4340B        ModelKey = "NVIDIA Nemotron 4 340B Instruct"
	ModelOpenAIGPT35Turbo           ModelKey = "OpenAI GPT 3.5 Turbo"
	ModelOpenAIGPT35Turbo0125       ModelKey = "OpenAI GPT 3.5 Turbo 0125"
	ModelOpenAIGPT4                 ModelKey = "OpenAI GPT 4"
	ModelOpenAIGPT4O                ModelKey = "OpenAI GPT 4O"
	ModelOpenhermes                 ModelKey = "Openhermes"
	ModelPhi3Mini                   ModelKey = "Phi 3 Mini 3.8B"
	ModelWizardLM27B                ModelKey = "WizardLM 2 7B"
	ModelZephyr7B                   ModelKey = "Zephyr 7B"

	ModelClaudeSonnet45 ModelKey = "Claude Sonnet 4.5"
	ModelClaudeHaiku45  ModelKey = "Claude Haiku 4.5"
	ModelDeepSeekChat   ModelKey = "DeepSeek Chat"
	ModelGemini20Flash  ModelKey = "Gemini 2.0 Flash"
	ModelQwenMax        ModelKey = "Qwen Max"
	ModelGLM46          ModelKey = "GLM 4.6"
	ModelKimiK2         ModelKey = "Kimi K2"
)

// DefaultAgentModel is preselected for new agents.
const DefaultAgentModel = ModelLlama38B

// ModelEntry pairs a catalog key with the provider and model identifier used to build it.
type ModelEntry struct {
	Key      ModelKey `json:"key"`
	Provider string   `json:"provider"`
	ModelID  string   `json:"model_id"`
}

var models = []ModelEntry{
	{ModelDBRX132B, ProviderOllama, "dbrx"},
	{ModelGemma7B, ProviderOllama, "gemma"},
	{ModelLlama38B, ProviderOllama, "llama3"},
	{ModelLlama38BDolphin, ProviderOllama, "dolphin-llama3"},
	{ModelMistral7B, ProviderOllama, "mistral"},
	{ModelMistral7BDolphin, ProviderOllama, "dolphin-mistral"},
	{ModelMixtral8x7B, ProviderOllama, "mixtral"},
	{ModelMixtral8x7BDolphin, ProviderOllama, "dolphin-mixtral"},
	{ModelNVIDIALlama370BInstruct, ProviderNVIDIA, "meta/llama3-70b-instruct"},
	{ModelNVIDIAMistralLarge, ProviderNVIDIA, "mistralai/mistral-large"},
	{ModelNVIDIAMixtral8x22BInstruct, ProviderNVIDIA, "mistralai/mixtral-8x22b-instruct-v0.1"},
	{ModelNVIDIANemotron4340B, ProviderNVIDIA, "nvidia/nemotron-4-340b-instruct"},
	{ModelOpenAIGPT35Turbo, ProviderOpenAI, "gpt-3.5-turbo"},
	{ModelOpenAIGPT35Turbo0125, ProviderOpenAI, "gpt-3.5-turbo-0125"},
	{ModelOpenAIGPT4, ProviderOpenAI, "gpt-4"},
	{ModelOpenAIGPT4O, ProviderOpenAI, "gpt-4o"},
	{ModelOpenhermes, ProviderOllama, "openhermes"},
	{ModelPhi3Mini, ProviderOllama, "phi3"},
	{ModelWizardLM27B, ProviderOllama, "wizardlm2"},
	{ModelZephyr7B, ProviderOllama, "zephyr"},

	{ModelClaudeSonnet45, ProviderAnthropic, "claude-sonnet-4-5"},
	{ModelClaudeHaiku45, ProviderAnthropic, "claude-haiku-4-5"},
	{ModelDeepSeekChat, ProviderDeepSeek, "deepseek-chat"},
	{ModelGemini20Flash, ProviderGemini, "gemini-2.0-flash"},
	{ModelQwenMax, ProviderQwen, "qwen-max"},
	{ModelGLM46, ProviderGLM, "glm-4.6"},
	{ModelKimiK2, ProviderKimi, "kimi-k2-0711-preview"},
}

var modelIndex = func() map[ModelKey]ModelEntry {
	idx := make(map[ModelKey]ModelEntry, len(models))
	for _, m := range models {
		idx[m.Key] = m
	}
	return idx
}()

// Models returns the model catalog in display order.
func Models() []ModelEntry {
	out := make([]ModelEntry, len(models))
	copy(out, models)
	return out
}

// ModelKeys returns the selectable model names in display order.
func ModelKeys() []string {
	keys := make([]string, 0, len(models))
	for _, m := range models {
		keys = append(keys, string(m.Key))
	}
	return keys
}

// LookupModel finds a catalog entry by key.
func LookupModel(key string) (ModelEntry, bool) {
	m, ok := modelIndex[ModelKey(key)]
	return m, ok
}

// IsModel reports whether key is a catalog model.
func IsModel(key string) bool {
	_, ok := modelIndex[ModelKey(key)]
	return ok
}
