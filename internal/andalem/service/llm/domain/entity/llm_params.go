package entity

// LLMParams carries the sampling parameters applied when a chat model is built.
type LLMParams struct {
	Temperature    *float32            `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	TopP           *float32            `json:"top_p,omitempty"`
	ResponseFormat ModelResponseFormat `json:"response_format"`
}

// ModelResponseFormat defines the format of the model's response.
type ModelResponseFormat int64

const (
	ModelResponseFormatText ModelResponseFormat = iota
	ModelResponseFormatJSON
)

func (f ModelResponseFormat) String() string {
	switch f {
	case ModelResponseFormatJSON:
		return "json"
	default:
		return "text"
	}
}
