package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/go-resty/resty/v2"
	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/tools/pkg/errno"
	"github.com/kiosk404/andalem/internal/pkg/options"
)

// Config holds the configuration for the tool mapper.
type Config struct {
	ToolOptions *options.ToolOptions
}

// CompletedConfig is the validated and completed configuration.
type CompletedConfig struct {
	*Config
}

// Complete fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.ToolOptions == nil {
		c.ToolOptions = options.NewToolOptions()
	}
	if c.ToolOptions.TranscriptRetries == 0 {
		c.ToolOptions.TranscriptRetries = 1
	}
	return CompletedConfig{c}
}

// New creates a Mapper sharing one HTTP client across tools.
func (c CompletedConfig) New() *Mapper {
	return &Mapper{
		opts:   c.ToolOptions,
		client: newHTTPClient(c.ToolOptions),
	}
}

// Mapper turns tool catalog keys into runnable tools.
type Mapper struct {
	opts   *options.ToolOptions
	client *resty.Client
	input  InputProvider
}

type constructor func(m *Mapper) (Tool, error)

var constructors = map[catalog.ToolKey]constructor{
	catalog.ToolAndalemWebScrapeAndSearch: func(m *Mapper) (Tool, error) {
		return &webScrapeAndSearch{client: m.client, endpoint: m.opts.GoogleSearchURL}, nil
	},
	catalog.ToolDuckDuckGoSearch: func(m *Mapper) (Tool, error) {
		return &duckDuckGoSearch{client: m.client, endpoint: m.opts.DuckDuckGoURL, maxResults: m.opts.MaxResults}, nil
	},
	catalog.ToolGoogleSerperSearch: func(m *Mapper) (Tool, error) {
		key := strings.TrimSpace(os.ExpandEnv(m.opts.SerperAPIKey))
		if key == "" {
			return nil, errno.ErrMissingAPIKey
		}
		return &serperSearch{client: m.client, endpoint: m.opts.SerperURL, apiKey: key, maxResults: m.opts.MaxResults}, nil
	},
	catalog.ToolSeleniumScrape: func(m *Mapper) (Tool, error) {
		return &browserScrape{client: m.client, browserURL: m.opts.BrowserURL}, nil
	},
	catalog.ToolUserInput: func(m *Mapper) (Tool, error) {
		if m.input == nil {
			return nil, errno.ErrNoInputProvider
		}
		return &userInput{provider: m.input}, nil
	},
	catalog.ToolWebPageScrape: func(m *Mapper) (Tool, error) {
		return &webPageScrape{client: m.client}, nil
	},
	catalog.ToolWebsiteSearch: func(m *Mapper) (Tool, error) {
		return &websiteSearch{client: m.client, maxResults: m.opts.MaxResults}, nil
	},
	catalog.ToolYouTubeTranscription: func(m *Mapper) (Tool, error) {
		return &youTubeTranscript{
			client:   m.client,
			baseURL:  m.opts.YouTubeURL,
			attempts: m.opts.TranscriptRetries,
			backoff:  m.opts.TranscriptBackoff,
		}, nil
	},
}

// WithInputProvider returns a copy of m whose User Input tool asks p.
func (m *Mapper) WithInputProvider(p InputProvider) *Mapper {
	out := *m
	out.input = p
	return &out
}

// Tool builds the tool selected by key.
func (m *Mapper) Tool(key catalog.ToolKey) (Tool, error) {
	build, ok := constructors[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errno.ErrUnknownTool, key)
	}
	t, err := build(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool %q: %w", key, err)
	}
	return t, nil
}

// MapTool builds the tool selected by key as an eino tool.
func (m *Mapper) MapTool(key catalog.ToolKey) (tool.InvokableTool, error) {
	entry, ok := catalog.LookupTool(string(key))
	if !ok {
		return nil, fmt.Errorf("%w: %q", errno.ErrUnknownTool, key)
	}
	t, err := m.Tool(key)
	if err != nil {
		return nil, err
	}
	return NewInvokableTool(entry, t), nil
}
