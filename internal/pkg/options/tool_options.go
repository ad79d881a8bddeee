package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// ToolOptions configures the web tools agents can use.
type ToolOptions struct {
	// HTTPTimeout bounds every outbound request made by a tool.
	HTTPTimeout time.Duration `json:"http-timeout" mapstructure:"http-timeout"`
	// HTTPRetries is the number of transport level retries per request.
	HTTPRetries int    `json:"http-retries" mapstructure:"http-retries"`
	UserAgent   string `json:"user-agent" mapstructure:"user-agent"`

	SerperAPIKey    string `json:"serper-api-key" mapstructure:"serper-api-key"`
	SerperURL       string `json:"serper-url" mapstructure:"serper-url"`
	DuckDuckGoURL   string `json:"duckduckgo-url" mapstructure:"duckduckgo-url"`
	GoogleSearchURL string `json:"google-search-url" mapstructure:"google-search-url"`
	YouTubeURL      string `json:"youtube-url" mapstructure:"youtube-url"`

	// BrowserURL is a page rendering endpoint (browserless style POST {"url"}) used by
	// the browser scrape tool. Empty fetches pages directly.
	BrowserURL string `json:"browser-url" mapstructure:"browser-url"`

	TranscriptRetries uint64        `json:"transcript-retries" mapstructure:"transcript-retries"`
	TranscriptBackoff time.Duration `json:"transcript-backoff" mapstructure:"transcript-backoff"`

	// MaxResults caps the number of search hits and passages returned.
	MaxResults int `json:"max-results" mapstructure:"max-results"`
}

func NewToolOptions() *ToolOptions {
	return &ToolOptions{
		HTTPTimeout:       30 * time.Second,
		HTTPRetries:       2,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3",
		SerperAPIKey:      "${SERPER_API_KEY}",
		SerperURL:         "https://google.serper.dev/search",
		DuckDuckGoURL:     "https://html.duckduckgo.com/html/",
		GoogleSearchURL:   "https://www.google.com/search",
		YouTubeURL:        "https://www.youtube.com",
		TranscriptRetries: 10,
		TranscriptBackoff: time.Second,
		MaxResults:        5,
	}
}

func (o *ToolOptions) Validate() []error {
	var errs []error
	for name, u := range map[string]string{
		"serper-url":        o.SerperURL,
		"duckduckgo-url":    o.DuckDuckGoURL,
		"google-search-url": o.GoogleSearchURL,
		"youtube-url":       o.YouTubeURL,
		"browser-url":       o.BrowserURL,
	} {
		if u == "" {
			continue
		}
		if _, err := url.ParseRequestURI(u); err != nil {
			errs = append(errs, fmt.Errorf("tools.%s: invalid url %q", name, u))
		}
	}
	if o.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("tools.http-timeout must be positive"))
	}
	if o.TranscriptRetries == 0 {
		errs = append(errs, fmt.Errorf("tools.transcript-retries must be at least 1"))
	}
	if o.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("tools.max-results must be positive"))
	}
	return errs
}

func (o *ToolOptions) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.HTTPTimeout, "tools.http-timeout", o.HTTPTimeout, "Timeout of outbound tool requests.")
	fs.IntVar(&o.HTTPRetries, "tools.http-retries", o.HTTPRetries, "Transport retries of outbound tool requests.")
	fs.StringVar(&o.SerperAPIKey, "tools.serper-api-key", o.SerperAPIKey, "Serper API key, ${ENV} references are expanded.")
	fs.StringVar(&o.BrowserURL, "tools.browser-url", o.BrowserURL, "Rendering endpoint used by the Selenium Scrape Tool.")
	fs.Uint64Var(&o.TranscriptRetries, "tools.transcript-retries", o.TranscriptRetries, "Attempts made to fetch a YouTube transcript.")
	fs.IntVar(&o.MaxResults, "tools.max-results", o.MaxResults, "Maximum search results returned by a tool.")
}
