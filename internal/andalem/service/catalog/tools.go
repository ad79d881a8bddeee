package catalog

// ToolKey is the user-facing name of a selectable tool.
type ToolKey string

const (
	ToolAndalemWebScrapeAndSearch ToolKey = "Andalem Web Scrape and Search Tool"
	ToolDuckDuckGoSearch          ToolKey = "DuckDuckGo Search Tool"
	ToolGoogleSerperSearch        ToolKey = "Google Serper Search Tool"
	ToolSeleniumScrape            ToolKey = "Selenium Scrape Tool"
	ToolUserInput                 ToolKey = "User Input Tool"
	ToolWebPageScrape             ToolKey = "Web Page Scrape Tool"
	ToolWebsiteSearch             ToolKey = "Website Search Tool"
	ToolYouTubeTranscription      ToolKey = "YouTube Transcription Tool"
)

// ToolEntry describes a selectable tool. Name is the identifier exposed to the model.
type ToolEntry struct {
	Key         ToolKey `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

var tools = []ToolEntry{
	{
		Key:  ToolAndalemWebScrapeAndSearch,
		Name: "web_scrape_and_search",
		Description: "Scrapes web pages and performs web searches. " +
			"Pass a URL to scrape it or a search query to search the web.",
	},
	{
		Key:         ToolDuckDuckGoSearch,
		Name:        "duckduckgo_search",
		Description: "Searches the web with DuckDuckGo. The query argument holds the search terms.",
	},
	{
		Key:         ToolGoogleSerperSearch,
		Name:        "google_serper_search",
		Description: "Searches Google through the Serper API. The query argument holds the search terms.",
	},
	{
		Key:  ToolSeleniumScrape,
		Name: "selenium_scrape",
		Description: "Loads a URL in a real browser and returns its text. " +
			"The optional query argument is a CSS selector restricting what is returned.",
	},
	{
		Key:         ToolUserInput,
		Name:        "user_input",
		Description: "Asks the user for information that is vital for the task. The query argument holds the question.",
	},
	{
		Key:         ToolWebPageScrape,
		Name:        "web_page_scrape",
		Description: "Reads the text content of the web page at the given URL.",
	},
	{
		Key:         ToolWebsiteSearch,
		Name:        "website_search",
		Description: "Searches the content of the website at the given URL for passages relevant to the query.",
	},
	{
		Key:         ToolYouTubeTranscription,
		Name:        "youtube_transcription",
		Description: "Returns the transcript of the YouTube video at the given URL.",
	},
}

var toolIndex = func() map[ToolKey]ToolEntry {
	idx := make(map[ToolKey]ToolEntry, len(tools))
	for _, t := range tools {
		idx[t.Key] = t
	}
	return idx
}()

// Tools returns the tool catalog in display order.
func Tools() []ToolEntry {
	out := make([]ToolEntry, len(tools))
	copy(out, tools)
	return out
}

// ToolKeys returns the selectable tool names in display order.
func ToolKeys() []string {
	keys := make([]string, 0, len(tools))
	for _, t := range tools {
		keys = append(keys, string(t.Key))
	}
	return keys
}

// LookupTool finds a catalog entry by key.
func LookupTool(key string) (ToolEntry, bool) {
	t, ok := toolIndex[ToolKey(key)]
	return t, ok
}

// IsTool reports whether key is a catalog tool.
func IsTool(key string) bool {
	_, ok := toolIndex[ToolKey(key)]
	return ok
}
