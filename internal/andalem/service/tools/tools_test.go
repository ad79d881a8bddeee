package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kiosk404/andalem/internal/andalem/service/catalog"
	"github.com/kiosk404/andalem/internal/andalem/service/tools/pkg/errno"
	"github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/kiosk404/andalem/pkg/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *options.ToolOptions {
	opts := options.NewToolOptions()
	opts.HTTPRetries = 0
	opts.HTTPTimeout = 5 * time.Second
	opts.TranscriptBackoff = time.Millisecond
	opts.SerperAPIKey = "test-key"
	return opts
}

func newTestMapper(opts *options.ToolOptions) *Mapper {
	return (&Config{ToolOptions: opts}).Complete().New()
}

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, m *Mapper, key catalog.ToolKey, in Input) Result {
	t.Helper()
	tl, err := m.Tool(key)
	require.NoError(t, err)
	res, err := tl.Run(context.Background(), in)
	require.NoError(t, err)
	return res
}

func TestMapper(t *testing.T) {
	t.Run("Should build every catalog tool", func(t *testing.T) {
		m := newTestMapper(testOptions()).WithInputProvider(InputProviderFunc(func(context.Context, string) (string, error) {
			return "yes", nil
		}))
		for _, key := range catalog.ToolKeys() {
			tl, err := m.MapTool(catalog.ToolKey(key))
			require.NoError(t, err, key)
			info, err := tl.Info(context.Background())
			require.NoError(t, err)
			entry, _ := catalog.LookupTool(key)
			assert.Equal(t, entry.Name, info.Name)
		}
	})

	t.Run("Should reject keys outside the catalog", func(t *testing.T) {
		_, err := newTestMapper(testOptions()).MapTool("Teleport Tool")
		assert.ErrorIs(t, err, errno.ErrUnknownTool)
	})

	t.Run("Should fail to build the Serper tool without an API key", func(t *testing.T) {
		opts := testOptions()
		opts.SerperAPIKey = ""
		_, err := newTestMapper(opts).MapTool(catalog.ToolGoogleSerperSearch)
		assert.ErrorIs(t, err, errno.ErrMissingAPIKey)
	})

	t.Run("Should expand environment references in the Serper key", func(t *testing.T) {
		t.Setenv("ANDALEM_TEST_SERPER", "from-env")
		opts := testOptions()
		opts.SerperAPIKey = "${ANDALEM_TEST_SERPER}"
		tl, err := newTestMapper(opts).Tool(catalog.ToolGoogleSerperSearch)
		require.NoError(t, err)
		assert.Equal(t, "from-env", tl.(*serperSearch).apiKey)
	})

	t.Run("Should fail to build the user input tool without a provider", func(t *testing.T) {
		_, err := newTestMapper(testOptions()).MapTool(catalog.ToolUserInput)
		assert.ErrorIs(t, err, errno.ErrNoInputProvider)
	})
}

func TestInvokableTool(t *testing.T) {
	t.Run("Should decode arguments and join list results", func(t *testing.T) {
		var got Input
		tl := NewInvokableTool(catalog.ToolEntry{Key: "k", Name: "fake"}, Func(func(_ context.Context, in Input) (Result, error) {
			got = in
			return ItemsResult([]string{"a", "b"}), nil
		}))

		out, err := tl.InvokableRun(context.Background(), `{"url":"http://x","query":"q"}`)
		require.NoError(t, err)
		assert.Equal(t, "a\nb", out)
		assert.Equal(t, Input{URL: "http://x", Query: "q"}, got)
	})

	t.Run("Should accept empty arguments", func(t *testing.T) {
		tl := NewInvokableTool(catalog.ToolEntry{Name: "fake"}, Func(func(_ context.Context, in Input) (Result, error) {
			return TextResult("empty:" + in.URL + in.Query), nil
		}))
		out, err := tl.InvokableRun(context.Background(), "{}")
		require.NoError(t, err)
		assert.Equal(t, "empty:", out)
	})

	t.Run("Should reject malformed arguments", func(t *testing.T) {
		tl := NewInvokableTool(catalog.ToolEntry{Name: "fake"}, Func(func(context.Context, Input) (Result, error) {
			return Result{}, nil
		}))
		_, err := tl.InvokableRun(context.Background(), "{not json")
		assert.Error(t, err)
	})
}

const samplePage = `<html><head><title>Gophers</title><style>p{color:red}</style></head>
<body><script>var x = 1;</script>
<h1>All about gophers</h1>
<p>Gophers are   burrowing rodents.</p>
<p class="note">The Go gopher is a mascot.</p>
<div id="main"><p>Concurrency is not parallelism.</p></div>
</body></html>`

func TestScrapeTools(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, samplePage)
	})
	m := newTestMapper(testOptions())

	t.Run("Should return the visible text of a page", func(t *testing.T) {
		res := run(t, m, catalog.ToolWebPageScrape, Input{URL: srv.URL})
		assert.Contains(t, res.Text, "All about gophers")
		assert.Contains(t, res.Text, "Gophers are burrowing rodents.")
		assert.NotContains(t, res.Text, "var x")
		assert.NotContains(t, res.Text, "color:red")
	})

	t.Run("Should describe scrape failures instead of failing", func(t *testing.T) {
		res := run(t, m, catalog.ToolWebPageScrape, Input{URL: srv.URL + "/missing"})
		assert.True(t, strings.HasPrefix(res.Text, "Failed to scrape the website:"), res.Text)
	})

	t.Run("Should ask for a URL when none is given", func(t *testing.T) {
		res := run(t, m, catalog.ToolWebPageScrape, Input{Query: "gophers"})
		assert.Equal(t, "Invalid input: a URL must be provided.", res.Text)
	})

	t.Run("Should narrow browser scrapes with a selector", func(t *testing.T) {
		res := run(t, m, catalog.ToolSeleniumScrape, Input{URL: srv.URL, Query: "p.note"})
		assert.Equal(t, "The Go gopher is a mascot.", res.Text)

		res = run(t, m, catalog.ToolSeleniumScrape, Input{URL: srv.URL, Query: "#main"})
		assert.Equal(t, "Concurrency is not parallelism.", res.Text)

		res = run(t, m, catalog.ToolSeleniumScrape, Input{URL: srv.URL, Query: "table"})
		assert.Contains(t, res.Text, "No elements matched")
	})

	t.Run("Should render pages through the browser endpoint", func(t *testing.T) {
		var rendered string
		browser := serve(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			rendered = body["url"]
			_, _ = io.WriteString(w, "<p>rendered by browser</p>")
		})
		opts := testOptions()
		opts.BrowserURL = browser.URL
		res := run(t, newTestMapper(opts), catalog.ToolSeleniumScrape, Input{URL: "http://page.test/a"})
		assert.Equal(t, "rendered by browser", res.Text)
		assert.Equal(t, "http://page.test/a", rendered)
	})
}

func TestSearchTools(t *testing.T) {
	t.Run("Should parse DuckDuckGo results", func(t *testing.T) {
		var query string
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query().Get("q")
			_, _ = io.WriteString(w, `<div class="results">
<div class="result"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F">The Go   Programming Language</a>
<a class="result__snippet">Build simple, secure systems.</a></div>
<div class="result"><a class="result__a" href="https://pkg.go.dev">Go Packages</a></div>
</div>`)
		})
		opts := testOptions()
		opts.DuckDuckGoURL = srv.URL

		res := run(t, newTestMapper(opts), catalog.ToolDuckDuckGoSearch, Input{Query: "golang"})
		assert.Equal(t, "golang", query)
		assert.Equal(t, []string{
			"The Go Programming Language (https://go.dev/): Build simple, secure systems.",
			"Go Packages (https://pkg.go.dev)",
		}, res.Items)
	})

	t.Run("Should query Serper with the API key", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
			raw, _ := io.ReadAll(r.Body)
			var req serperRequest
			require.NoError(t, json.Unmarshal(raw, &req))
			assert.Equal(t, "gophers", req.Q)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"organic":[{"title":"Gopher","link":"https://a.test","snippet":"A rodent"}]}`)
		})
		opts := testOptions()
		opts.SerperURL = srv.URL

		res := run(t, newTestMapper(opts), catalog.ToolGoogleSerperSearch, Input{Query: "gophers"})
		assert.Equal(t, []string{"Gopher (https://a.test): A rodent"}, res.Items)
	})

	t.Run("Should describe Serper errors instead of failing", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
		opts := testOptions()
		opts.SerperURL = srv.URL

		res := run(t, newTestMapper(opts), catalog.ToolGoogleSerperSearch, Input{Query: "gophers"})
		assert.True(t, strings.HasPrefix(res.Text, "Failed to perform web search:"), res.Text)
	})

	t.Run("Should scrape or search with the composite tool", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("q") != "" {
				_, _ = io.WriteString(w, `<h3>First hit</h3><div class="article">Second hit</div><p>ignored</p>`)
				return
			}
			_, _ = io.WriteString(w, samplePage)
		})
		opts := testOptions()
		opts.GoogleSearchURL = srv.URL
		m := newTestMapper(opts)

		res := run(t, m, catalog.ToolAndalemWebScrapeAndSearch, Input{Query: "gophers"})
		assert.Equal(t, []string{"First hit", "Second hit"}, res.Items)

		res = run(t, m, catalog.ToolAndalemWebScrapeAndSearch, Input{URL: srv.URL})
		assert.Contains(t, res.Text, "All about gophers")

		res = run(t, m, catalog.ToolAndalemWebScrapeAndSearch, Input{})
		assert.Equal(t, "Invalid input: Either a URL or a search query must be provided.", res.Text)
	})

	t.Run("Should rank website passages by query terms", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, samplePage)
		})
		res := run(t, newTestMapper(testOptions()), catalog.ToolWebsiteSearch, Input{URL: srv.URL, Query: "Go gopher mascot"})
		require.NotEmpty(t, res.Items)
		assert.Equal(t, "The Go gopher is a mascot.", res.Items[0])
	})

	t.Run("Should cap ranked passages", func(t *testing.T) {
		got := rankPassages([]string{"a b", "a", "c", "b a"}, "a b", 2)
		assert.Equal(t, []string{"a b", "b a"}, got)
	})
}

func TestUserInputTool(t *testing.T) {
	t.Run("Should forward the question to the provider", func(t *testing.T) {
		var asked string
		m := newTestMapper(testOptions()).WithInputProvider(InputProviderFunc(func(_ context.Context, q string) (string, error) {
			asked = q
			return "42", nil
		}))
		res := run(t, m, catalog.ToolUserInput, Input{Query: "What is the budget?"})
		assert.Equal(t, "42", res.Text)
		assert.Equal(t, "What is the budget?", asked)
	})
}

func TestYouTubeTranscription(t *testing.T) {
	t.Run("Should extract video ids", func(t *testing.T) {
		cases := map[string]string{
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ": "dQw4w9WgXcQ",
			"https://youtu.be/abc-123_X":                 "abc-123_X",
			"https://www.youtube.com/embed/xyz987":        "xyz987",
		}
		for url, want := range cases {
			id, ok := VideoID(url)
			require.True(t, ok, url)
			assert.Equal(t, want, id)
		}
		_, ok := VideoID("https://example.com/video")
		assert.False(t, ok)
	})

	transcriptServer := func(t *testing.T, failures int32, captions bool) (*httptest.Server, *int32) {
		var calls int32
		var srv *httptest.Server
		srv = serve(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/watch":
				if atomic.AddInt32(&calls, 1) <= failures {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				if !captions {
					_, _ = io.WriteString(w, `<script>var ytInitialPlayerResponse = {"playabilityStatus":{}};</script>`)
					return
				}
				_, _ = io.WriteString(w, `{"captionTracks":[{"baseUrl":"`+srv.URL+`/timedtext?v=abc&lang=en","name":"English"}]}`)
			case "/timedtext":
				assert.Equal(t, "en", r.URL.Query().Get("lang"))
				_, _ = io.WriteString(w, `<?xml version="1.0" encoding="utf-8" ?><transcript>`+
					`<text start="0" dur="1.5">Hello there</text>`+
					`<text start="1.5" dur="2">it&amp;#39;s a test</text></transcript>`)
			}
		})
		return srv, &calls
	}

	t.Run("Should join the transcript lines", func(t *testing.T) {
		srv, _ := transcriptServer(t, 0, true)
		opts := testOptions()
		opts.YouTubeURL = srv.URL

		res := run(t, newTestMapper(opts), catalog.ToolYouTubeTranscription, Input{URL: "https://youtu.be/abc"})
		assert.Equal(t, "Hello there it's a test", res.Text)
	})

	t.Run("Should retry transient failures", func(t *testing.T) {
		srv, calls := transcriptServer(t, 3, true)
		opts := testOptions()
		opts.YouTubeURL = srv.URL

		res := run(t, newTestMapper(opts), catalog.ToolYouTubeTranscription, Input{URL: "https://youtu.be/abc"})
		assert.Equal(t, "Hello there it's a test", res.Text)
		assert.Equal(t, int32(4), atomic.LoadInt32(calls))
	})

	t.Run("Should fail once the retry budget is exhausted", func(t *testing.T) {
		srv, calls := transcriptServer(t, 100, true)
		opts := testOptions()
		opts.YouTubeURL = srv.URL
		opts.TranscriptRetries = 3

		tl, err := newTestMapper(opts).Tool(catalog.ToolYouTubeTranscription)
		require.NoError(t, err)
		_, err = tl.Run(context.Background(), Input{URL: "https://youtu.be/abc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	})

	t.Run("Should report videos without captions without retrying", func(t *testing.T) {
		srv, calls := transcriptServer(t, 0, false)
		opts := testOptions()
		opts.YouTubeURL = srv.URL

		res := run(t, newTestMapper(opts), catalog.ToolYouTubeTranscription, Input{URL: "https://youtu.be/abc"})
		assert.True(t, strings.HasPrefix(res.Text, "No transcripts available:"), res.Text)
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	})

	t.Run("Should reject URLs without a video id", func(t *testing.T) {
		res := run(t, newTestMapper(testOptions()), catalog.ToolYouTubeTranscription, Input{URL: "https://example.com"})
		assert.Equal(t, "Invalid YouTube URL", res.Text)
	})
}
