package tools

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func formatHit(title, link, snippet string) string {
	var b strings.Builder
	b.WriteString(title)
	if link != "" {
		fmt.Fprintf(&b, " (%s)", link)
	}
	if snippet != "" {
		b.WriteString(": ")
		b.WriteString(snippet)
	}
	return b.String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// duckDuckGoSearch queries the DuckDuckGo HTML endpoint.
type duckDuckGoSearch struct {
	client     *resty.Client
	endpoint   string
	maxResults int
}

func (t *duckDuckGoSearch) Run(ctx context.Context, in Input) (Result, error) {
	if strings.TrimSpace(in.Query) == "" {
		return TextResult("Invalid input: a search query must be provided."), nil
	}
	body, err := get(ctx, t.client, t.endpoint, map[string]string{"q": in.Query})
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to perform web search: %v", err)), nil
	}
	doc, err := parseHTML(body)
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to perform web search: %v", err)), nil
	}

	var hits []string
	for _, res := range findAll(doc, func(n *html.Node) bool { return hasClass(n, "result") }) {
		links := findAll(res, func(n *html.Node) bool { return hasClass(n, "result__a") })
		if len(links) == 0 {
			continue
		}
		snippet := ""
		if s := findAll(res, func(n *html.Node) bool { return hasClass(n, "result__snippet") }); len(s) > 0 {
			snippet = squash(visibleText(s[0]))
		}
		hits = append(hits, formatHit(squash(visibleText(links[0])), duckDuckGoTarget(attr(links[0], "href")), snippet))
		if len(hits) == t.maxResults {
			break
		}
	}
	return ItemsResult(hits), nil
}

// duckDuckGoTarget unwraps the redirect links of the HTML endpoint.
func duckDuckGoTarget(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// serperSearch queries Google through the Serper API.
type serperSearch struct {
	client     *resty.Client
	endpoint   string
	apiKey     string
	maxResults int
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (t *serperSearch) Run(ctx context.Context, in Input) (Result, error) {
	if strings.TrimSpace(in.Query) == "" {
		return TextResult("Invalid input: a search query must be provided."), nil
	}

	var out serperResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", t.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(serperRequest{Q: in.Query, Num: t.maxResults}).
		SetResult(&out).
		Post(t.endpoint)
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to perform web search: %v", err)), nil
	}
	if resp.IsError() {
		return TextResult(fmt.Sprintf("Failed to perform web search: %s", resp.Status())), nil
	}

	hits := make([]string, 0, len(out.Organic)+1)
	if out.AnswerBox != nil {
		if a := strings.TrimSpace(out.AnswerBox.Answer + " " + out.AnswerBox.Snippet); a != "" {
			hits = append(hits, "Answer: "+a)
		}
	}
	for _, o := range out.Organic {
		if len(hits) == t.maxResults {
			break
		}
		hits = append(hits, formatHit(o.Title, o.Link, o.Snippet))
	}
	return ItemsResult(hits), nil
}

// webScrapeAndSearch scrapes URL when given, otherwise searches the web for Query.
type webScrapeAndSearch struct {
	client   *resty.Client
	endpoint string
}

func (t *webScrapeAndSearch) Run(ctx context.Context, in Input) (Result, error) {
	switch {
	case strings.TrimSpace(in.URL) != "":
		text, err := scrapePage(ctx, t.client, in.URL)
		if err != nil {
			return TextResult(fmt.Sprintf("Failed to scrape the website: %v", err)), nil
		}
		return TextResult(text), nil
	case strings.TrimSpace(in.Query) != "":
		hits, err := t.search(ctx, in.Query)
		if err != nil {
			return TextResult(fmt.Sprintf("Failed to perform web search: %v", err)), nil
		}
		return ItemsResult(hits), nil
	default:
		return TextResult("Invalid input: Either a URL or a search query must be provided."), nil
	}
}

func (t *webScrapeAndSearch) search(ctx context.Context, query string) ([]string, error) {
	body, err := get(ctx, t.client, t.endpoint, map[string]string{"q": query})
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(body)
	if err != nil {
		return nil, err
	}
	var hits []string
	for _, n := range findAll(doc, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3:
			return true
		}
		return hasClass(n, "article")
	}) {
		if s := squash(visibleText(n)); s != "" {
			hits = append(hits, s)
		}
	}
	return hits, nil
}

// websiteSearch returns the passages of one page most relevant to Query.
type websiteSearch struct {
	client     *resty.Client
	maxResults int
}

func (t *websiteSearch) Run(ctx context.Context, in Input) (Result, error) {
	if strings.TrimSpace(in.URL) == "" || strings.TrimSpace(in.Query) == "" {
		return TextResult("Invalid input: both a URL and a search query must be provided."), nil
	}
	body, err := get(ctx, t.client, in.URL, nil)
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to search the website: %v", err)), nil
	}
	doc, err := parseHTML(body)
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to search the website: %v", err)), nil
	}
	return ItemsResult(rankPassages(textBlocks(doc), in.Query, t.maxResults)), nil
}

// rankPassages orders blocks by how many distinct query terms they contain and
// keeps at most limit blocks with at least one match.
func rankPassages(blocks []string, query string, limit int) []string {
	terms := strings.Fields(strings.ToLower(query))
	type scored struct {
		text  string
		score int
	}
	var hits []scored
	for _, b := range blocks {
		lower := strings.ToLower(b)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{b, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]string, 0, limit)
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.text)
	}
	return out
}
