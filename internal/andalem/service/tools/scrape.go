package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// webPageScrape returns the visible text of the page at URL.
type webPageScrape struct {
	client *resty.Client
}

func (t *webPageScrape) Run(ctx context.Context, in Input) (Result, error) {
	if strings.TrimSpace(in.URL) == "" {
		return TextResult("Invalid input: a URL must be provided."), nil
	}
	text, err := scrapePage(ctx, t.client, in.URL)
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to scrape the website: %v", err)), nil
	}
	return TextResult(text), nil
}

func scrapePage(ctx context.Context, client *resty.Client, url string) (string, error) {
	body, err := get(ctx, client, url, nil)
	if err != nil {
		return "", err
	}
	doc, err := parseHTML(body)
	if err != nil {
		return "", err
	}
	return visibleText(doc), nil
}

// browserScrape loads a page through a rendering endpoint so scripts run before
// the text is read. Query optionally narrows the result with a simple selector.
type browserScrape struct {
	client     *resty.Client
	browserURL string
}

func (t *browserScrape) Run(ctx context.Context, in Input) (Result, error) {
	if strings.TrimSpace(in.URL) == "" {
		return TextResult("Invalid input: a URL must be provided."), nil
	}
	body, err := t.render(ctx, in.URL)
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to scrape the website: %v", err)), nil
	}
	doc, err := parseHTML(body)
	if err != nil {
		return TextResult(fmt.Sprintf("Failed to scrape the website: %v", err)), nil
	}
	if strings.TrimSpace(in.Query) == "" {
		return TextResult(visibleText(doc)), nil
	}

	nodes := findAll(doc, selector(in.Query))
	if len(nodes) == 0 {
		return TextResult(fmt.Sprintf("No elements matched %q on %s", in.Query, in.URL)), nil
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := visibleText(n); s != "" {
			parts = append(parts, s)
		}
	}
	return TextResult(strings.Join(parts, "\n\n")), nil
}

func (t *browserScrape) render(ctx context.Context, url string) ([]byte, error) {
	if t.browserURL == "" {
		return get(ctx, t.client, url, nil)
	}
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"url": url}).
		Post(t.browserURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("render %s: %s", url, resp.Status())
	}
	return resp.Body(), nil
}
