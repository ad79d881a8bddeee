package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kiosk404/andalem/internal/pkg/options"
	"github.com/kiosk404/andalem/pkg/utils/json"
)

func newHTTPClient(opts *options.ToolOptions) *resty.Client {
	client := resty.New().
		SetTimeout(opts.HTTPTimeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetRetryCount(opts.HTTPRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	return client
}

// get fetches url and fails on any non 2xx status.
func get(ctx context.Context, client *resty.Client, url string, query map[string]string) ([]byte, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status())
	}
	return resp.Body(), nil
}
