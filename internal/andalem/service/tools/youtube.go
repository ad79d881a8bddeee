package tools

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kiosk404/andalem/internal/andalem/service/tools/pkg/errno"
	"github.com/kiosk404/andalem/pkg/logger"
	"github.com/sethvargo/go-retry"
)

var (
	videoIDPattern      = regexp.MustCompile(`(?:v=|be/|/watch\?v=|\?feature=youtu.be/|/embed/)([\w-]+)`)
	captionTrackPattern = regexp.MustCompile(`"captionTracks":\[\{"baseUrl":"((?:[^"\\]|\\.)*)"`)
)

// youTubeTranscript fetches the caption track of a video. Transient failures are
// retried with exponential backoff; running out of attempts is an error.
type youTubeTranscript struct {
	client   *resty.Client
	baseURL  string
	attempts uint64
	backoff  time.Duration
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// VideoID extracts the video identifier from a YouTube URL.
func VideoID(url string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (t *youTubeTranscript) Run(ctx context.Context, in Input) (Result, error) {
	id, ok := VideoID(in.URL)
	if !ok {
		return TextResult("Invalid YouTube URL"), nil
	}

	var transcript string
	attempt := 0
	backoff := retry.WithMaxRetries(t.attempts-1, retry.NewExponential(t.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		text, err := t.fetch(ctx, id)
		if errors.Is(err, errno.ErrTranscriptUnavailable) {
			return err
		}
		if err != nil {
			logger.Warn("[Tools] transcript of %s, attempt %d/%d failed: %v", id, attempt, t.attempts, err)
			return retry.RetryableError(err)
		}
		transcript = text
		return nil
	})
	switch {
	case errors.Is(err, errno.ErrTranscriptUnavailable):
		return TextResult(fmt.Sprintf("No transcripts available: %v", err)), nil
	case err != nil:
		return Result{}, fmt.Errorf("fetching the transcript of %s failed after %d attempts: %w", id, attempt, err)
	}
	return TextResult(transcript), nil
}

func (t *youTubeTranscript) fetch(ctx context.Context, id string) (string, error) {
	page, err := get(ctx, t.client, strings.TrimRight(t.baseURL, "/")+"/watch", map[string]string{"v": id})
	if err != nil {
		return "", err
	}
	m := captionTrackPattern.FindSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("%w: video %s has no captions", errno.ErrTranscriptUnavailable, id)
	}
	trackURL, err := strconv.Unquote(`"` + string(m[1]) + `"`)
	if err != nil {
		return "", fmt.Errorf("bad caption track url: %w", err)
	}

	body, err := get(ctx, t.client, trackURL, nil)
	if err != nil {
		return "", err
	}
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("bad transcript document: %w", err)
	}
	parts := make([]string, 0, len(tt.Texts))
	for _, line := range tt.Texts {
		parts = append(parts, html.UnescapeString(line.Value))
	}
	return strings.Join(parts, " "), nil
}
