package run

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// stdinProvider asks questions on out and reads one answer line per
// question from in.
type stdinProvider struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan string
	mu    sync.Mutex
}

func newStdinProvider(in io.Reader, out io.Writer) *stdinProvider {
	return &stdinProvider{in: in, out: out, lines: make(chan string)}
}

func (p *stdinProvider) start() {
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
	}()
}

func (p *stdinProvider) Ask(ctx context.Context, question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.once.Do(p.start)

	fmt.Fprintf(p.out, "\n%s %s\n%s ", color.CyanString("?"), strings.TrimSpace(question), color.CyanString(">"))
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(line), nil
	}
}
