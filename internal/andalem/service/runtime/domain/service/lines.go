package service

import (
	"bytes"
	"sync"

	"github.com/kiosk404/andalem/pkg/ansihtml"
)

const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// Line is one line of the verbose trace.
type Line struct {
	Stream string `json:"stream"`
	Raw    string `json:"raw"`
	HTML   string `json:"html"`
}

// LineSink receives the trace of a run, in order, one line at a time.
type LineSink interface {
	WriteLine(line Line)
}

// LineSinkFunc adapts a plain function to LineSink.
type LineSinkFunc func(line Line)

func (f LineSinkFunc) WriteLine(line Line) {
	f(line)
}

// lineWriter splits what the engine writes into lines and hands each to the
// sink. Writers of one run share mu so stdout and stderr lines keep their order.
type lineWriter struct {
	mu     *sync.Mutex
	stream string
	sink   LineSink
	buf    bytes.Buffer
}

func newLineWriters(sink LineSink) (stdout, stderr *lineWriter) {
	mu := &sync.Mutex{}
	return &lineWriter{mu: mu, stream: StreamStdout, sink: sink},
		&lineWriter{mu: mu, stream: StreamStderr, sink: sink}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush emits a trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(raw string) {
	w.sink.WriteLine(Line{Stream: w.stream, Raw: raw, HTML: ansihtml.ConvertFull(raw)})
}
