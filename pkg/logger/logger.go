package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultLogPath is where the persistent error log is written when no path is configured.
const DefaultLogPath = "logs/platform_log.log"

var (
	mu      sync.Mutex
	std     = newLogger(os.Stdout)
	logFile *os.File
)

// textFormatter renders entries as "2006-01-02 15:04:05,000 - LEVEL: message".
type textFormatter struct{}

func (textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(e.Time.Format("2006-01-02 15:04:05,000"))
	sb.WriteString(" - ")
	sb.WriteString(strings.ToUpper(e.Level.String()))
	sb.WriteString(": ")
	if module, ok := e.Data["module"]; ok {
		sb.WriteString(fmt.Sprintf("(%v) ", module))
	}
	sb.WriteString(e.Message)
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(textFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// InitLog sends log output to stdout and to the file at path.
// The parent directory is created when missing.
func InitLog(path string) error {
	if path == "" {
		path = DefaultLogPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	std.SetOutput(io.MultiWriter(os.Stdout, f))
	return nil
}

// FlushLog syncs and closes the log file opened by InitLog.
func FlushLog() {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return
	}
	_ = logFile.Sync()
	_ = logFile.Close()
	logFile = nil
	std.SetOutput(os.Stdout)
}

// SetOutput replaces the log destination. Mostly useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// SetLevel sets the minimum level ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	std.SetLevel(lvl)
	return nil
}

func Debug(format string, args ...interface{}) { std.Debugf(format, args...) }
func Info(format string, args ...interface{})  { std.Infof(format, args...) }
func Warn(format string, args ...interface{})  { std.Warnf(format, args...) }
func Error(format string, args ...interface{}) { std.Errorf(format, args...) }

// DebugX logs with a module tag attached.
func DebugX(module, format string, args ...interface{}) {
	std.WithField("module", module).Debugf(format, args...)
}

func InfoX(module, format string, args ...interface{}) {
	std.WithField("module", module).Infof(format, args...)
}

func WarnX(module, format string, args ...interface{}) {
	std.WithField("module", module).Warnf(format, args...)
}

func ErrorX(module, format string, args ...interface{}) {
	std.WithField("module", module).Errorf(format, args...)
}
