package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileLogger writes JSON lines to the given file and text to stdout.
// The caller owns closing the returned file.
func FileLogger(level logrus.Level, logPath string) (*os.File, *logrus.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	fileLogger := logrus.New()
	fileLogger.SetLevel(level)
	fileLogger.SetFormatter(&logrus.JSONFormatter{})
	fileLogger.SetOutput(io.Discard)
	fileLogger.AddHook(&writerHook{
		writer:    f,
		formatter: &logrus.JSONFormatter{},
	})
	fileLogger.AddHook(&writerHook{
		writer:    os.Stdout,
		formatter: &logrus.TextFormatter{FullTimestamp: true},
	})
	return f, fileLogger, nil
}

// ConsoleLogger returns a plain stderr logger, mostly for tests and tools.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

type writerHook struct {
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

func (h *writerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
