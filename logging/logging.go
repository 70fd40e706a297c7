// Package logging builds the logrus logger shared by the frontends.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level logrus.Level
	// File, when set, routes output to a size-rotated file.
	File string
	// Output is used when File is empty. Defaults to stderr.
	Output io.Writer

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup returns a configured logger and a closer that flushes the file sink,
// if any. The closer is never nil.
func Setup(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetLevel(opts.Level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	if opts.File == "" {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(out)
		return logger, io.NopCloser(nil), nil
	}

	if err := touch(opts.File); err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	sink := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    withDefault(opts.MaxSizeMB, 10),
		MaxBackups: withDefault(opts.MaxBackups, 3),
		MaxAge:     withDefault(opts.MaxAgeDays, 7),
	}
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	logger.SetOutput(sink)
	return logger, sink, nil
}

// touch surfaces permission and path errors up front; lumberjack only
// reports them on the first write.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
