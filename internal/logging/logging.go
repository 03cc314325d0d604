// Package logging points the standard logger at stderr and, optionally, a
// rotating log file.
package logging

import (
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the standard logger. With an empty path it only writes
// to stderr. The returned Closer releases the log file.
func Setup(path string) io.Closer {
	return setup(log.Default(), os.Stderr, path)
}

func setup(l *log.Logger, stderr io.Writer, path string) io.Closer {
	l.SetFlags(log.LstdFlags)
	path = strings.TrimSpace(path)
	if path == "" {
		l.SetOutput(stderr)
		return nopCloser{}
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(stderr, file))
	return file
}
