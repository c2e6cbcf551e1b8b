package main

import (
	"io"
	"log"
	"os"

	"github.com/natefinch/lumberjack"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib/output_storage"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib/runner"
	"github.com/SanjoDeundiak/server-launcher/pkg/lib/state"
)

// setupLogging routes every package logger to stderr and, when path is set,
// to a rotated log file. The returned closer flushes the file.
func setupLogging(path string) io.Closer {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, file)
		closer = file
	}

	flags := log.LstdFlags | log.Lmicroseconds
	log.SetOutput(out)
	log.SetFlags(flags)
	logger = log.New(out, "server: ", flags)
	runner.SetLogger(log.New(out, "runner: ", flags))
	state.SetLogger(log.New(out, "state: ", flags))
	output_storage.SetLogger(log.New(out, "output_storage: ", flags))
	return closer
}
