// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

// logFile is the file opened by the last InitLogger call, if any.
var logFile *os.File

// ------------------- logger initialization -------------------

// InitLogger (re)configures the loggers. It:
// - Writes to stdout when dir is empty.
// - Otherwise ensures dir exists and also writes to a timestamped file inside it.
// Returns the path of the log file, or "" when logging to stdout only.
func InitLogger(dir string) (string, error) {
	if dir == "" {
		configure(os.Stdout)
		return "", nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}

	logFileName := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
	if err != nil {
		return "", err
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	configure(io.MultiWriter(os.Stdout, file))
	return logFileName, nil
}

// SetLogLevel discards Debug output in production.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

// Close releases the log file opened by InitLogger.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	configure(os.Stdout)
	return err
}

func configure(w io.Writer) {
	Info = log.New(w, "INFO: ", flags)
	Warn = log.New(w, "WARN: ", flags)
	Error = log.New(w, "ERROR: ", flags)
	Debug = log.New(w, "DEBUG: ", flags)
}

// init makes the loggers usable before main calls InitLogger (and in tests).
func init() {
	configure(os.Stdout)
}
