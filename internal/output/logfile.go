package output

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// GetLogFilePath returns the path to the debug log file.
// If STAX_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.stax/logs/stax.log
func GetLogFilePath() string {
	if customPath := os.Getenv("STAX_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "stax.log"
	}

	return filepath.Join(homeDir, ".stax", "logs", "stax.log")
}

// newDebugLogger returns a logger backed by a size-rotated log file
func newDebugLogger() *log.Logger {
	return log.New(&lumberjack.Logger{
		Filename:   GetLogFilePath(),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, "", log.LstdFlags)
}
