// Package logger provides structured logging using zerolog. The engine
// protocol owns stdout, so every log line goes to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// maxLogged caps how much of a raw engine message a debug line carries.
const maxLogged = 512

// Init initializes the global logger from LOG_LEVEL, LOG_FILE and DEV.
func Init() {
	InitWriter(os.Stderr)
}

// InitWriter is Init with an explicit console destination.
func InitWriter(console io.Writer) {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	zerolog.CallerMarshalFunc = padCaller

	level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	dev := isDevelopmentMode()
	sinks := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: milliTimeFormat, NoColor: !dev}}

	// The file sink gets plain JSON so runs can be grepped with jq.
	var fileErr error
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, ferr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr != nil {
			fileErr = ferr
		} else {
			sinks = append(sinks, f)
		}
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(sinks...)).With().Timestamp().Caller().Logger()
	if fileErr != nil {
		log.Warn().Err(fileErr).Msg("LOG_FILE not writable, console only")
	}
	log.Debug().Str("level", level.String()).Bool("dev", dev).Msg("Logger initialized")
}

const callerWidth = 24

// padCaller renders file:line left-aligned in a fixed column.
func padCaller(_ uintptr, file string, line int) string {
	path := fmt.Sprintf("%s:%d", filepath.Base(file), line)
	if len(path) >= callerWidth {
		return path[len(path)-callerWidth:]
	}
	return path + strings.Repeat(" ", callerWidth-len(path))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func isDevelopmentMode() bool {
	return os.Getenv("DEV") == "true" ||
		os.Getenv("DEV_MODE") == "true" ||
		os.Getenv("DEVELOPMENT") == "true"
}

// Get returns the global logger instance.
func Get() zerolog.Logger {
	return log.Logger
}

// ForMatch returns the global logger tagged with a match id.
func ForMatch(matchID string) zerolog.Logger {
	if matchID == "" {
		return log.Logger
	}
	return log.Logger.With().Str("matchId", matchID).Logger()
}

// LogMessage logs a raw engine message at trace level, truncating long ones.
// Nothing is copied when trace is disabled.
func LogMessage(logger zerolog.Logger, direction string, msg []byte) {
	if len(msg) == 0 {
		return
	}
	ev := logger.Trace()
	if !ev.Enabled() {
		return
	}
	ev = ev.Str("dir", direction)
	if len(msg) > maxLogged {
		ev.Str("msg", string(msg[:maxLogged])).Bool("truncated", true).Msg("Engine message")
		return
	}
	ev.Str("msg", string(msg)).Msg("Engine message")
}
