// Package logging wires the process-wide zerolog logger, replacing the
// teacher's hand-rolled services/logger.go (level enum, JSON/text writer,
// context-field map) with the ecosystem structured logger cryptorun uses
// throughout its application layer. Startup still prints the teacher's
// banner-style progress lines, now routed through zerolog instead of raw
// fmt.Printf.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Init builds the process-wide logger from a level string ("debug", "info",
// "warn", "error") and a format ("console" or "json"), and installs it as
// zerolog's global logger.
func Init(level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000Z07:00"

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writer = os.Stdout
	logger := zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
	if format != "json" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}).
			Level(lvl).With().Timestamp().Logger()
	}

	zerolog.DefaultContextLogger = &logger
	return logger
}

// Banner prints a teacher-style startup progress line ("✅ X initialized")
// through the structured logger rather than fmt.Printf, keeping the
// operational readability of the original console output.
func Banner(log zerolog.Logger, service string, ready bool) {
	if ready {
		log.Info().Str("service", service).Msg("✅ initialized")
		return
	}
	log.Warn().Str("service", service).Msg("⏳ initializing")
}

// RequestFields are the request-scoped fields attached to every log line
// within a request's lifetime (conversation id, user id, team code, route).
type RequestFields struct {
	ConversationID string
	UserID         string
	TeamCode       string
	Route          string
}

// With attaches request-scoped fields to a logger, producing a child
// logger for use within a single request's handler chain.
func With(log zerolog.Logger, f RequestFields) zerolog.Logger {
	ctx := log.With()
	if f.ConversationID != "" {
		ctx = ctx.Str("conversation_id", f.ConversationID)
	}
	if f.UserID != "" {
		ctx = ctx.Str("user_id", f.UserID)
	}
	if f.TeamCode != "" {
		ctx = ctx.Str("team_code", f.TeamCode)
	}
	if f.Route != "" {
		ctx = ctx.Str("route", f.Route)
	}
	return ctx.Logger()
}
