// Package slog provides logging decorators for service interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/evidmap/evidmap"
)

// Ensure LoggingLocator implements evidmap.Locator.
var _ evidmap.Locator = (*LoggingLocator)(nil)

// LoggingLocator wraps a Locator with debug logging for selection mapping.
type LoggingLocator struct {
	next   evidmap.Locator
	logger *slog.Logger
}

// NewLoggingLocator creates a new LoggingLocator.
func NewLoggingLocator(next evidmap.Locator, logger *slog.Logger) *LoggingLocator {
	return &LoggingLocator{next: next, logger: logger}
}

// Locate delegates to the wrapped locator and logs the outcome.
func (l *LoggingLocator) Locate(req evidmap.LocateRequest) *evidmap.MappedSpan {
	begin := time.Now()
	span := l.next.Locate(req)

	if span == nil {
		l.logger.Debug("selection not located",
			"selectionLen", len(req.SelectionText),
			"documentLen", len(req.DocumentHTML),
			"duration", time.Since(begin),
		)
		return nil
	}

	source := ""
	if n := len(span.Candidates); n > 0 {
		source = span.Candidates[n-1].Source
	}
	l.logger.Debug("selection located",
		"htmlStart", span.HTMLStart,
		"htmlEnd", span.HTMLEnd,
		"textStart", span.TextStart,
		"textEnd", span.TextEnd,
		"candidates", len(span.Candidates),
		"source", source,
		"duration", time.Since(begin),
	)
	return span
}
