package log

import (
	"context"
	"log/slog"
)

// SlogAdapter forwards session events to an slog.Logger. Useful for
// development when you want session events on the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates an adapter writing to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Errors are logged at Error
// level, everything else at Info.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.Resource != "" {
		attrs = append(attrs, slog.String("resource", event.Resource))
	}
	if event.Op != "" {
		attrs = append(attrs, slog.String("op", event.Op))
	}

	switch {
	case event.Reading != nil:
		attrs = append(attrs,
			slog.Int("count", event.Reading.Count),
			slog.String("unit", event.Reading.Unit),
		)
		if event.Reading.Count > 1 {
			attrs = append(attrs,
				slog.Float64("mean", event.Reading.Mean),
				slog.Float64("std_dev", event.Reading.StdDev),
			)
		} else {
			attrs = append(attrs, slog.Float64("value", event.Reading.Value))
		}
	case event.State != nil:
		attrs = append(attrs,
			slog.String("from", event.State.From),
			slog.String("to", event.State.To),
		)
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
	}

	level := slog.LevelInfo
	if event.Category == CategoryError {
		level = slog.LevelError
	}

	msg := event.Message
	if msg == "" {
		msg = event.Category.String()
	}
	a.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
