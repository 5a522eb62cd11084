package logging

import (
	"context"
	"log/slog"

	"github.com/ShujaShah/starte/domain"
)

// SlogAuditLogger writes audit events as structured log records.
type SlogAuditLogger struct {
	l *slog.Logger
}

func NewSlogAuditLogger(l *slog.Logger) *SlogAuditLogger {
	return &SlogAuditLogger{l: l.With("component", "audit")}
}

// LogEvent implements domain.AuditLogger. Failed events are logged at warn.
func (a *SlogAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	if event.IPAddress == "" {
		event.WithClientContext(domain.ClientContextFrom(ctx))
	}

	attrs := []any{
		"event", string(event.EventType),
		"success", event.Success,
		"timestamp", event.Timestamp,
	}
	if event.UserID != "" {
		attrs = append(attrs, "user_id", event.UserID)
	}
	if event.Email != "" {
		attrs = append(attrs, "email", event.Email)
	}
	if event.IPAddress != "" {
		attrs = append(attrs, "ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		attrs = append(attrs, "user_agent", event.UserAgent)
	}
	if event.ErrorMsg != "" {
		attrs = append(attrs, "error", event.ErrorMsg)
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, "metadata", event.Metadata)
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	a.l.Log(ctx, level, "audit event", attrs...)
}
