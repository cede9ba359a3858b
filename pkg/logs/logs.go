package logs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Alijeyrad/transfers_backend/config"
)

// Keys whose values never reach a log sink in clear text. Bookings carry
// customer contact details and bearer tokens for cancel and review links.
var redactedKeys = map[string]func(string) string{
	"token":          func(string) string { return "[redacted]" },
	"api_key":        func(string) string { return "[redacted]" },
	"password":       func(string) string { return "[redacted]" },
	"customer_email": maskEmail,
	"customer_phone": maskPhone,
}

// New builds the process logger. Records fan out to stdout, a rotated file
// and Loki, whichever are enabled; stdout is the fallback when none is.
func New(cfg *config.Config) *slog.Logger {
	out := cfg.Logging.Output
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Logging.Level),
		AddSource:   isDevelopment(cfg),
		ReplaceAttr: redact,
	}

	var writers []io.Writer
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		writers = append(writers, os.Stdout)
	}
	if out.File.Enabled {
		writers = append(writers, &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		})
	}

	var handlers []slog.Handler
	if len(writers) > 0 {
		w := io.MultiWriter(writers...)
		if strings.EqualFold(cfg.Logging.Format, "json") || !isDevelopment(cfg) {
			handlers = append(handlers, slog.NewJSONHandler(w, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(w, opts))
		}
	}
	if out.Loki.Enabled {
		handlers = append(handlers, slog.NewJSONHandler(newLokiWriter(cfg), opts))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = &multiHandler{handlers: handlers}
	}

	return slog.New(h).With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
}

// Default is used before the config is read.
func Default() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: redact,
	})
	return slog.New(h).With(slog.String("service", "transfers_backend"))
}

func isDevelopment(cfg *config.Config) bool {
	return strings.EqualFold(cfg.Server.Environment, "development")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func redact(_ []string, a slog.Attr) slog.Attr {
	mask, ok := redactedKeys[a.Key]
	if !ok || a.Value.Kind() != slog.KindString {
		return a
	}
	return slog.String(a.Key, mask(a.Value.String()))
}

// maskEmail keeps the first letter and the domain: a***@example.com.
func maskEmail(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" {
		return "[redacted]"
	}
	return local[:1] + "***@" + domain
}

// maskPhone keeps the last four digits.
func maskPhone(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// multiHandler sends each record to every handler that accepts its level.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
