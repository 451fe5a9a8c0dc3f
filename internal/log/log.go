package log

import (
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"wikimart/internal/domain"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		FieldMap:        logrus.FieldMap{logrus.FieldKeyTime: "ts", logrus.FieldKeyMsg: "action"},
	})
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Setup applies the level and, when file is set, tees output into it.
// The returned closer releases the file and is never nil.
func Setup(level, file string) (io.Closer, error) {
	if lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil {
		logger.SetLevel(lvl)
	}
	if file == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return io.NopCloser(nil), err
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// SetOutput redirects all log lines; tests use it to capture entries.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// Writer exposes the logger to fiber's access log middleware.
func Writer() io.Writer { return logger.WriterLevel(logrus.InfoLevel) }

func write(level logrus.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := logrus.NewEntry(logger)
	if len(fields) > 0 {
		e = e.WithField("fields", fields)
	}
	if c != nil {
		f := logrus.Fields{
			"ip":     c.IP(),
			"method": c.Method(),
			"path":   c.Path(),
			"status": c.Response().StatusCode(),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			f["req_id"] = rid
		}
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			f["user_id"] = u.ID
		}
		e = e.WithFields(f)
	}
	if err != nil {
		e = e.WithError(err)
	}
	e.Log(level, action)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, c, action, nil, fields)
}

// Audit records state changes made on behalf of a user.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, c, action, nil, mergeKind(fields, "audit"))
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.WarnLevel, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logrus.ErrorLevel, c, action, err, fields)
}

func Fatal(action string, err error) {
	logger.WithError(err).Fatal(action)
}

func mergeKind(fields map[string]any, kind string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["kind"] = kind
	return out
}
