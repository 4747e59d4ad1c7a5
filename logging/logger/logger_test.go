package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ncobase/esdsl/ctxutil"
	"github.com/ncobase/esdsl/logging/logger/config"
	"github.com/sirupsen/logrus"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return l
}

func TestLoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetVersion("v1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Infof(ctx, "searched %s", "users")

	out := buf.String()
	if !strings.Contains(out, `"trace_id":"trace-1"`) {
		t.Fatalf("expected trace id in %s", out)
	}
	if !strings.Contains(out, `"version":"v1.2.3"`) {
		t.Fatalf("expected version in %s", out)
	}
	if !strings.Contains(out, `"msg":"searched users"`) {
		t.Fatalf("expected message in %s", out)
	}
}

func TestMaskHook(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.AddHook(NewMaskHook([]string{"password"}))

	l.WithContextFields(context.Background(), logrus.Fields{
		"doc": map[string]any{"name": "bob", "Password": "hunter2"},
	}).Info("indexed")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Fatalf("expected password to be masked in %s", out)
	}
	if !strings.Contains(out, `"name":"bob"`) {
		t.Fatalf("expected other fields untouched in %s", out)
	}
}

func TestInitLevelAndFormat(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	cleanup, err := l.Init(&config.Config{Level: int(logrus.WarnLevel), Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if l.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %v", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter, got %T", l.Formatter)
	}
}

func TestInitFileOutputRequiresPath(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	if _, err := l.Init(&config.Config{Level: 4, Output: "file"}); err == nil {
		t.Fatalf("expected error for empty output_file")
	}
}
