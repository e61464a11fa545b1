package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, false)
	Debug("hidden")
	Info("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("info line missing: %q", out)
	}

	buf.Reset()
	Init(&buf, true)
	WithPrefix("web").Debug("visible")
	if !strings.Contains(buf.String(), "web") || !strings.Contains(buf.String(), "visible") {
		t.Errorf("prefixed debug line missing: %q", buf.String())
	}
}

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	if err := InitFile(dir, false); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	Warn("to file")
	Close()

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("log dir entries = %v, %v", entries, err)
	}
}
