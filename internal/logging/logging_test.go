package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Info("refresh completed", "period", "week", "failures", 0)

	out := buf.String()
	for _, want := range []string{"refresh completed", "period=week", "failures=0", "level=info"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestDebugLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer

	New(&quiet, false).Debug("hidden")
	New(&verbose, true).Debug("shown")

	if quiet.Len() != 0 {
		t.Errorf("debug message should be dropped at info level: %s", quiet.String())
	}
	if !strings.Contains(verbose.String(), "shown") {
		t.Errorf("debug message should be written at debug level: %s", verbose.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trackdash.log")

	logger, closer, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	logger.Warn("api offline", "endpoint", "/health")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "api offline") {
		t.Errorf("log file missing message: %s", data)
	}
}
