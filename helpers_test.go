package ragengine_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/andewx/ragengine"
	"github.com/stretchr/testify/require"
)

// testConfig is the default config on a platform without portability, with
// diagnostics on.
func testConfig() *ragengine.Config {
	cfg := ragengine.DefaultConfig()
	cfg.Platform = "linux"
	cfg.Diagnostics = true
	return cfg
}

// captureLogger returns a json logger at trace level and the buffer it
// writes to.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return ragengine.NewLogger(&buf, "trace", "json"), &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	return out
}

func findRecord(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	for _, rec := range records(t, buf) {
		if rec["msg"] == msg {
			return rec
		}
	}
	t.Fatalf("no log record %q in:\n%s", msg, buf.String())
	return nil
}

type window []string

func (w window) RequiredInstanceExtensions() []string { return w }
