package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, lvl Level, format Format) *StdLogger {
	l := New(Options{Level: lvl, Format: format, App: "creature-registry", Output: buf}).(*StdLogger)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestStdLogger_TextIsSortedAndFiltered(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Info, FormatText)

	l.Debug("hidden", nil)
	l.Info("created", map[string]any{"creature_id": 3, "account": "alice"})

	got := strings.TrimSpace(buf.String())
	want := "account=alice app=creature-registry creature_id=3 level=info msg=created ts=2026-01-02T03:04:05Z"
	if got != want {
		t.Fatalf("unexpected line:\n got: %s\nwant: %s", got, want)
	}
}

func TestStdLogger_WithMergesFieldsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, Debug, FormatJSON)

	l.With(map[string]any{"component": "ledger", "": "ignored"}).Warn("unreserve failed", map[string]any{"account": "bob"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if entry["component"] != "ledger" || entry["account"] != "bob" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if _, ok := entry[""]; ok {
		t.Fatalf("empty key must be dropped")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	cases := map[string]Level{"debug": Debug, "": Info, "WARNING": Warn, "error": Error, "nope": Info}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if ParseFormat(" JSON ") != FormatJSON || ParseFormat("xml") != FormatText {
		t.Fatalf("unexpected format parsing")
	}
}
