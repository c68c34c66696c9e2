package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	cases := []struct {
		format string
		want   string
	}{
		{format: "text", want: "msg=hello"},
		{format: "json", want: `"msg":"hello"`},
		{format: "pretty", want: `"msg": "hello"`},
		{format: "", want: "msg=hello"},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(&buf, tc.format, "info")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			log.Info("hello", "round", 3)
			if !strings.Contains(buf.String(), tc.want) {
				t.Fatalf("output=%q want substring %q", buf.String(), tc.want)
			}
		})
	}
}

func TestNew_Rejects(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "xml", "info"); err == nil {
		t.Fatalf("unknown format accepted")
	}
	if _, err := New(&bytes.Buffer{}, "text", "loud"); err == nil {
		t.Fatalf("unknown level accepted")
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "text", "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("quiet")
	log.Warn("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("output=%q", buf.String())
	}
}

func TestPrettyJSONHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	log.With("game", "g1").WithGroup("turn").Debug("moved",
		"round", 4,
		slog.Group("head", "x", 2, "y", 3),
		"err", errors.New("boom"),
	)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if got["msg"] != "moved" || got["level"] != "DEBUG" || got["game"] != "g1" {
		t.Fatalf("record=%v", got)
	}
	turn, ok := got["turn"].(map[string]any)
	if !ok {
		t.Fatalf("missing turn group: %v", got)
	}
	if turn["round"] != float64(4) || turn["err"] != "boom" {
		t.Fatalf("turn=%v", turn)
	}
	head, ok := turn["head"].(map[string]any)
	if !ok || head["x"] != float64(2) || head["y"] != float64(3) {
		t.Fatalf("head=%v", turn["head"])
	}
}
