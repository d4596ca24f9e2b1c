package logx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"notice":  LevelNotice,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: want %v, got %v", in, want, got)
		}
	}
	if lv := ParseLevel("off"); lv <= slog.LevelError {
		t.Fatalf("off must filter everything, got %v", lv)
	}
}

func TestPrettyHandler_Labels(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(NewPrettyHandler(&buf, slog.LevelDebug, "zh-CN", "never"))
	lg.Info("你好")
	if !strings.Contains(buf.String(), "[信息] 你好") {
		t.Fatalf("zh label: got %q", buf.String())
	}

	buf.Reset()
	lg = slog.New(NewPrettyHandler(&buf, slog.LevelDebug, "en", "never"))
	lg.Warn("careful")
	if !strings.Contains(buf.String(), "[WARN] careful") {
		t.Fatalf("en label: got %q", buf.String())
	}

	buf.Reset()
	lg.Log(context.Background(), LevelNotice, "heads up")
	if !strings.Contains(buf.String(), "[NOTICE] heads up") {
		t.Fatalf("notice label: got %q", buf.String())
	}
}

func TestPrettyHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(NewPrettyHandler(&buf, slog.LevelWarn, "en", "never"))
	lg.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info below warn must be dropped, got %q", buf.String())
	}
	lg.Error("shown")
	if !strings.Contains(buf.String(), "[ERROR] shown") {
		t.Fatalf("error output: got %q", buf.String())
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(NewPrettyHandler(&buf, slog.LevelDebug, "en", "never"))
	lg.Info("msg", "key", "value")
	if !strings.Contains(buf.String(), "key=value") {
		t.Fatalf("attrs: got %q", buf.String())
	}
}
