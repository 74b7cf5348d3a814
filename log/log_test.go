package log_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/tickworks/countdown/log"
)

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := log.New(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("shown", "attr", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("New(buf, info).Debug() got logged: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "attr=42") {
		t.Errorf("New(buf, info).Info() = %q, want msg and attrs", out)
	}
}

func TestDefault(t *testing.T) {
	defer log.SetDefault(nil)

	if log.Default() == nil {
		t.Fatal("Default() = nil")
	}

	var buf bytes.Buffer
	l := log.New(&buf, slog.LevelDebug)
	log.SetDefault(l)
	if got := log.Default(); got != l {
		t.Errorf("Default() = %v, want %v", got, l)
	}

	log.SetDefault(nil)
	if got := log.Default(); got != log.Noop {
		t.Errorf("Default() after SetDefault(nil) = %v, want Noop", got)
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	if log.Noop.Enabled(t.Context(), slog.LevelError) {
		t.Error("Noop.Enabled(error) = true, want false")
	}
}

func TestStringValue(t *testing.T) {
	t.Parallel()

	if got, want := log.StringValue([]byte("abc")).LogValue().String(), "abc"; got != want {
		t.Errorf("StringValue([]byte).LogValue() = %q, want %q", got, want)
	}
	if got, want := log.StringValue("def").LogValue().String(), "def"; got != want {
		t.Errorf("StringValue(string).LogValue() = %q, want %q", got, want)
	}
}

func TestFmtValue(t *testing.T) {
	t.Parallel()

	type pair struct{ A, B int }

	if got, want := log.FmtValue(pair{1, 2}, false).LogValue().String(), "{A:1 B:2}"; got != want {
		t.Errorf("FmtValue(v, false).LogValue() = %q, want %q", got, want)
	}
	if got, want := log.FmtValue(pair{1, 2}, true).LogValue().String(), "log_test.pair{A:1, B:2}"; got != want {
		t.Errorf("FmtValue(v, true).LogValue() = %q, want %q", got, want)
	}
}

func TestCalcValue(t *testing.T) {
	t.Parallel()

	var calls int
	v := log.CalcValue(func() any {
		calls++
		return calls
	})

	if got, want := v.LogValue().Int64(), int64(1); got != want {
		t.Errorf("CalcValue().LogValue() = %d, want %d", got, want)
	}
	if got, want := v.LogValue().Int64(), int64(2); got != want {
		t.Errorf("CalcValue().LogValue() = %d, want %d", got, want)
	}
}
