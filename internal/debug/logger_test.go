package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		"WARN":     zerolog.WarnLevel,
		" WARNING": zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("expected %v for %q, got %v", want, in, got)
		}
	}
}

func TestNew_writesServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")
	log.Debug().Str("layer", "minnesota").Msg("layer loaded")

	out := buf.String()
	if !strings.Contains(out, `"service":"geoexplorer"`) {
		t.Fatalf("expected service field, got %q", out)
	}
	if !strings.Contains(out, `"layer":"minnesota"`) {
		t.Fatalf("expected layer field, got %q", out)
	}
}

func TestNew_filtersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
}

func TestNew_nilWriterIsNop(t *testing.T) {
	log := New(nil, "debug")
	if log.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger, got %v", log.GetLevel())
	}
}
