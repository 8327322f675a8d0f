package format_test

import (
	"strings"
	"testing"
	"time"

	"integra/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("System", "Phi", "Method")
	tb.Row("majority-triad", format.FmtPhi(0.125), "exact")
	tb.Row("xor-pair", format.FmtPhi(0), "exact")
	out := tb.String()

	if !strings.Contains(out, "majority-triad") {
		t.Errorf("expected system name in output:\n%s", out)
	}
	if !strings.Contains(out, "0.125000") {
		t.Errorf("expected formatted phi in output:\n%s", out)
	}
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("System", "Phi")
	tb.Row("bell-pair", format.FmtPhi(1))
	out := tb.String()

	if !strings.Contains(out, "| System") {
		t.Errorf("expected markdown header with '| System':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator:\n%s", out)
	}
}

func TestTable_Footer(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Mechanism", "Phi")
	tb.Row("[0 1]", format.FmtPhi(0.25))
	tb.Footer("MEAN", format.FmtPhi(0.25))
	out := tb.String()
	if !strings.Contains(out, "MEAN") {
		t.Errorf("expected footer in output:\n%s", out)
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    format.Mode
		wantErr bool
	}{
		{"", format.ASCII, false},
		{"ascii", format.ASCII, false},
		{"markdown", format.Markdown, false},
		{"md", format.Markdown, false},
		{"html", 0, true},
	}
	for _, tc := range cases {
		got, err := format.ParseMode(tc.in)
		if tc.wantErr != (err != nil) {
			t.Errorf("ParseMode(%q) error = %v", tc.in, err)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFmtElapsed(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.50s"},
	}
	for _, tc := range cases {
		if got := format.FmtElapsed(tc.in); got != tc.want {
			t.Errorf("FmtElapsed(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := format.Truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := format.Truncate("abc", 6); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
}
