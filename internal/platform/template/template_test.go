package template

import (
	"strings"
	"testing"
)

func TestParseAndSubstitute(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"content": "Welcome {TEAM_NAME}!",
		"embeds": [{"title": "{LEAGUE_NAME}", "fields": [{"name": "Division", "value": "{DIVISION}"}]}]
	}`)
	msg, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out := msg.Substitute(map[string]string{
		"{TEAM_NAME}":   "Alpha",
		"{LEAGUE_NAME}": "Season Thirty",
		"{DIVISION}":    "Open",
	})
	if out.Content != "Welcome Alpha!" {
		t.Fatalf("content: %q", out.Content)
	}
	if out.Embeds[0].Title != "Season Thirty" {
		t.Fatalf("title: %q", out.Embeds[0].Title)
	}
	if out.Embeds[0].Fields[0].Value != "Open" {
		t.Fatalf("field: %q", out.Embeds[0].Fields[0].Value)
	}
	// The original is untouched.
	if msg.Content != "Welcome {TEAM_NAME}!" {
		t.Fatalf("source mutated: %q", msg.Content)
	}
}

func TestTruncateIsDeterministic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		limit int
		want  string
		cut   bool
	}{
		{"short stays", 10, "short stay", true},
		{"short", 10, "short", false},
		{"ügly ünïcode nämé", 4, "ügly", true},
		{"", 10, "", false},
	}
	for _, tc := range cases {
		got, cut := Truncate(tc.name, tc.limit)
		if got != tc.want || cut != tc.cut {
			t.Errorf("Truncate(%q, %d) = (%q, %v), want (%q, %v)", tc.name, tc.limit, got, cut, tc.want, tc.cut)
		}
		// Same input, same output.
		again, _ := Truncate(tc.name, tc.limit)
		if again != got {
			t.Errorf("Truncate(%q, %d) not deterministic", tc.name, tc.limit)
		}
	}
}

func TestSplitNeverBreaksLinesAndRejoins(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, strings.Repeat("x", 10+i*3))
	}
	text := strings.Join(lines, "\n")

	parts := Split(text, 120)
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	for i, part := range parts {
		for _, line := range strings.Split(part, "\n") {
			if !strings.HasPrefix(text, line) && !strings.Contains(text, "\n"+line) {
				t.Fatalf("part %d contains a broken line %q", i, line)
			}
		}
	}
	if strings.Join(parts, "\n") != text {
		t.Fatal("joined parts do not reconstruct the input")
	}
}

func TestSplitOversizedSingleLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("y", 500)
	text := "first\n" + long + "\nlast"
	parts := Split(text, 100)

	found := false
	for _, part := range parts {
		if part == long {
			found = true
		}
	}
	if !found {
		t.Fatal("an oversized line must become its own part, unbroken")
	}
	if strings.Join(parts, "\n") != text {
		t.Fatal("joined parts do not reconstruct the input")
	}
}

func TestSplitEmpty(t *testing.T) {
	t.Parallel()
	if parts := Split("", 100); parts != nil {
		t.Fatalf("got %v, want nil", parts)
	}
}
