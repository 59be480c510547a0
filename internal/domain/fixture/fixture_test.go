package fixture

import (
	"reflect"
	"testing"
)

func TestGameIDs_DedupKeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"_", "_", "_", "_", "g1"},
		{"_", "_", "_", "_", "g1"},
		{"_", "_", "_", "_", "g2"},
	}
	if got := GameIDs(rows); !reflect.DeepEqual(got, []string{"g1", "g2"}) {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestGameIDs_SkipsMalformedRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"2024", "goal", "A", "B"},
		{},
		{"2024", "goal", "A", "B", "  "},
		{"2024", "goal", "A", "B", " g3 ", "asset", "uri"},
		{"2024", "shot", "A", "B", "g2"},
		{"2024", "shot", "A", "B", "g3"},
	}
	got := GameIDs(rows)
	if !reflect.DeepEqual(got, []string{"g3", "g2"}) {
		t.Fatalf("unexpected ids %v", got)
	}

	seen := map[string]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate id %q in output", id)
		}
		seen[id] = true
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"AIK":                "AIK",
		"Hammarby I":         "Hammarby I",
		"Djurgårdens IF":     "Djurgården...",
		"IFK Norrköping":     "IFK Norrkö...",
		"Malmö FF":           "Malmö FF",
		"BK Häcken Göteborg": "BK Häcken ...",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
