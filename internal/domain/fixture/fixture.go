package fixture

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	gameIDColumn       = 4
	displayNameMaxRune = 10
)

// Summary is the canonical fixture record. Team names are kept in full.
type Summary struct {
	GameID      string
	HomeTeam    string
	AwayTeam    string
	HomeGoals   int
	AwayGoals   int
	HomeLogoURI string
	AwayLogoURI string
	KickoffTime *time.Time
	Stadium     string
	Tournament  string
}

// GameIDs extracts column 4 of each row, skipping short rows and blank ids,
// and removes duplicates keeping first-occurrence order.
func GameIDs(rows [][]string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) <= gameIDColumn {
			continue
		}
		id := strings.TrimSpace(row[gameIDColumn])
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// DisplayName shortens long team names for list layouts. Apply at render time only.
func DisplayName(name string) string {
	if utf8.RuneCountInString(name) <= displayNameMaxRune {
		return name
	}
	runes := []rune(name)
	return string(runes[:displayNameMaxRune]) + "..."
}
