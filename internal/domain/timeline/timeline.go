package timeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
)

type Affiliation string

const (
	AffiliationHome    Affiliation = "home"
	AffiliationAway    Affiliation = "away"
	AffiliationNeutral Affiliation = "neutral"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterGoals     Filter = "goals"
	FilterCards     Filter = "cards"
	FilterSetPieces Filter = "setpieces"
)

// setPieceKeywords is matched as a case-insensitive substring of a Generic event's action.
// Best effort: the provider has no structured set-piece field.
var setPieceKeywords = []string{"corner", "penalty", "free kick"}

type Entry struct {
	Event       matchevent.ClassifiedEvent
	Affiliation Affiliation
	TeamName    string
}

type Timeline struct {
	Entries []Entry
}

type ScorerLines struct {
	Home []string
	Away []string
}

func ParseFilter(v string) (Filter, bool) {
	switch Filter(strings.ToLower(strings.TrimSpace(v))) {
	case "", FilterAll:
		return FilterAll, true
	case FilterGoals:
		return FilterGoals, true
	case FilterCards:
		return FilterCards, true
	case FilterSetPieces:
		return FilterSetPieces, true
	default:
		return "", false
	}
}

// Build classifies raws, drops the unrepresentable ones and orders the rest by clip start.
// Equal clip starts keep source order.
func Build(raws []matchevent.RawEvent, homeTeamID, awayTeamID string) Timeline {
	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		event, ok := matchevent.Classify(raw)
		if !ok {
			continue
		}
		entry := Entry{
			Event:       event,
			Affiliation: affiliationOf(raw.TeamID, homeTeamID, awayTeamID),
		}
		if raw.TeamName != nil {
			entry.TeamName = strings.TrimSpace(*raw.TeamName)
		}
		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return compareInt64(a.Event.Clip.FromTimestamp, b.Event.Clip.FromTimestamp)
	})
	return Timeline{Entries: entries}
}

func affiliationOf(teamID *string, homeTeamID, awayTeamID string) Affiliation {
	if teamID == nil {
		return AffiliationNeutral
	}
	id := strings.TrimSpace(*teamID)
	switch {
	case id == "":
		return AffiliationNeutral
	case id == strings.TrimSpace(homeTeamID):
		return AffiliationHome
	case id == strings.TrimSpace(awayTeamID):
		return AffiliationAway
	default:
		return AffiliationNeutral
	}
}

// BuildScorerLines renders "{scorer}[ (OG)] {minute}'" per side. Neutral goals count for nobody.
func BuildScorerLines(tl Timeline) ScorerLines {
	out := ScorerLines{Home: []string{}, Away: []string{}}
	for _, entry := range tl.Entries {
		goal := entry.Event.Goal
		if entry.Event.Category != matchevent.CategoryGoal || goal == nil {
			continue
		}

		scorer := goal.Scorer
		if scorer == "" {
			scorer = "Unknown"
		}
		if goal.IsOwnGoal {
			scorer += " (OG)"
		}
		line := fmt.Sprintf("%s %d'", scorer, entry.Event.Minute())

		switch entry.Affiliation {
		case AffiliationHome:
			out.Home = append(out.Home, line)
		case AffiliationAway:
			out.Away = append(out.Away, line)
		}
	}
	return out
}

// FilterByCategory keeps timeline order.
func FilterByCategory(tl Timeline, filter Filter) Timeline {
	if filter == FilterAll || filter == "" {
		return Timeline{Entries: slices.Clone(tl.Entries)}
	}

	entries := make([]Entry, 0, len(tl.Entries))
	for _, entry := range tl.Entries {
		if matchesFilter(entry.Event, filter) {
			entries = append(entries, entry)
		}
	}
	return Timeline{Entries: entries}
}

func matchesFilter(event matchevent.ClassifiedEvent, filter Filter) bool {
	switch filter {
	case FilterGoals:
		return event.Category == matchevent.CategoryGoal
	case FilterCards:
		return event.Category == matchevent.CategoryCard
	case FilterSetPieces:
		return IsSetPiece(event)
	default:
		return false
	}
}

func IsSetPiece(event matchevent.ClassifiedEvent) bool {
	if event.Category != matchevent.CategoryGeneric {
		return false
	}
	action := strings.ToLower(event.Action)
	for _, keyword := range setPieceKeywords {
		if strings.Contains(action, keyword) {
			return true
		}
	}
	return false
}

// TopEvents is goals plus on-target shots, ordered by game time rather than clip start.
// A shot and the goal it produced are both kept.
func TopEvents(tl Timeline) Timeline {
	entries := make([]Entry, 0, len(tl.Entries))
	for _, entry := range tl.Entries {
		if entry.Event.Category == matchevent.CategoryGoal || isOnTargetShot(entry.Event) {
			entries = append(entries, entry)
		}
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Event.GameTimeSeconds - b.Event.GameTimeSeconds
	})
	return Timeline{Entries: entries}
}

func isOnTargetShot(event matchevent.ClassifiedEvent) bool {
	return event.Category == matchevent.CategoryGeneric &&
		event.Generic != nil &&
		strings.EqualFold(event.Action, "shot") &&
		event.Generic.OnTarget
}

// MarkerLabel renders neutral markers with their stoppage minute, e.g. "Half Time 45 + 2'".
func MarkerLabel(event matchevent.ClassifiedEvent) string {
	if event.NeutralMarker == nil {
		return strings.ToUpper(event.Action)
	}

	title, regulation := "Full Time", 90
	if event.NeutralMarker.Kind == matchevent.MarkerHalfTime {
		title, regulation = "Half Time", 45
	}
	stoppage := max(event.Minute()-regulation, 0)
	return fmt.Sprintf("%s %d + %d'", title, regulation, stoppage)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
