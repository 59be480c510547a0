package timeline

import (
	"testing"

	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/stretchr/testify/require"
)

func str(v string) *string { return &v }
func i64(v int64) *int64   { return &v }
func num(v int) *int       { return &v }

func raw(action, teamID string, from int64, gameTime int) matchevent.RawEvent {
	ev := matchevent.RawEvent{
		Action:          str(action),
		GameTimeSeconds: num(gameTime),
		Clip: &matchevent.RawClip{
			VideoAssetID:  i64(1),
			FromTimestamp: i64(from),
			ToTimestamp:   i64(from + 10),
		},
	}
	if teamID != "" {
		ev.TeamID = str(teamID)
	}
	return ev
}

func TestBuild_GoalScenario(t *testing.T) {
	t.Parallel()

	goal := raw("goal", "home1", 10, 2700)
	goal.Scorer = str("Smith")
	goal.Clip.ToTimestamp = i64(20)

	tl := Build([]matchevent.RawEvent{goal}, "home1", "away1")
	require.Len(t, tl.Entries, 1)
	require.Equal(t, matchevent.CategoryGoal, tl.Entries[0].Event.Category)
	require.Equal(t, AffiliationHome, tl.Entries[0].Affiliation)

	lines := BuildScorerLines(tl)
	require.Equal(t, []string{"Smith 45'"}, lines.Home)
	require.Empty(t, lines.Away)
}

func TestBuild_Affiliation(t *testing.T) {
	t.Parallel()

	tl := Build([]matchevent.RawEvent{
		raw("corner", "home1", 1, 60),
		raw("corner", "away1", 2, 60),
		raw("corner", "other", 3, 60),
		raw("end phase", "", 4, 2820),
	}, "home1", "away1")

	got := make([]Affiliation, 0, len(tl.Entries))
	for _, entry := range tl.Entries {
		got = append(got, entry.Affiliation)
	}
	require.Equal(t, []Affiliation{AffiliationHome, AffiliationAway, AffiliationNeutral, AffiliationNeutral}, got)
}

func TestBuild_OrdersByClipStartStable(t *testing.T) {
	t.Parallel()

	first := raw("shot", "home1", 50, 100)
	first.Player = str("first")
	second := raw("shot", "home1", 50, 90)
	second.Player = str("second")

	tl := Build([]matchevent.RawEvent{
		raw("goal", "home1", 300, 10),
		first,
		raw("corner", "away1", 20, 500),
		second,
	}, "home1", "away1")

	require.Len(t, tl.Entries, 4)
	for i := 1; i < len(tl.Entries); i++ {
		require.LessOrEqual(t, tl.Entries[i-1].Event.Clip.FromTimestamp, tl.Entries[i].Event.Clip.FromTimestamp)
	}
	require.Equal(t, "first", tl.Entries[1].Event.Generic.Player)
	require.Equal(t, "second", tl.Entries[2].Event.Generic.Player)
}

func TestBuild_DropsEventsWithoutClip(t *testing.T) {
	t.Parallel()

	missing := raw("goal", "home1", 10, 600)
	missing.Clip.VideoAssetID = nil

	tl := Build([]matchevent.RawEvent{missing, raw("yellow card", "away1", 20, 700)}, "home1", "away1")
	require.Len(t, tl.Entries, 1)
	for _, filter := range []Filter{FilterAll, FilterGoals, FilterCards, FilterSetPieces} {
		for _, entry := range FilterByCategory(tl, filter).Entries {
			require.NotEqual(t, matchevent.CategoryGoal, entry.Event.Category)
		}
	}
	require.Empty(t, TopEvents(tl).Entries)
}

func TestFilterByCategory_Cards(t *testing.T) {
	t.Parallel()

	tl := Build([]matchevent.RawEvent{
		raw("yellow card", "home1", 10, 100),
		raw("goal", "home1", 20, 200),
		raw("red card", "away1", 30, 300),
	}, "home1", "away1")

	cards := FilterByCategory(tl, FilterCards)
	require.Len(t, cards.Entries, 2)
	require.Equal(t, matchevent.CardYellow, cards.Entries[0].Event.Card.Kind)
	require.Equal(t, matchevent.CardRed, cards.Entries[1].Event.Card.Kind)
}

func TestFilterByCategory_SetPieces(t *testing.T) {
	t.Parallel()

	tl := Build([]matchevent.RawEvent{
		raw("Corner", "home1", 10, 100),
		raw("penalty kick", "home1", 20, 200),
		raw("direct free kick", "away1", 30, 300),
		raw("shot", "away1", 40, 400),
		raw("goal", "away1", 50, 500),
	}, "home1", "away1")

	setPieces := FilterByCategory(tl, FilterSetPieces)
	require.Len(t, setPieces.Entries, 3)

	all := FilterByCategory(tl, FilterAll)
	require.Len(t, all.Entries, 5)
}

func TestBuildScorerLines_OwnGoalAndNeutral(t *testing.T) {
	t.Parallel()

	og := raw("goal", "away1", 10, 1830)
	og.Scorer = str("Berg")
	og.ShotType = str("own goal")
	neutral := raw("goal", "", 20, 2000)
	neutral.Scorer = str("Ghost")
	unknown := raw("goal", "home1", 30, 4000)

	lines := BuildScorerLines(Build([]matchevent.RawEvent{og, neutral, unknown}, "home1", "away1"))
	require.Equal(t, []string{"Berg (OG) 30'"}, lines.Away)
	require.Equal(t, []string{"Unknown 66'"}, lines.Home)
}

func TestTopEvents_GoalsAndOnTargetShotsByGameTime(t *testing.T) {
	t.Parallel()

	onTarget := raw("shot", "home1", 10, 900)
	onTarget.OnTarget = str("true")
	offTarget := raw("shot", "home1", 20, 100)
	offTarget.OnTarget = str("false")
	compound := raw("shot blocked", "home1", 30, 50)
	compound.OnTarget = str("true")
	goal := raw("goal", "away1", 40, 300)

	top := TopEvents(Build([]matchevent.RawEvent{onTarget, offTarget, compound, goal}, "home1", "away1"))
	require.Len(t, top.Entries, 2)
	require.Equal(t, matchevent.CategoryGoal, top.Entries[0].Event.Category)
	require.Equal(t, 900, top.Entries[1].Event.GameTimeSeconds)
}

func TestMarkerLabel(t *testing.T) {
	t.Parallel()

	tl := Build([]matchevent.RawEvent{
		raw("end phase", "", 10, 47*60+12),
		raw("end of game", "", 20, 94*60),
		raw("end of game", "", 30, 88*60),
	}, "home1", "away1")

	require.Equal(t, "Half Time 45 + 2'", MarkerLabel(tl.Entries[0].Event))
	require.Equal(t, "Full Time 90 + 4'", MarkerLabel(tl.Entries[1].Event))
	require.Equal(t, "Full Time 90 + 0'", MarkerLabel(tl.Entries[2].Event))
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Filter{"": FilterAll, "Goals": FilterGoals, "cards": FilterCards, " setpieces ": FilterSetPieces} {
		got, ok := ParseFilter(input)
		require.True(t, ok, input)
		require.Equal(t, want, got)
	}
	_, ok := ParseFilter("fouls")
	require.False(t, ok)
}
