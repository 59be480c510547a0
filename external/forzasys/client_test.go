package forzasys

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

const gameJSON = `{
	"id": 4021,
	"home_team": {"id": 11, "name": "AIK", "short_name": "AIK", "logo_url": "https://logo/aik.png"},
	"visiting_team": {"id": "12", "name": "Malmo FF", "short_name": "MFF", "logo_url": "https://logo/mff.png"},
	"home_team_goals": 2,
	"visiting_team_goals": "1",
	"start_of_1st_half": "2024-05-01T17:00:12.500Z",
	"stadium_name": "Strawberry Arena",
	"tournament_name": "Allsvenskan"
}`

const eventsJSON = `{"events": [
	{
		"id": 9001,
		"game_time": 2710,
		"score": "1-0",
		"tag": {
			"action": "goal",
			"team": {"id": 11, "value": "AIK"},
			"scorer": {"id": 7, "value": "Guidetti"},
			"assist by": {"value": "Otieno"},
			"shot type": {"value": "Header"}
		},
		"playlist": {"events": [{"video_asset_id": 555, "from_timestamp": 1000, "to_timestamp": 26000}]}
	},
	{
		"game_time": "600",
		"tag": {"action": "shot", "on target": {"value": "yes"}, "team": {"value": "Malmo FF"}},
		"playlist": {"events": []}
	},
	{
		"tag": {"action": {"unexpected": true}},
		"playlist": {"events": [{"video_asset_id": "556", "from_timestamp": null, "to_timestamp": 9}]}
	}
]}`

const playersJSON = `{
	"home_team": {"name": "AIK", "players": [{"id": 1, "name": "Keeper", "shirt_number": 1}, {"id": 2, "name": "Back", "shirt_number": "4"}]},
	"visiting_team": {"id": 12, "name": "Malmo FF", "players": []}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /allsvenskan/game/4021", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(gameJSON))
	})
	mux.HandleFunc("GET /allsvenskan/game/4021/events", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("count"); got != "250" {
			t.Errorf("unexpected count %q", got)
		}
		_, _ = w.Write([]byte(eventsJSON))
	})
	mux.HandleFunc("GET /allsvenskan/game/4021/players", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(playersJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{BaseURL: baseURL, EventsCount: 250, Logger: logging.NewNop()})
}

func TestClient_FetchMatchDetail(t *testing.T) {
	t.Parallel()

	client := newTestClient(newTestServer(t).URL)
	detail, err := client.FetchMatchDetail(context.Background(), "4021")
	require.NoError(t, err)

	require.Equal(t, "11", detail.HomeTeam.ID)
	require.Equal(t, "12", detail.AwayTeam.ID)
	require.Equal(t, "Malmo FF", detail.AwayTeam.Name)
	require.Equal(t, "MFF", detail.AwayTeam.ShortName)
	require.Equal(t, "https://logo/aik.png", detail.HomeTeam.LogoURI)
	require.Equal(t, 2, detail.HomeGoals)
	require.Equal(t, 1, detail.AwayGoals)
	require.Equal(t, "Strawberry Arena", detail.Stadium)
	require.NotNil(t, detail.KickoffTime)
	require.Equal(t, time.Date(2024, 5, 1, 17, 0, 12, 500_000_000, time.UTC), *detail.KickoffTime)
}

func TestClient_FetchMatchEvents(t *testing.T) {
	t.Parallel()

	client := newTestClient(newTestServer(t).URL)
	events, err := client.FetchMatchEvents(context.Background(), "4021")
	require.NoError(t, err)
	require.Len(t, events, 3)

	goal := events[0]
	require.Equal(t, "9001", *goal.EventID)
	require.Equal(t, "goal", *goal.Action)
	require.Equal(t, "11", *goal.TeamID)
	require.Equal(t, "Guidetti", *goal.Scorer)
	require.Equal(t, "Otieno", *goal.AssistBy)
	require.Equal(t, 2710, *goal.GameTimeSeconds)
	require.Equal(t, int64(555), *goal.Clip.VideoAssetID)
	require.Equal(t, int64(26000), *goal.Clip.ToTimestamp)

	classified, ok := matchevent.Classify(goal)
	require.True(t, ok)
	require.Equal(t, matchevent.CategoryGoal, classified.Category)

	shot := events[1]
	require.Nil(t, shot.EventID)
	require.Nil(t, shot.TeamID)
	require.Equal(t, "Malmo FF", *shot.TeamName)
	require.Equal(t, 600, *shot.GameTimeSeconds)
	require.Nil(t, shot.Clip)

	broken := events[2]
	require.Nil(t, broken.Action)
	require.Nil(t, broken.Clip.FromTimestamp)
	require.Equal(t, int64(556), *broken.Clip.VideoAssetID)
	_, ok = matchevent.Classify(broken)
	require.False(t, ok)
}

func TestClient_FetchLineup(t *testing.T) {
	t.Parallel()

	client := newTestClient(newTestServer(t).URL)
	sheet, err := client.FetchLineup(context.Background(), "4021")
	require.NoError(t, err)

	require.Equal(t, "AIK", sheet.Home.Team.ID)
	require.Len(t, sheet.Home.Players, 2)
	require.Equal(t, 4, sheet.Home.Players[1].ShirtNumber)
	require.Equal(t, "12", sheet.Away.Team.ID)
	require.Empty(t, sheet.Away.Players)
}

func TestClient_FetchMatchDetailUpstreamError(t *testing.T) {
	t.Parallel()

	client := newTestClient(newTestServer(t).URL)
	_, err := client.FetchMatchDetail(context.Background(), "9999")
	require.Error(t, err)
	require.Contains(t, err.Error(), "game_id=9999")

	_, err = client.FetchMatchDetail(context.Background(), " ")
	require.Error(t, err)
}

func TestClient_ClipURI(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "https://api.forzasys.com/", League: "/allsvenskan/"})
	got := client.ClipURI(matchevent.Clip{VideoAssetID: 555, FromTimestamp: 1000, ToTimestamp: 26000})
	require.Equal(t, "https://api.forzasys.com/allsvenskan/playlist.m3u8/555:1000:26000/Manifest.m3u8", got)
}
