package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchreel/internal/domain/lineup"
	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/riskibarqy/matchreel/internal/platform/id"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
	"github.com/riskibarqy/matchreel/internal/usecase"
	"github.com/stretchr/testify/require"
)

type fakeSheets struct {
	rows [][]string
	err  error
}

func (f *fakeSheets) FetchRows(context.Context) ([][]string, error) {
	return f.rows, f.err
}

type fakeProvider struct {
	details map[string]usecase.MatchDetail
	events  map[string][]matchevent.RawEvent
}

func (f *fakeProvider) FetchMatchDetail(_ context.Context, gameID string) (usecase.MatchDetail, error) {
	detail, ok := f.details[gameID]
	if !ok {
		return usecase.MatchDetail{}, errors.New("no such game")
	}
	return detail, nil
}

func (f *fakeProvider) FetchMatchEvents(_ context.Context, gameID string) ([]matchevent.RawEvent, error) {
	events, ok := f.events[gameID]
	if !ok {
		return nil, errors.New("no events")
	}
	return events, nil
}

func (f *fakeProvider) FetchLineup(_ context.Context, gameID string) (usecase.ExternalLineup, error) {
	if _, ok := f.details[gameID]; !ok {
		return usecase.ExternalLineup{}, errors.New("no lineup")
	}
	players := make([]lineup.Player, 0, 14)
	for i := 1; i <= 14; i++ {
		players = append(players, lineup.Player{ID: strconv.Itoa(i), Name: "P" + strconv.Itoa(i), ShirtNumber: i})
	}
	return usecase.ExternalLineup{
		Home: usecase.ExternalTeamSheet{Team: usecase.TeamRef{ID: "h", Name: "AIK"}, Players: players},
		Away: usecase.ExternalTeamSheet{Team: usecase.TeamRef{ID: "a", Name: "MFF"}, Players: players[:11]},
	}, nil
}

func (f *fakeProvider) ClipURI(clip matchevent.Clip) string {
	return fmt.Sprintf("https://video.test/%d:%d:%d/Manifest.m3u8", clip.VideoAssetID, clip.FromTimestamp, clip.ToTimestamp)
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func newTestRouter(t *testing.T, sheets *fakeSheets) http.Handler {
	t.Helper()

	goal := matchevent.RawEvent{
		Action:          strPtr("Goal"),
		TeamID:          strPtr("h"),
		Scorer:          strPtr("Guidetti"),
		GameTimeSeconds: intPtr(1500),
		Clip:            &matchevent.RawClip{VideoAssetID: int64Ptr(9), FromTimestamp: int64Ptr(100), ToTimestamp: int64Ptr(200)},
	}
	card := matchevent.RawEvent{
		Action:          strPtr("Yellow Card"),
		TeamID:          strPtr("a"),
		Player:          strPtr("Rieks"),
		GameTimeSeconds: intPtr(600),
		Clip:            &matchevent.RawClip{VideoAssetID: int64Ptr(9), FromTimestamp: int64Ptr(50), ToTimestamp: int64Ptr(60)},
	}
	provider := &fakeProvider{
		details: map[string]usecase.MatchDetail{
			"g1": {
				GameID:    "g1",
				HomeTeam:  usecase.TeamRef{ID: "h", Name: "IF Elfsborg Boras"},
				AwayTeam:  usecase.TeamRef{ID: "a", Name: "MFF"},
				HomeGoals: 1,
			},
		},
		events: map[string][]matchevent.RawEvent{"g1": {goal, card}},
	}

	logger := logging.NewNop()
	recorder := metrics.NewRecorder()
	handler := NewHandler(
		usecase.NewFixtureService(sheets, provider, 2, recorder, logger),
		usecase.NewTimelineService(provider, recorder, logger),
		usecase.NewLineupService(provider, recorder, logger),
		usecase.NewPlaybackService(provider),
		usecase.NewFeedService(usecase.FeedServiceConfig{SessionTTL: time.Hour}, sheets, provider, id.NewRandomGenerator("fs_"), recorder, logger),
		logger,
	)
	return NewRouter(handler, logger, recorder.Handler(), []string{"*"})
}

func sheetFixtureRows() [][]string {
	rows := [][]string{}
	for i := 0; i < 12; i++ {
		action := "Goal"
		if i%3 == 0 {
			action = "Shot"
		}
		rows = append(rows, []string{"2024", action, "ELF", "MFF", "g1", strconv.Itoa(i), "https://cdn/" + strconv.Itoa(i)})
	}
	rows = append(rows, []string{"2024", "Goal", "X", "Y", "g2", "1", "https://cdn/x"})
	return rows
}

func serve(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "expected data object, got %v", envelope)
	return data
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	rec, envelope := serve(t, newTestRouter(t, &fakeSheets{}), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", dataOf(t, envelope)["status"])
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	rec, _ := serve(t, newTestRouter(t, &fakeSheets{}), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "highlights_feed_sessions")
}

func TestRouter_ListFixturesReportsMissing(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeSheets{rows: sheetFixtureRows()})
	rec, envelope := serve(t, router, http.MethodGet, "/v1/fixtures", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	require.Equal(t, true, data["partial"])
	require.Equal(t, []any{"g2"}, data["missing"])

	fixtures := data["fixtures"].([]any)
	require.Len(t, fixtures, 1)
	first := fixtures[0].(map[string]any)
	require.Equal(t, "IF Elfsborg Boras", first["home_team"])
	require.Equal(t, "IF Elfsbor...", first["home_team_display"])
}

func TestRouter_ListFixturesTotalFailure(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeSheets{err: errors.New("quota exceeded")})
	rec, envelope := serve(t, router, http.MethodGet, "/v1/fixtures", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	errorObj := envelope["error"].(map[string]any)
	require.Equal(t, true, errorObj["retryable"])
}

func TestRouter_Timeline(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeSheets{})
	rec, envelope := serve(t, router, http.MethodGet, "/v1/matches/g1/timeline?category=goals", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataOf(t, envelope)
	require.Equal(t, "goals", data["category"])
	events := data["events"].([]any)
	require.Len(t, events, 1)
	goal := events[0].(map[string]any)
	require.Equal(t, "Guidetti", goal["scorer"])
	require.Equal(t, "home", goal["affiliation"])
	require.EqualValues(t, 25, goal["minute"])
	clip := goal["clip"].(map[string]any)
	require.Equal(t, "https://video.test/9:100:200/Manifest.m3u8", clip["manifest_uri"])
	scorers := data["scorers"].(map[string]any)
	require.Equal(t, []any{"Guidetti 25'"}, scorers["home"])

	rec, _ = serve(t, router, http.MethodGet, "/v1/matches/g1/timeline?category=offsides", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(t, router, http.MethodGet, "/v1/matches/nope/timeline", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_TopEventsAndLineup(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeSheets{})
	rec, envelope := serve(t, router, http.MethodGet, "/v1/matches/g1/top-events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, dataOf(t, envelope)["events"].([]any), 1)

	rec, envelope = serve(t, router, http.MethodGet, "/v1/matches/g1/lineup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	home := dataOf(t, envelope)["home"].(map[string]any)
	require.Len(t, home["starters"].([]any), 11)
	require.Len(t, home["substitutes"].([]any), 3)
}

func TestRouter_Playback(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeSheets{})
	rec, envelope := serve(t, router, http.MethodGet, "/v1/clips/playback?asset_id=5&from=10&to=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://video.test/5:10:20/Manifest.m3u8", dataOf(t, envelope)["manifest_uri"])

	for _, query := range []string{"asset_id=x&from=1&to=2", "asset_id=5&from=20&to=10", "asset_id=0&from=1&to=2"} {
		rec, _ = serve(t, router, http.MethodGet, "/v1/clips/playback?"+query, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestRouter_FeedSessionFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &fakeSheets{rows: sheetFixtureRows()})

	rec, envelope := serve(t, router, http.MethodGet, "/v1/feed/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, envelope["data"].([]any), 5)

	rec, envelope = serve(t, router, http.MethodPost, "/v1/feed/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := dataOf(t, envelope)
	sessionID := session["session_id"].(string)
	require.NotEmpty(t, sessionID)
	require.Len(t, session["items"].([]any), 10)
	require.Equal(t, true, session["has_more"])
	require.Equal(t, true, session["partial"])
	require.Equal(t, true, session["items"].([]any)[0].(map[string]any)["active"])

	base := "/v1/feed/sessions/" + sessionID
	rec, envelope = serve(t, router, http.MethodPost, base+"/more", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, dataOf(t, envelope)["items"].([]any), 13)
	require.Equal(t, false, dataOf(t, envelope)["has_more"])

	rec, envelope = serve(t, router, http.MethodPut, base+"/category", `{"category_id":"4"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 4, dataOf(t, envelope)["total_candidates"])

	rec, _ = serve(t, router, http.MethodPut, base+"/category", `{"category_id":"42"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = serve(t, router, http.MethodPut, base+"/category", `{"category":"2"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, envelope = serve(t, router, http.MethodPut, base+"/active", `{"index":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 2, dataOf(t, envelope)["active_index"])
	rec, _ = serve(t, router, http.MethodPut, base+"/active", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = serve(t, router, http.MethodPut, base+"/active", `{"index":50}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, envelope = serve(t, router, http.MethodPost, base+"/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 2, dataOf(t, envelope)["generation"])

	rec, _ = serve(t, router, http.MethodDelete, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = serve(t, router, http.MethodGet, base, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
