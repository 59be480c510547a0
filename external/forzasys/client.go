package forzasys

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchreel/internal/domain/lineup"
	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
	"github.com/riskibarqy/matchreel/internal/platform/resilience"
	"github.com/riskibarqy/matchreel/internal/platform/upstream"
	"github.com/riskibarqy/matchreel/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL     = "https://api.forzasys.com"
	defaultLeague      = "allsvenskan"
	defaultEventsCount = 100000
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	League         string
	EventsCount    int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.BreakerConfig
}

type Client struct {
	http        *upstream.Client
	baseURL     string
	league      string
	eventsCount int
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	league := strings.Trim(strings.TrimSpace(cfg.League), "/")
	if league == "" {
		league = defaultLeague
	}
	eventsCount := cfg.EventsCount
	if eventsCount <= 0 {
		eventsCount = defaultEventsCount
	}

	return &Client{
		http: upstream.NewClient(upstream.Config{
			Name:           "forzasys",
			HTTPClient:     cfg.HTTPClient,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         cfg.Logger,
			Metrics:        cfg.Metrics,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		baseURL:     baseURL,
		league:      league,
		eventsCount: eventsCount,
	}
}

func (c *Client) FetchMatchDetail(ctx context.Context, gameID string) (usecase.MatchDetail, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return usecase.MatchDetail{}, fmt.Errorf("game id is required")
	}

	var payload gamePayload
	if err := c.http.GetJSON(ctx, c.gameURL(gameID, ""), &payload); err != nil {
		return usecase.MatchDetail{}, fmt.Errorf("fetch match detail game_id=%s: %w", gameID, err)
	}

	kickoff := parseProviderDateTime(payload.StartOf1stHalf.String())
	if kickoff == nil {
		kickoff = parseProviderDateTime(payload.Date.String())
	}
	return usecase.MatchDetail{
		GameID:      gameID,
		HomeTeam:    mapTeam(payload.HomeTeam),
		AwayTeam:    mapTeam(payload.VisitingTeam),
		HomeGoals:   int(payload.HomeTeamGoals.Value),
		AwayGoals:   int(payload.VisitingTeamGoals.Value),
		KickoffTime: kickoff,
		Stadium:     payload.StadiumName.String(),
		Tournament:  payload.TournamentName.String(),
	}, nil
}

func (c *Client) FetchMatchEvents(ctx context.Context, gameID string) ([]matchevent.RawEvent, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}

	query := url.Values{"count": []string{strconv.Itoa(c.eventsCount)}}
	var payload eventsPayload
	if err := c.http.GetJSON(ctx, c.gameURL(gameID, "/events")+"?"+query.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("fetch match events game_id=%s: %w", gameID, err)
	}

	out := make([]matchevent.RawEvent, 0, len(payload.Events))
	for _, item := range payload.Events {
		out = append(out, mapEvent(item))
	}
	return out, nil
}

// FetchLineup returns each side's players in listed order, starters first.
func (c *Client) FetchLineup(ctx context.Context, gameID string) (usecase.ExternalLineup, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return usecase.ExternalLineup{}, fmt.Errorf("game id is required")
	}

	var payload lineupPayload
	if err := c.http.GetJSON(ctx, c.gameURL(gameID, "/players"), &payload); err != nil {
		return usecase.ExternalLineup{}, fmt.Errorf("fetch lineup game_id=%s: %w", gameID, err)
	}

	return usecase.ExternalLineup{
		Home: mapTeamSheet(payload.HomeTeam),
		Away: mapTeamSheet(payload.VisitingTeam),
	}, nil
}

// ClipURI renders the HLS manifest address of a clip window.
func (c *Client) ClipURI(clip matchevent.Clip) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_ = buf.WriteByte('/')
	_, _ = buf.WriteString(c.league)
	_, _ = buf.WriteString("/playlist.m3u8/")
	buf.B = strconv.AppendInt(buf.B, clip.VideoAssetID, 10)
	_ = buf.WriteByte(':')
	buf.B = strconv.AppendInt(buf.B, clip.FromTimestamp, 10)
	_ = buf.WriteByte(':')
	buf.B = strconv.AppendInt(buf.B, clip.ToTimestamp, 10)
	_, _ = buf.WriteString("/Manifest.m3u8")
	return buf.String()
}

func (c *Client) gameURL(gameID, suffix string) string {
	return c.baseURL + "/" + c.league + "/game/" + url.PathEscape(gameID) + suffix
}

// mapTeam falls back to the team name as identity when the provider omits the id, so
// events tagged by name still resolve to a side.
func mapTeam(source teamPayload) usecase.TeamRef {
	id := source.ID.String()
	if id == "" {
		id = source.Name.String()
	}
	return usecase.TeamRef{
		ID:        id,
		Name:      source.Name.String(),
		ShortName: source.ShortName.String(),
		LogoURI:   source.LogoURL.String(),
	}
}

func mapTeamSheet(source teamPayload) usecase.ExternalTeamSheet {
	players := make([]lineup.Player, 0, len(source.Players))
	for _, item := range source.Players {
		players = append(players, lineup.Player{
			ID:          item.ID.String(),
			Name:        item.Name.String(),
			ShirtNumber: int(item.ShirtNumber.Value),
		})
	}
	return usecase.ExternalTeamSheet{Team: mapTeam(source), Players: players}
}

func mapEvent(source eventPayload) matchevent.RawEvent {
	tag := source.Tag
	raw := matchevent.RawEvent{
		EventID:   source.ID.ptr(),
		Action:    tag.Action.ptr(),
		Scorer:    tag.Scorer.text(),
		Player:    tag.Player.text(),
		AssistBy:  tag.AssistBy.text(),
		Keeper:    tag.Keeper.text(),
		ShotType:  tag.ShotType.text(),
		OnTarget:  tag.OnTarget.text(),
		PlayerIn:  tag.PlayerIn.text(),
		PlayerOut: tag.PlayerOut.text(),
		Score:     source.Score.ptr(),
	}
	if tag.Team != nil {
		raw.TeamID = tag.Team.ID.ptr()
		raw.TeamName = tag.Team.Value.ptr()
	}
	if source.GameTime.Valid {
		seconds := int(source.GameTime.Value)
		raw.GameTimeSeconds = &seconds
	}
	if len(source.Playlist.Events) > 0 {
		first := source.Playlist.Events[0]
		raw.Clip = &matchevent.RawClip{
			VideoAssetID:  first.VideoAssetID.ptr(),
			FromTimestamp: first.FromTimestamp.ptr(),
			ToTimestamp:   first.ToTimestamp.ptr(),
		}
	}
	return raw
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
