package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/matchreel/internal/domain/feed"
	"github.com/riskibarqy/matchreel/internal/domain/fixture"
	"github.com/riskibarqy/matchreel/internal/domain/lineup"
	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/riskibarqy/matchreel/internal/domain/timeline"
	"github.com/riskibarqy/matchreel/internal/usecase"
)

type fixtureDTO struct {
	GameID          string     `json:"game_id"`
	HomeTeam        string     `json:"home_team"`
	AwayTeam        string     `json:"away_team"`
	HomeTeamDisplay string     `json:"home_team_display"`
	AwayTeamDisplay string     `json:"away_team_display"`
	HomeGoals       int        `json:"home_goals"`
	AwayGoals       int        `json:"away_goals"`
	HomeLogoURI     string     `json:"home_logo_uri,omitempty"`
	AwayLogoURI     string     `json:"away_logo_uri,omitempty"`
	KickoffTime     *time.Time `json:"kickoff_time,omitempty"`
	Stadium         string     `json:"stadium,omitempty"`
	Tournament      string     `json:"tournament,omitempty"`
}

type fixtureListDTO struct {
	Fixtures []fixtureDTO `json:"fixtures"`
	Partial  bool         `json:"partial"`
	Missing  []string     `json:"missing"`
}

type teamDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	LogoURI   string `json:"logo_uri,omitempty"`
}

type matchHeaderDTO struct {
	GameID      string     `json:"game_id"`
	HomeTeam    teamDTO    `json:"home_team"`
	AwayTeam    teamDTO    `json:"away_team"`
	HomeGoals   int        `json:"home_goals"`
	AwayGoals   int        `json:"away_goals"`
	KickoffTime *time.Time `json:"kickoff_time,omitempty"`
	Stadium     string     `json:"stadium,omitempty"`
	Tournament  string     `json:"tournament,omitempty"`
}

type clipDTO struct {
	VideoAssetID  int64  `json:"video_asset_id"`
	FromTimestamp int64  `json:"from_timestamp"`
	ToTimestamp   int64  `json:"to_timestamp"`
	ManifestURI   string `json:"manifest_uri,omitempty"`
}

type timelineEventDTO struct {
	Category        string  `json:"category"`
	Action          string  `json:"action"`
	Label           string  `json:"label"`
	Minute          int     `json:"minute"`
	GameTimeSeconds int     `json:"game_time_seconds"`
	Affiliation     string  `json:"affiliation"`
	TeamName        string  `json:"team_name,omitempty"`
	Score           string  `json:"score,omitempty"`
	Clip            clipDTO `json:"clip"`
	Scorer          string  `json:"scorer,omitempty"`
	Assist          string  `json:"assist,omitempty"`
	Keeper          string  `json:"keeper,omitempty"`
	ShotType        string  `json:"shot_type,omitempty"`
	OwnGoal         bool    `json:"own_goal,omitempty"`
	CardKind        string  `json:"card_kind,omitempty"`
	Player          string  `json:"player,omitempty"`
	PlayerIn        string  `json:"player_in,omitempty"`
	PlayerOut       string  `json:"player_out,omitempty"`
	OnTarget        bool    `json:"on_target,omitempty"`
}

type scorersDTO struct {
	Home []string `json:"home"`
	Away []string `json:"away"`
}

type timelineDTO struct {
	Match    matchHeaderDTO     `json:"match"`
	Category string             `json:"category"`
	Scorers  scorersDTO         `json:"scorers"`
	Events   []timelineEventDTO `json:"events"`
}

type playerDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShirtNumber int    `json:"shirt_number"`
}

type lineupSideDTO struct {
	TeamID      string      `json:"team_id"`
	TeamName    string      `json:"team_name"`
	Starters    []playerDTO `json:"starters"`
	Substitutes []playerDTO `json:"substitutes"`
}

type lineupDTO struct {
	GameID string        `json:"game_id"`
	Home   lineupSideDTO `json:"home"`
	Away   lineupSideDTO `json:"away"`
}

type playbackDTO struct {
	ManifestURI string `json:"manifest_uri"`
}

type feedCategoryDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type feedItemDTO struct {
	ID          string `json:"id"`
	VideoURI    string `json:"video_uri"`
	MatchLabel  string `json:"match_label"`
	CategoryTag string `json:"category_tag"`
	Score       string `json:"score,omitempty"`
	TeamLabel   string `json:"team_label,omitempty"`
	GameID      string `json:"game_id"`
	Season      string `json:"season,omitempty"`
	Active      bool   `json:"active"`
}

type feedSessionDTO struct {
	SessionID       string        `json:"session_id"`
	Generation      uint64        `json:"generation"`
	Category        string        `json:"category"`
	Page            int           `json:"page"`
	ActiveIndex     int           `json:"active_index"`
	HasMore         bool          `json:"has_more"`
	TotalCandidates int           `json:"total_candidates"`
	Partial         bool          `json:"partial"`
	Missing         []string      `json:"missing"`
	LoadedAt        time.Time     `json:"loaded_at"`
	Items           []feedItemDTO `json:"items"`
}

func fixtureListToDTO(list usecase.FixtureList) fixtureListDTO {
	items := make([]fixtureDTO, 0, len(list.Fixtures))
	for _, item := range list.Fixtures {
		items = append(items, fixtureToDTO(item))
	}
	missing := list.Missing
	if missing == nil {
		missing = []string{}
	}
	return fixtureListDTO{Fixtures: items, Partial: list.Partial, Missing: missing}
}

func fixtureToDTO(item fixture.Summary) fixtureDTO {
	return fixtureDTO{
		GameID:          item.GameID,
		HomeTeam:        item.HomeTeam,
		AwayTeam:        item.AwayTeam,
		HomeTeamDisplay: fixture.DisplayName(item.HomeTeam),
		AwayTeamDisplay: fixture.DisplayName(item.AwayTeam),
		HomeGoals:       item.HomeGoals,
		AwayGoals:       item.AwayGoals,
		HomeLogoURI:     item.HomeLogoURI,
		AwayLogoURI:     item.AwayLogoURI,
		KickoffTime:     item.KickoffTime,
		Stadium:         item.Stadium,
		Tournament:      item.Tournament,
	}
}

func teamToDTO(team usecase.TeamRef) teamDTO {
	return teamDTO{ID: team.ID, Name: team.Name, ShortName: team.ShortName, LogoURI: team.LogoURI}
}

func (h *Handler) timelineToDTO(ctx context.Context, item usecase.MatchTimeline) timelineDTO {
	events := make([]timelineEventDTO, 0, len(item.Timeline.Entries))
	for _, entry := range item.Timeline.Entries {
		event := timelineEntryToDTO(entry)
		if uri, err := h.playbackService.ManifestURI(ctx, entry.Event.Clip); err == nil {
			event.Clip.ManifestURI = uri
		}
		events = append(events, event)
	}

	detail := item.Detail
	return timelineDTO{
		Match: matchHeaderDTO{
			GameID:      detail.GameID,
			HomeTeam:    teamToDTO(detail.HomeTeam),
			AwayTeam:    teamToDTO(detail.AwayTeam),
			HomeGoals:   detail.HomeGoals,
			AwayGoals:   detail.AwayGoals,
			KickoffTime: detail.KickoffTime,
			Stadium:     detail.Stadium,
			Tournament:  detail.Tournament,
		},
		Category: string(item.Filter),
		Scorers:  scorersDTO{Home: item.Scorers.Home, Away: item.Scorers.Away},
		Events:   events,
	}
}

func timelineEntryToDTO(entry timeline.Entry) timelineEventDTO {
	event := entry.Event
	out := timelineEventDTO{
		Category:        string(event.Category),
		Action:          event.Action,
		Label:           timeline.MarkerLabel(event),
		Minute:          event.Minute(),
		GameTimeSeconds: event.GameTimeSeconds,
		Affiliation:     string(entry.Affiliation),
		TeamName:        entry.TeamName,
		Score:           event.Score,
		Clip: clipDTO{
			VideoAssetID:  event.Clip.VideoAssetID,
			FromTimestamp: event.Clip.FromTimestamp,
			ToTimestamp:   event.Clip.ToTimestamp,
		},
	}

	switch event.Category {
	case matchevent.CategoryGoal:
		out.Scorer = event.Goal.Scorer
		out.Assist = event.Goal.Assist
		out.Keeper = event.Goal.Keeper
		out.ShotType = event.Goal.ShotType
		out.OwnGoal = event.Goal.IsOwnGoal
	case matchevent.CategoryCard:
		out.CardKind = string(event.Card.Kind)
		out.Player = event.Card.Player
	case matchevent.CategorySubstitution:
		out.PlayerIn = event.Substitution.PlayerIn
		out.PlayerOut = event.Substitution.PlayerOut
	case matchevent.CategoryMedicalTreatment:
		out.Player = event.MedicalTreatment.Player
	case matchevent.CategoryGeneric:
		out.Player = event.Generic.Player
		out.OnTarget = event.Generic.OnTarget
	}
	return out
}

func playersToDTO(players []lineup.Player) []playerDTO {
	out := make([]playerDTO, 0, len(players))
	for _, player := range players {
		out = append(out, playerDTO{ID: player.ID, Name: player.Name, ShirtNumber: player.ShirtNumber})
	}
	return out
}

func lineupSideToDTO(side lineup.Side) lineupSideDTO {
	return lineupSideDTO{
		TeamID:      side.TeamID,
		TeamName:    side.TeamName,
		Starters:    playersToDTO(side.Starters),
		Substitutes: playersToDTO(side.Substitutes),
	}
}

func lineupToDTO(item lineup.Lineup) lineupDTO {
	return lineupDTO{
		GameID: item.GameID,
		Home:   lineupSideToDTO(item.Home),
		Away:   lineupSideToDTO(item.Away),
	}
}

// feedSessionToDTO renders the visible window only; master and candidate lists stay server-side.
func feedSessionToDTO(session usecase.FeedSession) feedSessionDTO {
	state := session.State
	items := make([]feedItemDTO, 0, len(state.Display))
	for i, item := range state.Display {
		items = append(items, feedItemDTO{
			ID:          item.ID,
			VideoURI:    item.VideoURI,
			MatchLabel:  item.MatchLabel,
			CategoryTag: item.CategoryTag,
			Score:       item.Score,
			TeamLabel:   item.TeamLabel,
			GameID:      item.GameID,
			Season:      item.Season,
			Active:      feed.IsActive(state, i),
		})
	}
	missing := session.Missing
	if missing == nil {
		missing = []string{}
	}

	return feedSessionDTO{
		SessionID:       session.ID,
		Generation:      session.Generation,
		Category:        state.Category,
		Page:            state.Page,
		ActiveIndex:     state.ActiveIndex,
		HasMore:         feed.HasMore(state),
		TotalCandidates: len(state.Candidates),
		Partial:         session.Partial,
		Missing:         missing,
		LoadedAt:        session.LoadedAt,
		Items:           items,
	}
}
