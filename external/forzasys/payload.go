package forzasys

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// flexString decodes strings, numbers and booleans as text. Objects, arrays and null read as "".
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch {
	case text == "", text == "null":
		*s = ""
	case text[0] == '"':
		var v string
		if err := sonic.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
	case text[0] == '{', text[0] == '[':
		*s = ""
	default:
		*s = flexString(text)
	}
	return nil
}

func (s flexString) String() string {
	return string(s)
}

func (s flexString) ptr() *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}

// optInt accepts a JSON number or a numeric string. Anything else leaves it invalid.
type optInt struct {
	Value int64
	Valid bool
}

func (n *optInt) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	*n = optInt{}
	if text == "" || text == "null" {
		return nil
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		*n = optInt{Value: v, Valid: true}
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		*n = optInt{Value: int64(f), Valid: true}
	}
	return nil
}

func (n optInt) ptr() *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

type teamPayload struct {
	ID        flexString      `json:"id"`
	Name      flexString      `json:"name"`
	ShortName flexString      `json:"short_name"`
	LogoURL   flexString      `json:"logo_url"`
	Players   []playerPayload `json:"players"`
}

type playerPayload struct {
	ID          flexString `json:"id"`
	Name        flexString `json:"name"`
	ShirtNumber optInt     `json:"shirt_number"`
}

type gamePayload struct {
	ID                flexString  `json:"id"`
	HomeTeam          teamPayload `json:"home_team"`
	VisitingTeam      teamPayload `json:"visiting_team"`
	HomeTeamGoals     optInt      `json:"home_team_goals"`
	VisitingTeamGoals optInt      `json:"visiting_team_goals"`
	StartOf1stHalf    flexString  `json:"start_of_1st_half"`
	Date              flexString  `json:"date"`
	StadiumName       flexString  `json:"stadium_name"`
	TournamentName    flexString  `json:"tournament_name"`
}

type lineupPayload struct {
	HomeTeam     teamPayload `json:"home_team"`
	VisitingTeam teamPayload `json:"visiting_team"`
}

type eventsPayload struct {
	Events []eventPayload `json:"events"`
}

type eventPayload struct {
	ID       flexString      `json:"id"`
	GameTime optInt          `json:"game_time"`
	Score    flexString      `json:"score"`
	Tag      tagPayload      `json:"tag"`
	Playlist playlistPayload `json:"playlist"`
}

type tagValue struct {
	ID    flexString `json:"id"`
	Value flexString `json:"value"`
}

func (v *tagValue) text() *string {
	if v == nil {
		return nil
	}
	return v.Value.ptr()
}

type tagPayload struct {
	Action    flexString `json:"action"`
	Team      *tagValue  `json:"team"`
	Scorer    *tagValue  `json:"scorer"`
	Player    *tagValue  `json:"player"`
	AssistBy  *tagValue  `json:"assist by"`
	Keeper    *tagValue  `json:"keeper"`
	ShotType  *tagValue  `json:"shot type"`
	OnTarget  *tagValue  `json:"on target"`
	PlayerIn  *tagValue  `json:"player in"`
	PlayerOut *tagValue  `json:"player out"`
}

type playlistPayload struct {
	Events []clipPayload `json:"events"`
}

type clipPayload struct {
	VideoAssetID  optInt `json:"video_asset_id"`
	FromTimestamp optInt `json:"from_timestamp"`
	ToTimestamp   optInt `json:"to_timestamp"`
}
