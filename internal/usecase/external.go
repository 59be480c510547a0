package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/matchreel/internal/domain/lineup"
	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
)

// SheetSource returns the rows of the highlights spreadsheet export.
// Rows are [season, event, team1, team2, gameId, assetId, uri]; any row may be short.
type SheetSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// MatchProvider is the sports-data provider.
type MatchProvider interface {
	FetchMatchDetail(ctx context.Context, gameID string) (MatchDetail, error)
	FetchMatchEvents(ctx context.Context, gameID string) ([]matchevent.RawEvent, error)
	FetchLineup(ctx context.Context, gameID string) (ExternalLineup, error)
	ClipURI(clip matchevent.Clip) string
}

type TeamRef struct {
	ID        string
	Name      string
	ShortName string
	LogoURI   string
}

type MatchDetail struct {
	GameID      string
	HomeTeam    TeamRef
	AwayTeam    TeamRef
	HomeGoals   int
	AwayGoals   int
	KickoffTime *time.Time
	Stadium     string
	Tournament  string
}

type ExternalTeamSheet struct {
	Team    TeamRef
	Players []lineup.Player
}

type ExternalLineup struct {
	Home ExternalTeamSheet
	Away ExternalTeamSheet
}
