package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchreel/internal/domain/lineup"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
)

type LineupService struct {
	provider MatchProvider
	metrics  *metrics.Recorder
	logger   *logging.Logger
}

func NewLineupService(provider MatchProvider, recorder *metrics.Recorder, logger *logging.Logger) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{provider: provider, metrics: recorder, logger: logger}
}

func (s *LineupService) Get(ctx context.Context, gameID string) (lineup.Lineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Get")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return lineup.Lineup{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	sheet, err := s.provider.FetchLineup(ctx, gameID)
	if err != nil {
		s.metrics.UpstreamFailure("provider", "lineup")
		s.logger.WarnContext(ctx, "fetch lineup failed", "game_id", gameID, "error", err)
		return lineup.Lineup{}, fmt.Errorf("%w: lineup for match %s: %v", ErrDependencyUnavailable, gameID, err)
	}

	return lineup.Lineup{
		GameID: gameID,
		Home:   lineup.NewSide(sheet.Home.Team.ID, sheet.Home.Team.Name, sheet.Home.Players),
		Away:   lineup.NewSide(sheet.Away.Team.ID, sheet.Away.Team.Name, sheet.Away.Players),
	}, nil
}
