package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchreel/internal/domain/fixture"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
)

const defaultFetchConcurrency = 8

// FixtureList is the resolved fixtures screen. Missing lists the game ids whose
// detail lookup failed; Partial is set whenever Missing is non-empty.
type FixtureList struct {
	Fixtures []fixture.Summary
	Partial  bool
	Missing  []string
}

type FixtureService struct {
	sheets      SheetSource
	provider    MatchProvider
	concurrency int
	metrics     *metrics.Recorder
	logger      *logging.Logger
}

func NewFixtureService(
	sheets SheetSource,
	provider MatchProvider,
	concurrency int,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency < 1 {
		concurrency = defaultFetchConcurrency
	}
	return &FixtureService{
		sheets:      sheets,
		provider:    provider,
		concurrency: concurrency,
		metrics:     recorder,
		logger:      logger,
	}
}

func (s *FixtureService) List(ctx context.Context) (FixtureList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.List")
	defer span.End()

	rows, err := s.sheets.FetchRows(ctx)
	if err != nil {
		s.metrics.UpstreamFailure("sheets", "rows")
		return FixtureList{}, fmt.Errorf("%w: fetch fixture rows: %v", ErrTotalLoadFailure, err)
	}

	gameIDs := fixture.GameIDs(rows)
	details, err := fanOut(ctx, s.concurrency, gameIDs, s.provider.FetchMatchDetail)
	if err != nil {
		return FixtureList{}, fmt.Errorf("resolve fixtures: %w", err)
	}

	out := FixtureList{
		Fixtures: make([]fixture.Summary, 0, len(details)),
		Missing:  []string{},
	}
	for _, result := range details {
		if result.err != nil {
			s.metrics.UpstreamFailure("provider", "match_detail")
			s.logger.WarnContext(ctx, "omit fixture: match detail lookup failed", "game_id", result.key, "error", result.err)
			out.Missing = append(out.Missing, result.key)
			continue
		}
		out.Fixtures = append(out.Fixtures, summaryFromDetail(result.key, result.value))
	}
	out.Partial = len(out.Missing) > 0
	s.metrics.FixturesMissing(len(out.Missing))

	return out, nil
}

func summaryFromDetail(gameID string, detail MatchDetail) fixture.Summary {
	return fixture.Summary{
		GameID:      gameID,
		HomeTeam:    detail.HomeTeam.Name,
		AwayTeam:    detail.AwayTeam.Name,
		HomeGoals:   detail.HomeGoals,
		AwayGoals:   detail.AwayGoals,
		HomeLogoURI: detail.HomeTeam.LogoURI,
		AwayLogoURI: detail.AwayTeam.LogoURI,
		KickoffTime: detail.KickoffTime,
		Stadium:     detail.Stadium,
		Tournament:  detail.Tournament,
	}
}
