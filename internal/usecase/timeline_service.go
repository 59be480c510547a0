package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/riskibarqy/matchreel/internal/domain/timeline"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
)

type MatchTimeline struct {
	Detail   MatchDetail
	Filter   timeline.Filter
	Timeline timeline.Timeline
	Scorers  timeline.ScorerLines
}

type TimelineService struct {
	provider MatchProvider
	metrics  *metrics.Recorder
	logger   *logging.Logger
}

func NewTimelineService(provider MatchProvider, recorder *metrics.Recorder, logger *logging.Logger) *TimelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TimelineService{
		provider: provider,
		metrics:  recorder,
		logger:   logger,
	}
}

// Get builds the filtered timeline of a match. Scorer lines always cover the whole match.
func (s *TimelineService) Get(ctx context.Context, gameID, filter string) (MatchTimeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.Get")
	defer span.End()

	parsed, ok := timeline.ParseFilter(filter)
	if !ok {
		return MatchTimeline{}, fmt.Errorf("%w: unknown timeline category %q", ErrInvalidInput, filter)
	}

	detail, full, err := s.load(ctx, gameID)
	if err != nil {
		return MatchTimeline{}, err
	}

	return MatchTimeline{
		Detail:   detail,
		Filter:   parsed,
		Timeline: timeline.FilterByCategory(full, parsed),
		Scorers:  timeline.BuildScorerLines(full),
	}, nil
}

// TopEvents returns goals and on-target shots ordered by game time.
func (s *TimelineService) TopEvents(ctx context.Context, gameID string) (MatchTimeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.TopEvents")
	defer span.End()

	detail, full, err := s.load(ctx, gameID)
	if err != nil {
		return MatchTimeline{}, err
	}

	return MatchTimeline{
		Detail:   detail,
		Filter:   timeline.FilterAll,
		Timeline: timeline.TopEvents(full),
		Scorers:  timeline.BuildScorerLines(full),
	}, nil
}

// load fetches the match header and its events together; both are required.
func (s *TimelineService) load(ctx context.Context, gameID string) (MatchDetail, timeline.Timeline, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return MatchDetail{}, timeline.Timeline{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	var (
		detail MatchDetail
		events []matchevent.RawEvent
	)
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		detail, err = s.provider.FetchMatchDetail(ctx, gameID)
		if err != nil {
			s.metrics.UpstreamFailure("provider", "match_detail")
			return fmt.Errorf("fetch match detail: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		events, err = s.provider.FetchMatchEvents(ctx, gameID)
		if err != nil {
			s.metrics.UpstreamFailure("provider", "events")
			return fmt.Errorf("fetch match events: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "load match timeline failed", "game_id", gameID, "error", err)
		return MatchDetail{}, timeline.Timeline{}, fmt.Errorf("%w: match %s: %v", ErrDependencyUnavailable, gameID, err)
	}

	return detail, timeline.Build(alignTeamIDs(events, detail), detail.HomeTeam.ID, detail.AwayTeam.ID), nil
}

// alignTeamIDs fills in the team id of events that carry only a team name matching one side.
func alignTeamIDs(events []matchevent.RawEvent, detail MatchDetail) []matchevent.RawEvent {
	out := make([]matchevent.RawEvent, len(events))
	for i, raw := range events {
		out[i] = raw
		if raw.TeamID != nil && strings.TrimSpace(*raw.TeamID) != "" {
			continue
		}
		if raw.TeamName == nil {
			continue
		}
		name := strings.TrimSpace(*raw.TeamName)
		switch {
		case name == "":
		case strings.EqualFold(name, detail.HomeTeam.Name):
			id := detail.HomeTeam.ID
			out[i].TeamID = &id
		case strings.EqualFold(name, detail.AwayTeam.Name):
			id := detail.AwayTeam.ID
			out[i].TeamID = &id
		}
	}
	return out
}
