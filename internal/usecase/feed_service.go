package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchreel/internal/domain/feed"
	"github.com/riskibarqy/matchreel/internal/domain/fixture"
	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/riskibarqy/matchreel/internal/platform/cache"
	"github.com/riskibarqy/matchreel/internal/platform/id"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/platform/metrics"
)

const (
	FeedSourceSheet  = "sheet"
	FeedSourceEvents = "events"
)

const (
	sheetColSeason = iota
	sheetColEvent
	sheetColTeam1
	sheetColTeam2
	sheetColGameID
	sheetColAssetID
	sheetColURI
	sheetRowWidth
)

var errStaleReload = errors.New("reload superseded")

// FeedSession is one client's feed. Generation increases on every reload so a slow
// reload cannot overwrite a newer one.
type FeedSession struct {
	ID         string
	State      feed.State
	Generation uint64
	Partial    bool
	Missing    []string
	Duplicates []string
	LoadedAt   time.Time
}

type FeedServiceConfig struct {
	Source      string
	Concurrency int
	SessionTTL  time.Duration
}

type FeedService struct {
	sheets      SheetSource
	provider    MatchProvider
	source      string
	concurrency int
	sessions    *cache.Store[FeedSession]
	ids         id.Generator
	metrics     *metrics.Recorder
	logger      *logging.Logger
	newRand     func() *rand.Rand
	now         func() time.Time
}

func NewFeedService(
	cfg FeedServiceConfig,
	sheets SheetSource,
	provider MatchProvider,
	ids id.Generator,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) *FeedService {
	if logger == nil {
		logger = logging.Default()
	}
	source := cfg.Source
	if source != FeedSourceEvents {
		source = FeedSourceSheet
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = defaultFetchConcurrency
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &FeedService{
		sheets:      sheets,
		provider:    provider,
		source:      source,
		concurrency: concurrency,
		sessions:    cache.NewStore[FeedSession](ttl),
		ids:         ids,
		metrics:     recorder,
		logger:      logger.Named("feed"),
		now:         time.Now,
	}
}

func (s *FeedService) Categories() []feed.Category {
	return feed.Categories()
}

// CreateSession loads the feed, shuffles it once and stores it under a new session id.
func (s *FeedService) CreateSession(ctx context.Context) (FeedSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.CreateSession")
	defer span.End()

	loaded, err := s.load(ctx)
	if err != nil {
		return FeedSession{}, err
	}

	sessionID, err := s.ids.NewID()
	if err != nil {
		return FeedSession{}, fmt.Errorf("generate session id: %w", err)
	}

	session := FeedSession{
		ID:         sessionID,
		State:      feed.NewState(loaded.items, s.rng()),
		Generation: 1,
		Partial:    len(loaded.missing) > 0,
		Missing:    loaded.missing,
		Duplicates: loaded.duplicates,
		LoadedAt:   s.now().UTC(),
	}
	s.sessions.Set(ctx, sessionID, session)
	s.metrics.SetFeedSessions(s.sessions.Len())

	s.logger.InfoContext(ctx, "feed session created",
		"session_id", sessionID,
		"items", len(loaded.items),
		"missing", len(loaded.missing),
	)
	return session, nil
}

func (s *FeedService) GetSession(ctx context.Context, sessionID string) (FeedSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.GetSession")
	defer span.End()

	session, ok := s.sessions.Get(ctx, strings.TrimSpace(sessionID))
	if !ok {
		return FeedSession{}, fmt.Errorf("%w: feed session %q", ErrNotFound, sessionID)
	}
	return session, nil
}

func (s *FeedService) SetCategory(ctx context.Context, sessionID, categoryID string) (FeedSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.SetCategory")
	defer span.End()

	return s.mutate(ctx, sessionID, func(session FeedSession) (FeedSession, error) {
		state, err := feed.ApplyFilter(session.State, strings.TrimSpace(categoryID))
		if err != nil {
			return session, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		session.State = state
		return session, nil
	})
}

func (s *FeedService) LoadMore(ctx context.Context, sessionID string) (FeedSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.LoadMore")
	defer span.End()

	return s.mutate(ctx, sessionID, func(session FeedSession) (FeedSession, error) {
		session.State = feed.LoadMore(session.State)
		return session, nil
	})
}

func (s *FeedService) SetActive(ctx context.Context, sessionID string, index int) (FeedSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.SetActive")
	defer span.End()

	return s.mutate(ctx, sessionID, func(session FeedSession) (FeedSession, error) {
		state, err := feed.SetActive(session.State, index)
		if err != nil {
			return session, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		session.State = state
		return session, nil
	})
}

// Reload re-runs the whole load for an existing session. The result is applied only if the
// session still exists and no later reload started meanwhile; otherwise it is discarded.
func (s *FeedService) Reload(ctx context.Context, sessionID string) (FeedSession, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Reload")
	defer span.End()

	started, err := s.mutate(ctx, sessionID, func(session FeedSession) (FeedSession, error) {
		session.Generation++
		return session, nil
	})
	if err != nil {
		return FeedSession{}, err
	}

	loaded, err := s.load(ctx)
	if err != nil {
		return started, err
	}
	state := feed.NewState(loaded.items, s.rng())

	current, found, err := s.sessions.Update(ctx, started.ID, func(session FeedSession) (FeedSession, error) {
		if session.Generation != started.Generation {
			return session, errStaleReload
		}
		session.State = state
		session.Partial = len(loaded.missing) > 0
		session.Missing = loaded.missing
		session.Duplicates = loaded.duplicates
		session.LoadedAt = s.now().UTC()
		return session, nil
	})
	switch {
	case !found:
		s.logger.InfoContext(ctx, "discard reload: session is gone", "session_id", started.ID)
		return FeedSession{}, fmt.Errorf("%w: feed session %q", ErrNotFound, started.ID)
	case errors.Is(err, errStaleReload):
		s.logger.InfoContext(ctx, "discard reload: superseded by a newer reload",
			"session_id", started.ID,
			"generation", started.Generation,
			"current_generation", current.Generation,
		)
		return current, nil
	case err != nil:
		return FeedSession{}, err
	}
	return current, nil
}

func (s *FeedService) DeleteSession(ctx context.Context, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.DeleteSession")
	defer span.End()

	if !s.sessions.Delete(ctx, strings.TrimSpace(sessionID)) {
		return fmt.Errorf("%w: feed session %q", ErrNotFound, sessionID)
	}
	s.metrics.SetFeedSessions(s.sessions.Len())
	return nil
}

func (s *FeedService) mutate(ctx context.Context, sessionID string, fn func(FeedSession) (FeedSession, error)) (FeedSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return FeedSession{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	session, found, err := s.sessions.Update(ctx, sessionID, fn)
	if !found {
		return FeedSession{}, fmt.Errorf("%w: feed session %q", ErrNotFound, sessionID)
	}
	if err != nil {
		return FeedSession{}, err
	}
	return session, nil
}

func (s *FeedService) rng() *rand.Rand {
	if s.newRand == nil {
		return nil
	}
	return s.newRand()
}

type feedLoad struct {
	items      []feed.Item
	missing    []string
	duplicates []string
}

func (s *FeedService) load(ctx context.Context) (feedLoad, error) {
	rows, err := s.sheets.FetchRows(ctx)
	if err != nil {
		s.metrics.UpstreamFailure("sheets", "rows")
		s.logger.WarnContext(ctx, "feed load failed: sheet rows unavailable", "error", err)
		return feedLoad{}, fmt.Errorf("%w: fetch feed rows: %v", ErrTotalLoadFailure, err)
	}

	var (
		sets    [][]feed.SourceClip
		missing []string
	)
	if s.source == FeedSourceEvents {
		sets, missing, err = s.clipsFromEvents(ctx, rows)
	} else {
		sets, missing, err = s.clipsFromSheet(ctx, rows)
	}
	if err != nil {
		return feedLoad{}, err
	}

	items := feed.Compose(sets)
	duplicates := feed.DuplicateIDs(items)
	if len(duplicates) > 0 {
		s.metrics.DuplicateFeedIDs(len(duplicates))
		s.logger.WarnContext(ctx, "duplicate feed item ids", "count", len(duplicates), "ids", duplicates)
	}
	if len(missing) > 0 {
		s.metrics.FixturesMissing(len(missing))
	}

	return feedLoad{items: items, missing: missing, duplicates: duplicates}, nil
}

type sheetGroup struct {
	gameID string
	rows   [][]string
}

// clipsFromSheet uses the spreadsheet rows as clips, grouped per game in first-seen order.
// Match detail only decorates labels; on failure the sheet's team names are used and the
// game is reported missing.
func (s *FeedService) clipsFromSheet(ctx context.Context, rows [][]string) ([][]feed.SourceClip, []string, error) {
	groups := make([]sheetGroup, 0)
	index := make(map[string]int)
	for _, row := range rows {
		if len(row) < sheetRowWidth {
			continue
		}
		gameID := strings.TrimSpace(row[sheetColGameID])
		if gameID == "" || strings.TrimSpace(row[sheetColURI]) == "" {
			continue
		}
		pos, ok := index[gameID]
		if !ok {
			pos = len(groups)
			index[gameID] = pos
			groups = append(groups, sheetGroup{gameID: gameID})
		}
		groups[pos].rows = append(groups[pos].rows, row)
	}

	gameIDs := make([]string, 0, len(groups))
	for _, group := range groups {
		gameIDs = append(gameIDs, group.gameID)
	}
	details, err := fanOut(ctx, s.concurrency, gameIDs, s.provider.FetchMatchDetail)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve feed matches: %w", err)
	}

	missing := []string{}
	sets := make([][]feed.SourceClip, 0, len(groups))
	for i, group := range groups {
		result := details[i]
		if result.err != nil {
			s.metrics.UpstreamFailure("provider", "match_detail")
			s.logger.WarnContext(ctx, "feed match detail failed, using sheet labels", "game_id", group.gameID, "error", result.err)
			missing = append(missing, group.gameID)
		}

		set := make([]feed.SourceClip, 0, len(group.rows))
		for _, row := range group.rows {
			clip := feed.SourceClip{
				GameID:        group.gameID,
				SourceEventID: strings.TrimSpace(row[sheetColAssetID]),
				Season:        strings.TrimSpace(row[sheetColSeason]),
				Action:        strings.TrimSpace(row[sheetColEvent]),
				VideoURI:      strings.TrimSpace(row[sheetColURI]),
				MatchLabel:    matchLabel(strings.TrimSpace(row[sheetColTeam1]), strings.TrimSpace(row[sheetColTeam2])),
				TeamLabel:     strings.TrimSpace(row[sheetColTeam1]),
			}
			if result.err == nil {
				clip.MatchLabel = matchLabel(result.value.HomeTeam.Name, result.value.AwayTeam.Name)
				clip.Score = scoreLabel(result.value.HomeGoals, result.value.AwayGoals)
			}
			set = append(set, clip)
		}
		sets = append(sets, set)
	}
	return sets, missing, nil
}

type eventClips struct {
	clips []feed.SourceClip
}

// clipsFromEvents builds clips from each listed game's classified events. A game whose
// events cannot be fetched contributes nothing and is reported missing.
func (s *FeedService) clipsFromEvents(ctx context.Context, rows [][]string) ([][]feed.SourceClip, []string, error) {
	gameIDs := fixture.GameIDs(rows)
	results, err := fanOut(ctx, s.concurrency, gameIDs, func(ctx context.Context, gameID string) (eventClips, error) {
		events, err := s.provider.FetchMatchEvents(ctx, gameID)
		if err != nil {
			return eventClips{}, err
		}

		label := "Match " + gameID
		if detail, detailErr := s.provider.FetchMatchDetail(ctx, gameID); detailErr == nil {
			label = matchLabel(detail.HomeTeam.Name, detail.AwayTeam.Name)
		} else {
			s.logger.DebugContext(ctx, "feed match detail failed, using generic label", "game_id", gameID, "error", detailErr)
		}
		return eventClips{clips: s.eventsToClips(gameID, label, events)}, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolve feed events: %w", err)
	}

	missing := []string{}
	sets := make([][]feed.SourceClip, 0, len(results))
	for _, result := range results {
		if result.err != nil {
			s.metrics.UpstreamFailure("provider", "events")
			s.logger.WarnContext(ctx, "omit feed match: events unavailable", "game_id", result.key, "error", result.err)
			missing = append(missing, result.key)
			continue
		}
		sets = append(sets, result.value.clips)
	}
	return sets, missing, nil
}

func (s *FeedService) eventsToClips(gameID, label string, raws []matchevent.RawEvent) []feed.SourceClip {
	clips := make([]feed.SourceClip, 0, len(raws))
	for _, raw := range raws {
		event, ok := matchevent.Classify(raw)
		if !ok || event.Category == matchevent.CategoryNeutralMarker {
			continue
		}

		sourceID := strconv.FormatInt(event.Clip.VideoAssetID, 10)
		if raw.EventID != nil && strings.TrimSpace(*raw.EventID) != "" {
			sourceID = strings.TrimSpace(*raw.EventID)
		}
		teamLabel := ""
		if raw.TeamName != nil {
			teamLabel = strings.TrimSpace(*raw.TeamName)
		}

		clips = append(clips, feed.SourceClip{
			GameID:        gameID,
			SourceEventID: sourceID,
			Action:        strings.ToLower(event.Action),
			VideoURI:      s.provider.ClipURI(event.Clip),
			MatchLabel:    label,
			TeamLabel:     teamLabel,
			Score:         event.Score,
		})
	}
	return clips
}

func matchLabel(home, away string) string {
	switch {
	case home == "" && away == "":
		return ""
	case away == "":
		return home
	case home == "":
		return away
	default:
		return home + " vs " + away
	}
}

func scoreLabel(home, away int) string {
	return strconv.Itoa(home) + "-" + strconv.Itoa(away)
}
