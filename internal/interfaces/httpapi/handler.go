package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchreel/internal/platform/logging"
	"github.com/riskibarqy/matchreel/internal/usecase"
)

type Handler struct {
	fixtureService  *usecase.FixtureService
	timelineService *usecase.TimelineService
	lineupService   *usecase.LineupService
	playbackService *usecase.PlaybackService
	feedService     *usecase.FeedService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	fixtureService *usecase.FixtureService,
	timelineService *usecase.TimelineService,
	lineupService *usecase.LineupService,
	playbackService *usecase.PlaybackService,
	feedService *usecase.FeedService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixtureService:  fixtureService,
		timelineService: timelineService,
		lineupService:   lineupService,
		playbackService: playbackService,
		feedService:     feedService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
