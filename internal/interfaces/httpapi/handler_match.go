package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
	"github.com/riskibarqy/matchreel/internal/usecase"
)

type playbackRequest struct {
	AssetID int64 `validate:"gt=0"`
	From    int64 `validate:"gte=0"`
	To      int64 `validate:"gtfield=From"`
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	list, err := h.fixtureService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureListToDTO(list))
}

func (h *Handler) GetMatchTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchTimeline")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	category := r.URL.Query().Get("category")
	item, err := h.timelineService.Get(ctx, gameID, category)
	if err != nil {
		h.logger.WarnContext(ctx, "get match timeline failed", "game_id", gameID, "category", category, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.timelineToDTO(ctx, item))
}

func (h *Handler) GetMatchTopEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchTopEvents")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.timelineService.TopEvents(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match top events failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.timelineToDTO(ctx, item))
}

func (h *Handler) GetMatchLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchLineup")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.lineupService.Get(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match lineup failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(item))
}

func (h *Handler) GetClipPlayback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClipPlayback")
	defer span.End()

	query := r.URL.Query()
	var req playbackRequest
	for _, field := range []struct {
		name string
		dst  *int64
	}{
		{name: "asset_id", dst: &req.AssetID},
		{name: "from", dst: &req.From},
		{name: "to", dst: &req.To},
	} {
		value, err := strconv.ParseInt(strings.TrimSpace(query.Get(field.name)), 10, 64)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: query parameter %s must be an integer", usecase.ErrInvalidInput, field.name))
			return
		}
		*field.dst = value
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	uri, err := h.playbackService.ManifestURI(ctx, matchevent.Clip{
		VideoAssetID:  req.AssetID,
		FromTimestamp: req.From,
		ToTimestamp:   req.To,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playbackDTO{ManifestURI: uri})
}
