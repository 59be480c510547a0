package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchreel/internal/usecase"
)

type setFeedCategoryRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
}

type setFeedActiveRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

func (h *Handler) ListFeedCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFeedCategories")
	defer span.End()

	categories := h.feedService.Categories()
	items := make([]feedCategoryDTO, 0, len(categories))
	for _, category := range categories {
		items = append(items, feedCategoryDTO{ID: category.ID, Label: category.Label})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateFeedSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFeedSession")
	defer span.End()

	session, err := h.feedService.CreateSession(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "create feed session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, feedSessionToDTO(session))
}

func (h *Handler) GetFeedSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFeedSession")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	session, err := h.feedService.GetSession(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, feedSessionToDTO(session))
}

func (h *Handler) SetFeedCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetFeedCategory")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	var req setFeedCategoryRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.feedService.SetCategory(ctx, sessionID, req.CategoryID)
	if err != nil {
		h.logger.WarnContext(ctx, "set feed category failed", "session_id", sessionID, "category_id", req.CategoryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, feedSessionToDTO(session))
}

func (h *Handler) LoadMoreFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoadMoreFeed")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	session, err := h.feedService.LoadMore(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, feedSessionToDTO(session))
}

func (h *Handler) SetFeedActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetFeedActive")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	var req setFeedActiveRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.feedService.SetActive(ctx, sessionID, *req.Index)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, feedSessionToDTO(session))
}

func (h *Handler) ReloadFeedSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReloadFeedSession")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	session, err := h.feedService.Reload(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "reload feed session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, feedSessionToDTO(session))
}

func (h *Handler) DeleteFeedSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFeedSession")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	if err := h.feedService.DeleteSession(ctx, sessionID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"session_id": sessionID, "deleted": true})
}
