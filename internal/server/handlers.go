package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
	"github.com/Harsh2563/flagright-relgraph/internal/service"
)

// APIHandlers exposes HTTP handlers for the graph explorer API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.ExplorerService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.ExplorerService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) getUserGraph(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	view, err := h.service.UserGraph(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to build user graph", "userId", userID)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// getUserGraphs serves /graph/users?anchor=a&anchor=b&center=c. A comma
// separated anchor value is accepted as well.
func (h *APIHandlers) getUserGraphs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var anchors []string
	for _, v := range query["anchor"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				anchors = append(anchors, id)
			}
		}
	}
	if len(anchors) == 0 {
		writeError(w, http.StatusBadRequest, "at least one anchor is required")
		return
	}

	view, err := h.service.UserGraphs(r.Context(), service.UserGraphRequest{
		Anchors: anchors,
		Center:  query.Get("center"),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "failed to build user graph", "anchors", len(anchors))
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandlers) getTransactionGraph(w http.ResponseWriter, r *http.Request) {
	txID := strings.TrimSpace(chi.URLParam(r, "transactionId"))
	if txID == "" {
		writeError(w, http.StatusBadRequest, "transaction ID is required")
		return
	}

	view, err := h.service.TransactionGraph(r.Context(), txID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to build transaction graph", "transactionId", txID)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandlers) getPath(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := service.PathRequest{
		SourceUserID: query.Get("sourceUserId"),
		TargetUserID: query.Get("targetUserId"),
	}

	view, err := h.service.Path(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to resolve path",
			"sourceUserId", req.SourceUserID, "targetUserId", req.TargetUserID)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		h.logger.ErrorContext(r.Context(), msg, append(attrs, "error", err)...)
		writeError(w, http.StatusBadGateway, msg)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
