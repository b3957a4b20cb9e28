package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Brasil-Rental-Karts/brk-backend-sub002/api/structs"
	classificationservice "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/application"
	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationqueue "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/queue"
	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
)

// ClassificationHandler serves the read side of the classification engine and
// accepts manual recompute requests.
type ClassificationHandler struct {
	service classificationservice.Service
	queue   classificationqueue.QueueService
	logger  *slog.Logger
}

// NewClassificationHandler creates a new ClassificationHandler.
func NewClassificationHandler(service classificationservice.Service, queue classificationqueue.QueueService, logger *slog.Logger) *ClassificationHandler {
	return &ClassificationHandler{
		service: service,
		queue:   queue,
		logger:  logger,
	}
}

// GetClassification retrieves the stored standings row for one scope.
func (h *ClassificationHandler) GetClassification(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromURL(w, r)
	if !ok {
		return
	}

	classification, err := h.service.GetClassification(r.Context(), scope)
	if err != nil {
		if errors.Is(err, classificationdb.ErrNotFound) {
			http.Error(w, "classification not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to fetch classification: %v", err), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, structs.FromClassification(*classification))
}

// ExplainClassification recomputes one scope in memory and returns the full
// stage-by-stage breakdown without writing anything.
func (h *ClassificationHandler) ExplainClassification(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromURL(w, r)
	if !ok {
		return
	}

	result, err := h.service.Explain(r.Context(), scope)
	if err != nil {
		if classificationservice.IsConfigurationError(err) {
			http.Error(w, fmt.Sprintf("cannot explain scope: %v", err), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to explain classification: %v", err), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, structs.FromSeasonResult(*result))
}

// GetSeasonStandings lists the standings rows of a season category, ordered by
// the tie-break rules.
func (h *ClassificationHandler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := h.uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	categoryID, ok := h.uuidParam(w, r, "categoryID")
	if !ok {
		return
	}

	standings, err := h.service.ListSeasonStandings(r.Context(), seasonID, categoryID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to fetch standings: %v", err), http.StatusInternalServerError)
		return
	}

	rows := make([]structs.Classification, 0, len(standings))
	for _, c := range standings {
		rows = append(rows, structs.FromClassification(c))
	}
	h.writeJSON(w, rows)
}

// ExportSeasonStandings streams the standings of a season category as an
// xlsx workbook.
func (h *ClassificationHandler) ExportSeasonStandings(w http.ResponseWriter, r *http.Request) {
	seasonID, ok := h.uuidParam(w, r, "seasonID")
	if !ok {
		return
	}
	categoryID, ok := h.uuidParam(w, r, "categoryID")
	if !ok {
		return
	}

	workbook, err := h.service.ExportSeasonStandings(r.Context(), seasonID, categoryID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to export standings: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=standings-%s-%s.xlsx", seasonID, categoryID))
	if _, err := w.Write(workbook); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write standings export", slog.Any("error", err))
	}
}

// RequestRecompute enqueues a recompute job for the scope in the request body.
func (h *ClassificationHandler) RequestRecompute(w http.ResponseWriter, r *http.Request) {
	var req structs.RecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	seasonID, err := uuid.Parse(req.SeasonID)
	if err != nil {
		http.Error(w, "invalid season_id", http.StatusBadRequest)
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		http.Error(w, "invalid category_id", http.StatusBadRequest)
		return
	}
	competitorID, err := uuid.Parse(req.CompetitorID)
	if err != nil {
		http.Error(w, "invalid competitor_id", http.StatusBadRequest)
		return
	}

	scope := classificationdomain.Scope{
		CompetitorID: classificationdomain.CompetitorID(competitorID),
		CategoryID:   classificationdomain.CategoryID(categoryID),
		SeasonID:     classificationdomain.SeasonID(seasonID),
	}
	if err := h.queue.EnqueueRecompute(r.Context(), scope); err != nil {
		http.Error(w, fmt.Sprintf("failed to enqueue recompute: %v", err), http.StatusInternalServerError)
		return
	}

	h.writeJSONStatus(w, http.StatusAccepted, structs.RecomputeResponse{Enqueued: 1})
}

// RecomputeChampionship enqueues recompute jobs for every scope of a
// championship. Used after bulk imports and scoring system edits.
func (h *ClassificationHandler) RecomputeChampionship(w http.ResponseWriter, r *http.Request) {
	championshipID, ok := h.uuidParam(w, r, "championshipID")
	if !ok {
		return
	}

	scopes, err := h.service.ScopesForChampionship(r.Context(), championshipID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to resolve championship scopes: %v", err), http.StatusInternalServerError)
		return
	}

	inserted, err := h.queue.EnqueueRecomputeBatch(r.Context(), scopes)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to enqueue recompute batch: %v", err), http.StatusInternalServerError)
		return
	}

	h.writeJSONStatus(w, http.StatusAccepted, structs.RecomputeResponse{Enqueued: inserted})
}

// HealthCheck reports whether the queue backend is reachable.
func (h *ClassificationHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.queue.HealthCheck(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("unhealthy: %v", err), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write health response", slog.Any("error", err))
	}
}

func (h *ClassificationHandler) scopeFromURL(w http.ResponseWriter, r *http.Request) (classificationdomain.Scope, bool) {
	seasonID, ok := h.uuidParam(w, r, "seasonID")
	if !ok {
		return classificationdomain.Scope{}, false
	}
	categoryID, ok := h.uuidParam(w, r, "categoryID")
	if !ok {
		return classificationdomain.Scope{}, false
	}
	competitorID, ok := h.uuidParam(w, r, "competitorID")
	if !ok {
		return classificationdomain.Scope{}, false
	}
	return classificationdomain.Scope{
		CompetitorID: classificationdomain.CompetitorID(competitorID),
		CategoryID:   classificationdomain.CategoryID(categoryID),
		SeasonID:     classificationdomain.SeasonID(seasonID),
	}, true
}

func (h *ClassificationHandler) uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid %s", name), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ClassificationHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	h.writeJSONStatus(w, http.StatusOK, v)
}

func (h *ClassificationHandler) writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}
