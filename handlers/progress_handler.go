package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"portfolioAPI/internal/types/activity"
	"portfolioAPI/middleware"
	"portfolioAPI/services"
)

type ProgressHandler struct {
	activityService *services.ActivityService
	location        *time.Location
	now             func() time.Time
	logger          *zap.Logger
}

// NewProgressHandler creates the handler. "Today" for the calendar is the
// current date in loc.
func NewProgressHandler(activityService *services.ActivityService, loc *time.Location, logger *zap.Logger) *ProgressHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ProgressHandler{
		activityService: activityService,
		location:        loc,
		now:             time.Now,
		logger:          logger,
	}
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")

	resp, err := h.activityService.ListRecords(ctx, category)
	if err != nil {
		h.logger.Error("failed to list progress", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch progress")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GetCalendar serves the contribution calendar for ?offset=N months from the
// current month. Only the current and past months can be requested.
func (h *ProgressHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		var err error
		offset, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
	}
	if offset > 0 {
		respondWithError(w, http.StatusBadRequest, "cannot navigate past the current month")
		return
	}

	view, err := h.activityService.MonthView(ctx, offset, h.now().In(h.location))
	if err != nil {
		h.logger.Error("failed to build calendar", zap.Int("offset", offset), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build calendar")
		return
	}

	middleware.ObserveCalendarView(view.IsCurrentMonth)
	h.logger.Debug("calendar built",
		zap.Int("offset", offset),
		zap.String("month", view.MonthName),
		zap.Int("year", view.Year),
		zap.Int("contributed_days", view.ContributedDays()))
	respondWithJSON(w, http.StatusOK, view)
}

func (h *ProgressHandler) AddRecord(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req activity.CreateActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.activityService.AddRecord(ctx, &req)
	if err != nil {
		code := serviceErrorStatus(err)
		if code == http.StatusInternalServerError {
			h.logger.Error("failed to add activity", zap.Error(err))
			respondWithError(w, code, "Failed to add activity")
			return
		}
		respondWithError(w, code, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}
