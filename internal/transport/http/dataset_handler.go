package http

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "bbbcli/internal/errors"
	mw "bbbcli/internal/middleware"
	"bbbcli/internal/services"
	"bbbcli/pkg/contracts/domain"
)

const maxTeamNameLength = 100

// DatasetHandler serves the flattened delivery dataset with RFC 7807 errors
type DatasetHandler struct {
	service      DatasetServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	params       *mw.QueryParamValidator
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
		params:       mw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/deliveries", h.GetDeliveries)
	r.Get("/matches", h.GetMatches)
	r.Get("/matches/{matchID}", h.GetMatch)
	r.Get("/summary", h.GetSummary)
	r.Get("/status", h.GetStatus)
	r.Post("/reload", h.Reload)

	return r
}

// GetDeliveries handles GET /api/v1/deliveries
func (h *DatasetHandler) GetDeliveries(w http.ResponseWriter, r *http.Request) {
	var (
		q  services.DeliveryQuery
		ok bool
	)
	if q.MatchID, ok = h.params.ValidateInt(w, r, "match_id", 1, math.MaxInt32, 0); !ok {
		return
	}
	if q.Innings, ok = h.params.ValidateInt(w, r, "innings", 1, 99, 0); !ok {
		return
	}
	if q.BattingTeam, ok = h.params.ValidateString(w, r, "batting_team", maxTeamNameLength); !ok {
		return
	}
	if q.Limit, ok = h.params.ValidateInt(w, r, "limit", 1, services.MaxPageSize, services.DefaultPageSize); !ok {
		return
	}
	if q.Offset, ok = h.params.ValidateInt(w, r, "offset", 0, math.MaxInt32, 0); !ok {
		return
	}

	page, err := h.service.Deliveries(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "deliveries served",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Int("total", page.Total),
		slog.Int("returned", len(page.Deliveries)))

	render.JSON(w, r, page)
}

// GetMatches handles GET /api/v1/matches
func (h *DatasetHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.Matches(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"count":   len(matches),
		"matches": matches,
	})
}

// GetMatch handles GET /api/v1/matches/{matchID}
func (h *DatasetHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "matchID"))
	if err != nil || id <= 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("matchID", "match id must be a positive integer"))
		return
	}

	match, err := h.service.Match(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, match)
}

// summaryResponse adds a human-readable note to an empty summary
type summaryResponse struct {
	domain.DatasetSummary
	Message string `json:"message,omitempty"`
}

// GetSummary handles GET /api/v1/summary
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := summaryResponse{DatasetSummary: summary}
	if summary.Deliveries == 0 {
		resp.Message = "No data loaded"
	}
	render.JSON(w, r, resp)
}

// GetStatus handles GET /api/v1/status
func (h *DatasetHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status())
}

// Reload handles POST /api/v1/reload
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", reqID),
		slog.String("remote_addr", r.RemoteAddr))

	status, err := h.service.Reload(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))
		// Match data problems keep their own type; everything else is a
		// generic load failure
		var conv apierrors.AppErrorConverter
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.As(err, &conv) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetLoad(err))
		return
	}

	render.JSON(w, r, status)
}

// handleServiceError maps service errors to API errors
func (h *DatasetHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE",
			"No dataset loaded yet",
		))
	case errors.Is(err, services.ErrInvalidQuery):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("query", err.Error()))
	case errors.Is(err, services.ErrMatchNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("match"))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
