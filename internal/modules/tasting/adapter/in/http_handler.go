package in

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	tastingdto "cuplog/internal/modules/tasting/dto"
	tastingin "cuplog/internal/modules/tasting/port/in"
	apperrors "cuplog/internal/platform/errors"
	"cuplog/internal/platform/logging"
)

// HTTPHandler exposes the tasting usecase as a small JSON API.
type HTTPHandler struct {
	usecase     tastingin.Usecase
	defaultUser string
	logger      hclog.Logger
}

func NewHTTPHandler(usecase tastingin.Usecase, defaultUser string, logger hclog.Logger) HTTPHandler {
	return HTTPHandler{usecase: usecase, defaultUser: defaultUser, logger: logging.OrDiscard(logger).Named("http")}
}

// NewRouter wires the API under /api.
func NewRouter(h HTTPHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLog)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})
	return r
}

func (h HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Post("/", h.startSession)
		r.Get("/", h.getSession)
		r.Delete("/", h.discardSession)
		r.Patch("/{step}", h.updateStep)
		r.Post("/next", h.nextStep)
		r.Post("/back", h.previousStep)
		r.Post("/save", h.saveSession)
	})
	r.Get("/records", h.listRecords)
	r.Get("/stats", h.statistics)
	r.Get("/flavors/top", h.topFlavors)
	r.Post("/reindex", h.reindex)
}

func (h HTTPHandler) startSession(w http.ResponseWriter, r *http.Request) {
	var req tastingdto.StartInput
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.usecase.Start(r.Context(), req)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

func (h HTTPHandler) getSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.GetActive(r.Context())
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) discardSession(w http.ResponseWriter, r *http.Request) {
	if err := h.usecase.Discard(r.Context()); err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h HTTPHandler) updateStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		out tastingdto.SessionOutput
		err error
	)
	switch step := chi.URLParam(r, "step"); step {
	case "coffee-info":
		var req tastingdto.CoffeeInfo
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.SetCoffeeInfo(ctx, req)
	case "brew-setup":
		var req tastingdto.BrewSettings
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.SetBrewSettings(ctx, req)
	case "experimental-data":
		var req tastingdto.ExperimentalData
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.SetExperimentalData(ctx, req)
	case "qc-measurement":
		var req tastingdto.QCMeasurement
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.RecordQCMeasurement(ctx, req)
	case "flavor-selection":
		var req []tastingdto.Flavor
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.SetFlavors(ctx, req)
	case "sensory-expression":
		var req []tastingdto.SensoryExpression
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.SetSensoryExpressions(ctx, req)
	case "sensory-mouthfeel":
		var req tastingdto.SlidersInput
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.SetSensorySliders(ctx, req)
	case "personal-comment":
		var req tastingdto.CommentInput
		if !decodeBody(w, r, &req) {
			return
		}
		out, err = h.usecase.SetComment(ctx, req)
	case "roaster-notes":
		var req tastingdto.RoasterNotesInput
		if !decodeBody(w, r, &req) {
			return
		}
		if req.FromFile != "" {
			respondError(w, http.StatusBadRequest, "from_file is not accepted over http")
			return
		}
		out, err = h.usecase.SetRoasterNotes(ctx, req)
	default:
		respondError(w, http.StatusNotFound, "unknown step "+strconv.Quote(step))
		return
	}
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) nextStep(w http.ResponseWriter, r *http.Request) {
	var req tastingdto.NavigateInput
	if !decodeBody(w, r, &req) {
		return
	}
	req.Required = RequiredFields(req.From)
	out, err := h.usecase.Advance(r.Context(), req)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) previousStep(w http.ResponseWriter, r *http.Request) {
	var req tastingdto.NavigateInput
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.usecase.Back(r.Context(), tastingdto.NavigateInput{From: req.From})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) saveSession(w http.ResponseWriter, r *http.Request) {
	var req tastingdto.SaveInput
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = h.defaultUser
	}
	out, err := h.usecase.Save(r.Context(), req)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

func (h HTTPHandler) listRecords(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		user = h.defaultUser
	}
	out, err := h.usecase.ListRecords(r.Context(), user)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	if out == nil {
		out = []tastingdto.RecordOutput{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) statistics(w http.ResponseWriter, r *http.Request) {
	coffee := r.URL.Query().Get("coffee")
	if coffee == "" {
		respondError(w, http.StatusBadRequest, "coffee query parameter is required")
		return
	}
	out, err := h.usecase.Statistics(r.Context(), coffee)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	if out == nil {
		respondError(w, http.StatusNotFound, "no statistics for "+strconv.Quote(coffee))
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) topFlavors(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	out, err := h.usecase.TopFlavors(r.Context(), limit)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	if out == nil {
		out = []tastingdto.FlavorCountOutput{}
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) reindex(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Reindex(r.Context())
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h HTTPHandler) respondUsecaseError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	respondError(w, status, err.Error())
}

func (h HTTPHandler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// StatusFor maps usecase errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, tastingin.ErrIncompleteSession),
		errors.Is(err, tastingin.ErrMissingMode),
		errors.Is(err, tastingin.ErrCorruptedMode):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNoActiveSession),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, tastingin.ErrUnknownStep):
		return http.StatusNotFound
	case errors.Is(err, tastingin.ErrStepIncomplete):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeOptionalBody accepts an empty body of any framing and leaves dst untouched.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
