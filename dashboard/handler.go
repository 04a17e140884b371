// Package dashboard serves the operator dashboard over HTTP: read-only views
// of the registry, the project action center and the biomass preview, all
// backed by the Registry Service REST API.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bluecarbon/mrv-dashboard/biomass"
	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/bluecarbon/mrv-dashboard/notify"
	"github.com/bluecarbon/mrv-dashboard/txsubmit"
	"github.com/bluecarbon/mrv-dashboard/views"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// RequestError provides structured error information for HTTP responses.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Registry interfaces.RegistryAPI
	Log      *slog.Logger

	// RefreshDelay is the wait between a confirmed transaction and the
	// reload of the session views. Zero reloads immediately.
	RefreshDelay time.Duration
}

// Handler serves the dashboard views and actions.
type Handler struct {
	registry interfaces.RegistryAPI
	log      *slog.Logger
	delay    time.Duration
	session  *Session

	// notifier receives notifications that are not tied to a response.
	notifier notify.Notifier

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	session := NewSession()
	ctx, cancel := context.WithCancel(context.Background())

	return &Handler{
		registry: cfg.Registry,
		log:      log,
		delay:    cfg.RefreshDelay,
		session:  session,
		notifier: notify.Multi{notify.NewLogNotifier(log), session.Feed()},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Session exposes the operator session.
func (h *Handler) Session() *Session {
	return h.session
}

// Close cancels pending refreshes.
func (h *Handler) Close() {
	h.cancel()
}

// RegisterRoutes mounts the view and action endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/views", func(r chi.Router) {
		r.Get("/network", h.HandleNetwork)
		r.Get("/owner", h.HandleOwner)
		r.Get("/projects", h.HandleProjects)
		r.Get("/project/{id}", h.HandleProject)
		r.Get("/explorer", h.HandleExplorer)
		r.Get("/session", h.HandleSession)
		r.Get("/preview", h.HandlePreview)
	})
	r.Route("/actions", func(r chi.Router) {
		r.Post("/"+string(txsubmit.ActionSubmitProject), h.HandleSubmitProject)
		r.Post("/{action}", h.HandleAction)
	})
}

// ActionResponse reports the outcome of an action with every notification
// raised while processing it.
type ActionResponse struct {
	Success          bool                  `json:"success"`
	Error            string                `json:"error,omitempty"`
	Outcome          *txsubmit.Outcome     `json:"outcome,omitempty"`
	RefreshScheduled bool                  `json:"refresh_scheduled"`
	Notifications    []notify.Notification `json:"notifications"`
}

func (h *Handler) loader(n notify.Notifier) *views.Loader {
	return views.NewLoader(h.registry, n)
}

func (h *Handler) HandleNetwork(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.loader(h.notifier).Network(r.Context()))
}

func (h *Handler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.loader(h.notifier).Owner(r.Context()))
}

func (h *Handler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	list := h.loader(h.notifier).Projects(r.Context())
	h.session.SetProjects(list)
	writeJSON(w, http.StatusOK, list)
}

// HandleProject selects the project into the session and loads it.
func (h *Handler) HandleProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.session.Select(id)
	view := h.loader(h.notifier).Project(r.Context(), id)
	h.session.SetProject(view)
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleExplorer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.loader(h.notifier).Explorer(r.Context()))
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandlePreview estimates biomass for ?ndvi=&area=&images= without
// contacting the registry. Missing values fall back to the survey defaults.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ndvi, err := floatParam(q.Get("ndvi"), biomass.DefaultNDVI)
	if err != nil {
		h.writeError(w, &RequestError{StatusCode: http.StatusUnprocessableEntity, Err: errors.New("NDVI must be a number")})
		return
	}
	area, err := floatParam(q.Get("area"), biomass.DefaultAreaHa)
	if err != nil {
		h.writeError(w, &RequestError{StatusCode: http.StatusUnprocessableEntity, Err: errors.New("Area must be a number")})
		return
	}

	preview, err := biomass.PreviewSurvey(interfaces.Survey{
		AvgNDVI: ndvi,
		AreaHa:  area,
		Images:  biomass.ParseImages(q.Get("images")),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// HandleSubmitProject submits a drone survey as a new project.
func (h *Handler) HandleSubmitProject(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	survey, err := biomass.DecodeSurvey(body)
	if err != nil {
		h.writeError(w, &RequestError{StatusCode: http.StatusBadRequest, Err: err})
		return
	}

	recorder := notify.NewRecorder()
	outcome, err := h.submitter(recorder).SubmitSurvey(r.Context(), survey)
	h.writeOutcome(w, outcome, err, recorder)
}

// HandleAction runs a lifecycle transition or verifier change. A request
// without project_id applies to the project selected in the session.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	action, err := interfaces.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		h.writeError(w, &RequestError{StatusCode: http.StatusNotFound, Err: err})
		return
	}

	body, err := readBody(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req txsubmit.Request
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, &RequestError{StatusCode: http.StatusBadRequest, Err: errors.New("invalid JSON body")})
			return
		}
	}
	req.Action = action
	if req.ProjectID == 0 && action.IsTransition() {
		req.ProjectID = h.session.Selected()
	}

	recorder := notify.NewRecorder()
	outcome, err := h.submitter(recorder).Submit(r.Context(), req)
	h.writeOutcome(w, outcome, err, recorder)
}

func (h *Handler) submitter(recorder *notify.Recorder) *txsubmit.Submitter {
	return txsubmit.NewSubmitter(txsubmit.Config{
		Registry:       h.registry,
		Notifier:       notify.Multi{notify.NewLogNotifier(h.log), recorder},
		Log:            h.log,
		RefreshDelay:   h.delay,
		Refresh:        h.refresh,
		RefreshContext: h.ctx,
	})
}

// refresh reloads the project list and, when it is still selected, the
// project the transaction concerned.
func (h *Handler) refresh(ctx context.Context, project interfaces.ProjectID) {
	loader := h.loader(h.notifier)

	selected := h.session.Selected()
	if project == 0 {
		project = selected
	}
	if project != 0 && project == selected {
		h.session.SetProject(loader.Project(ctx, project))
	}
	h.session.SetProjects(loader.Projects(ctx))
	h.session.markRefreshed(time.Now())

	h.log.Debug("session refreshed", "project", uint64(project))
}

func (h *Handler) writeOutcome(w http.ResponseWriter, outcome *txsubmit.Outcome, err error, recorder *notify.Recorder) {
	resp := ActionResponse{Notifications: recorder.Drain()}

	if err != nil {
		resp.Error = err.Error()
		code := http.StatusBadGateway
		if txsubmit.IsValidation(err) {
			code = http.StatusUnprocessableEntity
		}
		writeJSON(w, code, resp)
		return
	}

	resp.Success = true
	resp.Outcome = outcome
	resp.RefreshScheduled = outcome.Refresh != nil
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		code = reqErr.StatusCode
	case errors.Is(err, interfaces.ErrValidation):
		code = http.StatusUnprocessableEntity
	}

	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", "err", err)
	}
	writeJSON(w, code, map[string]any{"success": false, "error": err.Error()})
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, &RequestError{StatusCode: http.StatusBadRequest, Err: errors.New("failed to read request body")}
	}
	if len(body) > maxBodySize {
		return nil, &RequestError{StatusCode: http.StatusRequestEntityTooLarge, Err: errors.New("request body too large")}
	}
	return body, nil
}

func parseProjectID(raw string) (interfaces.ProjectID, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &RequestError{StatusCode: http.StatusBadRequest, Err: errors.New("Invalid project ID")}
	}
	return interfaces.ProjectID(id), nil
}

func floatParam(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
