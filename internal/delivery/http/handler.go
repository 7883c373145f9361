// JSON REST surface: POST /plants, GET /plants, GET /plants/{name}, POST /plants/{name}/refresh
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"plant-sync/internal/core/plants"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	onDuplicateRedirect = "redirect"
	onDuplicateCancel   = "cancel"
)

// PlantService is the workflow surface the handler drives.
type PlantService interface {
	CreatePlant(ctx context.Context, serial string, dialog plants.DialogHost) (*plants.Plant, error)
	Refresh(ctx context.Context, name string, dialog plants.DialogHost) (plants.ChangeSummary, error)
	GetPlant(ctx context.Context, name string) (*plants.Plant, error)
	ListPlants(ctx context.Context) ([]plants.Plant, error)
}

type Handler struct {
	svc PlantService
	lg  zerolog.Logger
}

// createPlantRequest defines the shape of the request body for creating a plant.
type createPlantRequest struct {
	SerialNumber string `json:"serial_number" example:"QMB2C4R07D"`
	// OnDuplicate answers the "plant already exists" prompt.
	OnDuplicate string `json:"on_duplicate,omitempty" enums:"redirect,cancel" example:"redirect"`
	// MPPT answers the MPPT prompt per device serial.
	MPPT map[string]string `json:"mppt,omitempty"`
}

type createPlantResponse struct {
	Plant    *plants.Plant `json:"plant"`
	Messages []string      `json:"messages,omitempty"`
}

type refreshResponse struct {
	Summary  plants.ChangeSummary `json:"summary"`
	Message  string               `json:"message" example:"Equipment sync completed: 1 new equipment added"`
	Messages []string             `json:"messages,omitempty"`
}

type errorResponse struct {
	Error      string      `json:"error"`
	Kind       string      `json:"kind" example:"not_found"`
	Messages   []string    `json:"messages,omitempty"`
	Redirect   string      `json:"redirect,omitempty"`
	MPPTPrompt *mpptPrompt `json:"mppt_prompt,omitempty"`
}

func New(svc PlantService, lg zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &Handler{svc: svc, lg: lg.With().Str("component", "http").Logger()}

	// --- API Routes ---
	r.Route("/plants", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{name}", h.handleGet)
		r.Post("/{name}/refresh", h.handleRefresh)
	})

	// --- Swagger Docs Route ---
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}

// handleCreate creates a plant from one device serial number.
// @Summary      Create a plant
// @Description  Resolves the serial number against the monitoring API, registers unknown serials, moves the devices out of any other plant and stores the new plant.
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        plant  body      createPlantRequest   true  "Serial number and prompt answers"
// @Success      201    {object}  createPlantResponse
// @Failure      303    {object}  errorResponse "Plant id already stored; redirected"
// @Failure      400    {object}  errorResponse "Invalid serial number"
// @Failure      404    {object}  errorResponse "No devices, plant data or catalog item"
// @Failure      409    {object}  errorResponse "Plant id already stored; cancelled"
// @Failure      423    {object}  errorResponse "Serial is being processed"
// @Failure      500    {object}  errorResponse "Consistency fault"
// @Failure      502    {object}  errorResponse "Monitoring API or store failure"
// @Router       /plants [post]
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SerialNumber == "" {
		writeError(w, http.StatusBadRequest, errorResponse{
			Error: `body must be {"serial_number":"<serial>"}`,
			Kind:  plants.KindValidation.String(),
		})
		return
	}
	switch req.OnDuplicate {
	case "":
		req.OnDuplicate = onDuplicateCancel
	case onDuplicateRedirect, onDuplicateCancel:
	default:
		writeError(w, http.StatusBadRequest, errorResponse{
			Error: `on_duplicate must be "redirect" or "cancel"`,
			Kind:  plants.KindValidation.String(),
		})
		return
	}

	dialog := newRequestDialog(req.OnDuplicate, req.MPPT, h.lg)
	p, err := h.svc.CreatePlant(r.Context(), req.SerialNumber, dialog)
	messages, redirect, prompt := dialog.result()
	if err != nil {
		h.fail(w, r, err, errorResponse{Messages: messages, Redirect: redirect, MPPTPrompt: prompt})
		return
	}

	w.Header().Set("Location", "/plants/"+p.Name)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createPlantResponse{Plant: p, Messages: messages})
}

// handleList lists all plants.
// @Summary      List all plants
// @Description  Retrieves every plant with its active and history equipment.
// @Tags         plants
// @Produce      json
// @Success      200  {array}   plants.Plant
// @Failure      500  {object}  errorResponse
// @Router       /plants [get]
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPlants(r.Context())
	if err != nil {
		h.fail(w, r, err, errorResponse{})
		return
	}
	writeJSON(w, list)
}

// handleGet returns one plant.
// @Summary      Get a plant
// @Tags         plants
// @Produce      json
// @Param        name  path      string  true  "Plant record name"
// @Success      200   {object}  plants.Plant
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /plants/{name} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPlant(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err, errorResponse{})
		return
	}
	writeJSON(w, p)
}

// handleRefresh reconciles a plant against the live equipment snapshot.
// @Summary      Refresh plant equipment
// @Description  Fetches the active equipment snapshot and merges it into the active and history tables.
// @Tags         plants
// @Produce      json
// @Param        name  path      string  true  "Plant record name"
// @Success      200   {object}  refreshResponse
// @Failure      404   {object}  errorResponse
// @Failure      423   {object}  errorResponse "Refresh already running"
// @Failure      500   {object}  errorResponse "Consistency fault"
// @Failure      502   {object}  errorResponse "Store failure"
// @Router       /plants/{name}/refresh [post]
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	dialog := newRequestDialog(onDuplicateCancel, nil, h.lg)
	sum, err := h.svc.Refresh(r.Context(), chi.URLParam(r, "name"), dialog)
	messages, _, _ := dialog.result()
	if err != nil {
		h.fail(w, r, err, errorResponse{Messages: messages})
		return
	}
	writeJSON(w, refreshResponse{Summary: sum, Message: sum.String(), Messages: messages})
}

// fail maps a workflow error onto its status code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, body errorResponse) {
	kind := plants.KindOf(err)
	status := statusFor(kind)

	var dup *plants.DuplicateError
	if errors.As(err, &dup) && dup.Redirected {
		status = http.StatusSeeOther
		body.Redirect = dup.Existing
		w.Header().Set("Location", "/plants/"+dup.Existing)
	}

	ev := h.lg.Warn()
	if status >= http.StatusInternalServerError {
		ev = h.lg.Error()
	}
	ev.Err(err).Str("path", r.URL.Path).Stringer("kind", kind).Int("status", status).Msg("request failed")

	body.Error = err.Error()
	body.Kind = kind.String()
	writeError(w, status, body)
}

func statusFor(kind plants.Kind) int {
	switch kind {
	case plants.KindValidation:
		return http.StatusBadRequest
	case plants.KindNotFound:
		return http.StatusNotFound
	case plants.KindDuplicate:
		return http.StatusConflict
	case plants.KindBusy:
		return http.StatusLocked
	case plants.KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
