package events_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	qrcode "github.com/skip2/go-qrcode"

	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/catalog"
	"ms-event-dashboard/internal/gateway"
	"ms-event-dashboard/internal/linker"
	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
	"ms-event-dashboard/internal/utils"
)

// EventStore is the gateway surface the event routes need.
type EventStore interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	FetchEvent(ctx context.Context, id string) (models.Event, error)
	UpsertEvent(ctx context.Context, ev models.Event) (models.Event, error)
	DeleteEntity(ctx context.Context, table, id string) error
	DuplicateEvent(ctx context.Context, sourceID, newTitle string) (models.Event, error)
	TicketsByID(ctx context.Context, ids []string) ([]models.Ticket, error)
	CouponsByID(ctx context.Context, ids []string) ([]models.Coupon, error)
}

// Publisher streams event lifecycle notifications, best-effort.
type Publisher interface {
	PublishEventDeleted(eventID string) error
}

type Handler struct {
	Store         EventStore
	Catalogs      *catalog.Service
	Publisher     Publisher
	Logger        *logger.Logger
	PublicBaseURL string
	validate      *validator.Validate
}

func NewHandler(store EventStore, catalogs *catalog.Service, publisher Publisher, log *logger.Logger, publicBaseURL string) *Handler {
	return &Handler{
		Store:         store,
		Catalogs:      catalogs,
		Publisher:     publisher,
		Logger:        log,
		PublicBaseURL: publicBaseURL,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the event routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/{eventId}", h.GetEvent)
		r.Patch("/{eventId}", h.UpdateEvent)
		r.Delete("/{eventId}", h.DeleteEvent)
		r.Post("/{eventId}/duplicate", h.DuplicateEvent)
		r.Get("/{eventId}/qr", h.EventQR)
	})
	r.Get("/facilitators", h.ListFacilitators)
	r.Get("/calendars", h.ListCalendars)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.ListEvents(r.Context())
	if err != nil {
		h.writeStoreError(w, "Failed to list events", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events", events))
}

type createEventRequest struct {
	Title string `json:"title" validate:"required"`
}

// CreateEvent creates a fresh draft with default fields so the editor
// has a record to address.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request", err.Error()))
		return
	}

	draft := models.Event{
		Title:      req.Title,
		Status:     models.StatusDraft,
		Format:     models.FormatOnline,
		TimeFormat: models.TimeFormatAMPM,
	}
	created, err := h.Store.UpsertEvent(r.Context(), draft)
	if err != nil {
		h.writeStoreError(w, "Failed to create event", err)
		return
	}

	if h.Logger != nil {
		h.Logger.Info("EVENTS", "created draft event "+created.ID)
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created", created))
}

type eventDetail struct {
	Event        models.Event         `json:"event"`
	Tickets      []models.Ticket      `json:"tickets"`
	Coupons      []models.Coupon      `json:"coupons"`
	Facilitators []models.Facilitator `json:"facilitators"`
	Calendars    []models.Calendar    `json:"calendars"`
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	ev, err := h.Store.FetchEvent(r.Context(), eventID)
	if err != nil {
		h.writeStoreError(w, "Failed to fetch event", err)
		return
	}

	tickets, coupons, err := linker.ResolveTicketsAndCoupons(r.Context(), h.Store, &ev)
	if err != nil {
		h.writeStoreError(w, "Failed to resolve event links", err)
		return
	}

	facCatalog, err := h.Catalogs.Facilitators(r.Context())
	if err != nil {
		h.writeStoreError(w, "Failed to load facilitators", err)
		return
	}
	calCatalog, err := h.Catalogs.Calendars(r.Context())
	if err != nil {
		h.writeStoreError(w, "Failed to load calendars", err)
		return
	}
	facs, cals := linker.ResolveLinks(&ev, facCatalog, calCatalog)

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event", eventDetail{
		Event:        ev,
		Tickets:      tickets,
		Coupons:      coupons,
		Facilitators: facs,
		Calendars:    cals,
	}))
}

// UpdateEvent writes event fields directly, bypassing the editor
// session flow; the SPA uses it for inline list edits.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var ev models.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	ev.ID = eventID

	saved, err := h.Store.UpsertEvent(r.Context(), ev)
	if err != nil {
		h.writeStoreError(w, "Failed to update event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event updated", saved))
}

type deleteEventRequest struct {
	Confirm string `json:"confirm" validate:"required,eq=DELETE"`
}

// DeleteEvent requires the literal confirmation text "DELETE" in the
// body before anything is removed.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req deleteEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Deletion not confirmed", "type DELETE to confirm deletion"))
		return
	}

	if err := h.Store.DeleteEntity(r.Context(), gateway.TableEvents, eventID); err != nil {
		h.writeStoreError(w, "Failed to delete event", err)
		return
	}

	if h.Publisher != nil {
		if err := h.Publisher.PublishEventDeleted(eventID); err != nil && h.Logger != nil {
			h.Logger.Warn("KAFKA", fmt.Sprintf("event deleted notification failed: %v", err))
		}
	}
	if h.Logger != nil {
		h.Logger.Info("EVENTS", "deleted event "+eventID)
	}
	w.WriteHeader(http.StatusNoContent)
}

type duplicateEventRequest struct {
	Title string `json:"title" validate:"required"`
}

func (h *Handler) DuplicateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req duplicateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request", err.Error()))
		return
	}

	duplicated, err := h.Store.DuplicateEvent(r.Context(), eventID, req.Title)
	if err != nil {
		h.writeStoreError(w, "Failed to duplicate event", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event duplicated", duplicated))
}

// EventQR renders a QR code for the event's public page.
func (h *Handler) EventQR(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	ev, err := h.Store.FetchEvent(r.Context(), eventID)
	if err != nil {
		h.writeStoreError(w, "Failed to fetch event", err)
		return
	}
	if ev.Slug == "" {
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("No public page yet", "event has no slug; save it first"))
		return
	}

	publicURL := fmt.Sprintf("%s/%s", h.PublicBaseURL, ev.Slug)
	png, err := qrcode.Encode(publicURL, qrcode.Medium, 256)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to generate QR", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) ListFacilitators(w http.ResponseWriter, r *http.Request) {
	facilitators, err := h.Catalogs.Facilitators(r.Context())
	if err != nil {
		h.writeStoreError(w, "Failed to load facilitators", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Facilitators", facilitators))
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	calendars, err := h.Catalogs.Calendars(r.Context())
	if err != nil {
		h.writeStoreError(w, "Failed to load calendars", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Calendars", calendars))
}

// writeStoreError maps record-store failures onto HTTP statuses and
// keeps the store's raw error payload visible to the caller.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	var remote *airtable.RemoteError

	switch {
	case errors.Is(err, airtable.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse(message, "record not found"))
	case errors.As(err, &remote):
		if h.Logger != nil {
			h.Logger.Error("AIRTABLE", fmt.Sprintf("%s: %v", message, err))
		}
		utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse(message, remote.Error()))
	default:
		if h.Logger != nil {
			h.Logger.Error("EVENTS", fmt.Sprintf("%s: %v", message, err))
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse(message, err.Error()))
	}
}
