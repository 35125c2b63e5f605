package editor_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"ms-event-dashboard/internal/auth"
	"ms-event-dashboard/internal/editor"
	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
	"ms-event-dashboard/internal/utils"
)

type Handler struct {
	Manager  *editor.Manager
	Logger   *logger.Logger
	validate *validator.Validate
}

func NewHandler(manager *editor.Manager, log *logger.Logger) *Handler {
	return &Handler{
		Manager:  manager,
		Logger:   log,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the editor-session routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/editor/sessions", func(r chi.Router) {
		r.Post("/", h.OpenSession)
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Patch("/fields", h.SetFields)
			r.Put("/tickets", h.SetTickets)
			r.Put("/coupons", h.SetCoupons)
			r.Post("/save", h.Save)
			r.Post("/tab", h.SwitchTab)
			r.Post("/close", h.Close)
			r.Post("/switch", h.SwitchEvent)
			r.Post("/resolve", h.Resolve)
			r.Post("/tickets/{ticketId}/delete", h.DeleteTicket)
		})
	})
}

type openSessionRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request", err.Error()))
		return
	}

	session, err := h.Manager.Open(r.Context(), auth.VendorID(r.Context()), req.EventID)
	if err != nil {
		h.writeSessionError(w, "Failed to open editor session", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Session opened", session.View()))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Session", session.View()))
}

type setFieldsRequest struct {
	Fields map[string]any `json:"fields" validate:"required,min=1"`
}

// SetFields applies a batch of draft field edits. Edits are applied in
// arbitrary order; a bad field name rejects the whole batch up front.
func (h *Handler) SetFields(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request", err.Error()))
		return
	}

	for name, value := range req.Fields {
		if err := session.SetField(name, value); err != nil {
			h.writeSessionError(w, "Failed to set field", err)
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Fields updated", session.View()))
}

type setTicketsRequest struct {
	Tickets []models.Ticket `json:"tickets"`
}

func (h *Handler) SetTickets(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setTicketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := session.SetTickets(req.Tickets); err != nil {
		h.writeSessionError(w, "Failed to update tickets", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tickets updated", session.View()))
}

type setCouponsRequest struct {
	Coupons []models.Coupon `json:"coupons"`
}

func (h *Handler) SetCoupons(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setCouponsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := session.SetCoupons(req.Coupons); err != nil {
		h.writeSessionError(w, "Failed to update coupons", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Coupons updated", session.View()))
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.Save(r.Context()); err != nil {
		h.writeSessionError(w, "Failed to save", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Saved", session.View()))
}

type switchTabRequest struct {
	Tab editor.Tab `json:"tab" validate:"required,oneof=details pricing more_settings"`
}

type navigationResponse struct {
	ConfirmRequired bool               `json:"confirm_required"`
	Session         editor.SessionView `json:"session"`
}

func (h *Handler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req switchTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request", err.Error()))
		return
	}

	confirmRequired, err := session.RequestTabSwitch(req.Tab)
	if err != nil {
		h.writeSessionError(w, "Failed to switch tab", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tab switch", navigationResponse{
		ConfirmRequired: confirmRequired,
		Session:         session.View(),
	}))
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	confirmRequired, err := session.RequestClose()
	if err != nil {
		h.writeSessionError(w, "Failed to close session", err)
		return
	}
	if !confirmRequired {
		h.Manager.Remove(session.ID)
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Close", navigationResponse{
		ConfirmRequired: confirmRequired,
		Session:         session.View(),
	}))
}

type switchEventRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

func (h *Handler) SwitchEvent(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req switchEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request", err.Error()))
		return
	}

	confirmRequired, err := session.RequestSwitchEvent(r.Context(), req.EventID)
	if err != nil {
		h.writeSessionError(w, "Failed to switch event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event switch", navigationResponse{
		ConfirmRequired: confirmRequired,
		Session:         session.View(),
	}))
}

type resolveRequest struct {
	Decision editor.Decision `json:"decision" validate:"required,oneof=save discard cancel"`
}

// Resolve completes an unsaved-changes confirmation with the vendor's
// decision.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request", err.Error()))
		return
	}

	if err := session.Resolve(r.Context(), req.Decision); err != nil {
		h.writeSessionError(w, "Failed to resolve confirmation", err)
		return
	}
	if session.State() == editor.StateClosed {
		h.Manager.Remove(session.ID)
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Resolved", session.View()))
}

type deleteTicketRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	ticketID := chi.URLParam(r, "ticketId")

	var req deleteTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	result, err := session.DeleteTicket(r.Context(), ticketID, req.Confirmed)
	if err != nil {
		h.writeSessionError(w, "Failed to delete ticket", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket delete", result))
}

// session looks up the caller's session from the URL and writes the
// error response itself when it is missing.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	sessionID := chi.URLParam(r, "sessionId")
	session, err := h.Manager.Get(sessionID, auth.VendorID(r.Context()))
	if err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Session not found", err.Error()))
		return nil, false
	}
	return session, true
}

func (h *Handler) writeSessionError(w http.ResponseWriter, message string, err error) {
	var verr *editor.ValidationError

	switch {
	case errors.As(err, &verr):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, utils.APIResponse{
			Success:   false,
			Message:   "Validation failed",
			Data:      verr,
			Timestamp: time.Now(),
		})
	case errors.Is(err, editor.ErrSessionClosed):
		utils.WriteJSON(w, http.StatusGone, utils.ErrorResponse(message, err.Error()))
	case errors.Is(err, editor.ErrNoPending):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse(message, err.Error()))
	case errors.Is(err, editor.ErrSaveInFlight):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse(message, err.Error()))
	case errors.Is(err, editor.ErrSessionNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse(message, err.Error()))
	default:
		if h.Logger != nil {
			h.Logger.Error("EDITOR", fmt.Sprintf("%s: %v", message, err))
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse(message, err.Error()))
	}
}
