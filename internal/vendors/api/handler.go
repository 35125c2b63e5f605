package vendors_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
	"ms-event-dashboard/internal/utils"
	"ms-event-dashboard/internal/vendors"
)

type Handler struct {
	Service  *vendors.Service
	Logger   *logger.Logger
	validate *validator.Validate
}

func NewHandler(service *vendors.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log, validate: validator.New()}
}

// Login handles POST /vendors/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid login request", err.Error()))
		return
	}

	resp, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, vendors.ErrInvalidCredentials) {
			if h.Logger != nil {
				h.Logger.LogSecurity("LOGIN_FAILED", "rejected login for "+req.Email)
			}
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Login failed", "invalid email or password"))
			return
		}
		if h.Logger != nil {
			h.Logger.Error("AUTH", "login error: "+err.Error())
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Login failed", err.Error()))
		return
	}

	if h.Logger != nil {
		h.Logger.Info("AUTH", "vendor logged in: "+resp.VendorID)
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged in", resp))
}
