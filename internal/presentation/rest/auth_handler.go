package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/application/usecase"
	"github.com/retainly/churn/internal/domain/model"
)

// AuthHandler exposes account registration and login endpoints.
type AuthHandler struct {
	register *usecase.RegisterUser
	login    *usecase.LoginUser
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(register *usecase.RegisterUser, login *usecase.LoginUser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		logger:   logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.register.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUsernameTaken), errors.Is(err, usecase.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		case model.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("registration failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.login.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// RegisterRoutes registers auth routes on the provided ServeMux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
}
