package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fileshare/internal/middleware"
	"fileshare/internal/model"
	"fileshare/internal/pkg/httputils"
	"fileshare/internal/service"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(public, private *mux.Router) {
	public.HandleFunc("/register", h.registerUser).Methods("POST", "OPTIONS")
	public.HandleFunc("/login", h.loginUser).Methods("POST", "OPTIONS")
	private.HandleFunc("/logout", h.logoutUser).Methods("POST", "OPTIONS")
	private.HandleFunc("/me", h.getMe).Methods("GET", "OPTIONS")
	private.HandleFunc("/upgrade", h.upgradeAccount).Methods("POST", "OPTIONS")
	private.HandleFunc("/me/preferences", h.updatePreferences).Methods("PUT", "OPTIONS")
}

type UserResponse struct {
	ID     uint       `json:"id"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Plan   model.Plan `json:"plan"`
	SortBy string     `json:"sort_by"`
	View   string     `json:"view"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Plan:   u.Plan,
		SortBy: u.SortBy,
		View:   u.View,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Register
// @Description Create a free-tier account. The client must log in afterwards.
// @ID register
// @Accept json
// @Produce json
// @Success 201 {object} UserResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param registerData body RegisterRequest true "Register data"
// @Router /register [post]
func (h *UserHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	user, err := h.userService.Register(request.Name, request.Email, request.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httputils.ResponseError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateEmail):
			httputils.ResponseError(w, http.StatusConflict, "An account with this email already exists")
		default:
			httputils.ResponseError(w, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, newUserResponse(user))
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// @Summary Login
// @Description Log into an account
// @ID login
// @Accept json
// @Produce json
// @Success 200 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param loginData body LoginRequest true "Login data"
// @Router /login [post]
func (h *UserHandler) loginUser(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	token, user, err := h.userService.Login(request.Email, request.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httputils.ResponseError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			httputils.ResponseError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			httputils.ResponseError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, TokenResponse{
		Token: token,
		User:  newUserResponse(user),
	})
}

// @Summary Logout
// @Description Revoke the current session token
// @ID logout
// @Security ApiKeyAuth
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Router /logout [post]
func (h *UserHandler) logoutUser(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.TokenFrom(r.Context())
	if err := h.userService.Logout(r.Context(), token); err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Current user
// @Description Get the identity behind the session token
// @ID get-me
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /me [get]
func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	httputils.ResponseJSON(w, http.StatusOK, newUserResponse(user))
}

// @Summary Upgrade account
// @Description Switch the current user's plan to pro
// @ID upgrade
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /upgrade [post]
func (h *UserHandler) upgradeAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	updated, err := h.userService.UpgradeAccount(user.ID)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to upgrade account")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, newUserResponse(updated))
}

type PreferencesRequest struct {
	SortBy string `json:"sort_by"`
	View   string `json:"view"`
}

// @Summary Update preferences
// @Description Persist the dashboard sort key and view mode
// @ID update-preferences
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Param preferences body PreferencesRequest true "Preferences"
// @Router /me/preferences [put]
func (h *UserHandler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var request PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	updated, err := h.userService.UpdatePreferences(user.ID, request.SortBy, request.View)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			httputils.ResponseError(w, http.StatusBadRequest, err.Error())
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, newUserResponse(updated))
}
