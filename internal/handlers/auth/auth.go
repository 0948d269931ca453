package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/dto"
	"github.com/dkozyr/gomarket/internal/service/authservice"
	pkgauth "github.com/dkozyr/gomarket/pkg/auth"
	"github.com/dkozyr/gomarket/pkg/utils"
)

type Service interface {
	Register(ctx context.Context, candidate authservice.Candidate) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (string, error)
	RefreshToken(ctx context.Context, token string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error
	VerifyEmail(ctx context.Context, userID int) error
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a new account with username, email and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		200		{object}	dto.RegisterResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Username or email already taken"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	_, err := h.authService.Register(r.Context(), authservice.Candidate{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.RegisterResponseDTO{
		Message: "User successfully registered",
	})
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with username or email and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.LoginResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, err := h.authService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		utils.RespondWithError(w, statusFromError(err), "Internal server error")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginResponseDTO{
		Message: "User successfully authenticated",
	})
}

// Refresh godoc
//
//	@Summary		Refresh a token
//	@Description	Exchange a still-valid JWT for a fresh one
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	dto.RefreshResponseDTO
//	@Failure		401	{object}	utils.Response	"Invalid token"
//	@Security		ApiKeyAuth
//	@Router			/api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	fresh, err := h.authService.RefreshToken(r.Context(), token)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), "Invalid token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+fresh)
	utils.RespondWithJSON(w, http.StatusOK, dto.RefreshResponseDTO{
		Message: "Token refreshed",
	})
}

// RequestPasswordReset godoc
//
//	@Summary		Request a password reset
//	@Description	Send a temporary password to the given email if it is registered
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PasswordResetRequestDTO	true	"Password reset request body"
//	@Success		200		{object}	dto.PasswordResetResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	// Same response whether or not the email exists.
	utils.RespondWithJSON(w, http.StatusOK, dto.PasswordResetResponseDTO{
		Message: "If the address is registered, instructions were sent",
	})
}

// ChangePassword godoc
//
//	@Summary		Change password
//	@Description	Replace the current password after verifying the old one
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ChangePasswordRequestDTO	true	"Change password request body"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Security		ApiKeyAuth
//	@Router			/api/auth/password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(pkgauth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.ChangePasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.authService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Password changed"})
}

// VerifyEmail godoc
//
//	@Summary		Verify email address
//	@Description	Mark the authenticated user's email as verified
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		ApiKeyAuth
//	@Router			/api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(pkgauth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.authService.VerifyEmail(r.Context(), userID); err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Email verified"})
}
