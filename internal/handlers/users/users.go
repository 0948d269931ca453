package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkozyr/gomarket/internal/domain"
	"github.com/dkozyr/gomarket/internal/dto"
	"github.com/dkozyr/gomarket/internal/service/accountservice"
	pkgauth "github.com/dkozyr/gomarket/pkg/auth"
	"github.com/dkozyr/gomarket/pkg/utils"
)

type Service interface {
	GetByID(ctx context.Context, userID int) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int, update accountservice.ProfileUpdate) (*domain.User, error)
	UpdateRole(ctx context.Context, userID int, role domain.UserRole) (*domain.User, error)
	UpdateStatus(ctx context.Context, userID int, status domain.UserStatus) (*domain.User, error)
	Delete(ctx context.Context, userID int) error
}

type UserHandler struct {
	accountService Service
}

func New(accountService Service) *UserHandler {
	return &UserHandler{
		accountService: accountService,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func requesterID(r *http.Request) (int, bool) {
	userID, ok := r.Context().Value(pkgauth.UserIDKey).(int)
	return userID, ok
}

func isAdmin(r *http.Request) bool {
	role, ok := r.Context().Value(pkgauth.RoleKey).(string)
	return ok && role == string(domain.RoleAdmin)
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// GetMe godoc
//
//	@Summary		Get own profile
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	dto.UserResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		ApiKeyAuth
//	@Router			/api/users/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := h.accountService.GetByID(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponseDTO(user))
}

// UpdateMe godoc
//
//	@Summary		Update own profile
//	@Description	Apply the provided fields; changing the email resets its verification
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.UpdateProfileRequestDTO	true	"Profile update body"
//	@Success		200		{object}	dto.UserResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Email already taken"
//	@Security		ApiKeyAuth
//	@Router			/api/users/me [put]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.UpdateProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.accountService.UpdateProfile(r.Context(), userID, accountservice.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponseDTO(user))
}

// DeleteMe godoc
//
//	@Summary		Delete own account
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Security		ApiKeyAuth
//	@Router			/api/users/me [delete]
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.accountService.Delete(r.Context(), userID); err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Account deleted"})
}

// GetUser godoc
//
//	@Summary		Get a user by id
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	dto.UserResponseDTO
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Security		ApiKeyAuth
//	@Router			/api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	user, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponseDTO(user))
}

// UpdateRole godoc
//
//	@Summary		Change a user's role
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"User ID"
//	@Param			request	body		dto.UpdateRoleRequestDTO	true	"Role update body"
//	@Success		200		{object}	dto.UserResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown role"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Security		ApiKeyAuth
//	@Router			/api/users/{id}/role [put]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req dto.UpdateRoleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.accountService.UpdateRole(r.Context(), id, domain.UserRole(req.Role))
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponseDTO(user))
}

// UpdateStatus godoc
//
//	@Summary		Change a user's status
//	@Description	Suspending locks the account for an hour; activating clears the lock
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"User ID"
//	@Param			request	body		dto.UpdateUserStatusRequestDTO	true	"Status update body"
//	@Success		200		{object}	dto.UserResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown status"
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Security		ApiKeyAuth
//	@Router			/api/users/{id}/status [put]
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req dto.UpdateUserStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.accountService.UpdateStatus(r.Context(), id, domain.UserStatus(req.Status))
	if err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserResponseDTO(user))
}

// DeleteUser godoc
//
//	@Summary		Delete a user
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	utils.Response
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Security		ApiKeyAuth
//	@Router			/api/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if err := h.accountService.Delete(r.Context(), id); err != nil {
		utils.RespondWithError(w, statusFromError(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "User deleted"})
}
