package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mfernan/user-tasks-api/internal/dto"
	apierrors "github.com/mfernan/user-tasks-api/internal/errors"
	"github.com/mfernan/user-tasks-api/internal/models"
	"github.com/mfernan/user-tasks-api/internal/services"
	"github.com/mfernan/user-tasks-api/internal/utils"
)

// UserHandler coordinates user-related HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// parseIDParam parses the :id path parameter. It writes the 400 response
// itself on failure.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// parseBoolQuery parses an optional boolean query parameter. It writes the
// 400 response itself on failure.
func parseBoolQuery(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &value, true
}

// CreateUser creates a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name     string            `json:"name" binding:"required"`
		Email    string            `json:"email" binding:"required,email"`
		Age      *int              `json:"age" binding:"omitempty,gte=0"`
		Password string            `json:"password" binding:"required"`
		Status   models.UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
		UserType models.UserType   `json:"user_type" binding:"omitempty,oneof=regular premium"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Create(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
		Status:   req.Status,
		UserType: req.UserType,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ListUsers returns users with optional active/premium filters.
func (h *UserHandler) ListUsers(c *gin.Context) {
	active, ok := parseBoolQuery(c, "active")
	if !ok {
		return
	}
	premium, ok := parseBoolQuery(c, "premium")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	users, err := h.userService.List(services.ListUsersInput{
		Active:  active,
		Premium: premium,
		Skip:    params.Skip,
		Limit:   params.Limit,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetUserDetails returns a user with the nested list of owned tasks.
func (h *UserHandler) GetUserDetails(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetWithTasks(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserWithTasksDTO(*user))
}

// UpdateUser applies a partial update. The raw body is inspected so that an
// absent field and a field explicitly set to null are distinguishable.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch, ok := buildUserPatch(c, raw)
	if !ok {
		return
	}

	user, err := h.userService.Update(id, patch)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// buildUserPatch maps raw JSON fields onto a typed patch. It writes the 400
// response itself when a field has the wrong type.
func buildUserPatch(c *gin.Context, raw map[string]any) (services.UserPatch, bool) {
	var patch services.UserPatch

	if v, ok := raw["name"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "name must be a string")
			return patch, false
		}
		patch.Name = &s
	}
	if v, ok := raw["email"]; ok {
		s, ok := v.(string)
		if !ok || s == "" || !strings.Contains(s, "@") {
			apierrors.BadRequest(c, "email must be a valid email address")
			return patch, false
		}
		patch.Email = &s
	}
	if v, ok := raw["age"]; ok {
		if v == nil {
			patch.ClearAge = true
		} else if f, ok := v.(float64); ok && f == math.Trunc(f) && f >= 0 {
			age := int(f)
			patch.Age = &age
		} else {
			apierrors.BadRequest(c, "age must be a non-negative integer or null")
			return patch, false
		}
	}
	if v, ok := raw["status"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "status must be a string")
			return patch, false
		}
		status := models.UserStatus(s)
		patch.Status = &status
	}
	if v, ok := raw["user_type"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "user_type must be a string")
			return patch, false
		}
		userType := models.UserType(s)
		patch.UserType = &userType
	}
	if v, ok := raw["password"]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			apierrors.BadRequest(c, "password must be a non-empty string")
			return patch, false
		}
		patch.Password = &s
	}

	return patch, true
}

// PromoteUser promotes a user to the premium tier. Idempotent.
func (h *UserHandler) PromoteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Promote(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deletes a user and all owned tasks.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.DuplicateKey(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidUserType):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserDeletionFailed):
		apierrors.DeletionFailed(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
