package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/serviconnect/backend/internal/model"
	"github.com/serviconnect/backend/internal/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Points    int64  `json:"points"`
	CreatedAt string `json:"createdAt"`
}

// PublicUserResponse is what other callers see of a user.
type PublicUserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Points    int64  `json:"points"`
	CreatedAt string `json:"createdAt"`
}

type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Points:    u.Points,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Register creates the account. An authenticated caller keeps its auth uid as
// user id; anonymous registrations get a generated id.
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	u, err := h.svc.Register(c.Request().Context(), currentUID(c), req.Name, req.Email)
	if err != nil {
		return serviceError(c, err, "user")
	}
	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// Get includes the email only when the caller is the user itself.
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err, "user")
	}
	if uid := currentUID(c); uid != "" && uid == u.ID {
		return c.JSON(http.StatusOK, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, PublicUserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Points:    u.Points,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	})
}
