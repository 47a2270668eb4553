package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barberapp/barbershop-system/internal/core/ports"
)

// UserHandler exposes the small read-side of the user collection.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

type barbersResponse struct {
	Results int            `json:"results"`
	Barbers []userResponse `json:"barbers"`
}

// Me handles GET /v1/users/me, returning the caller's own record.
//
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByID(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role,
	})
}

// Barbers handles GET /v1/users/barbers, a public listing used by booking
// front-ends; only names are exposed.
//
// @Summary      List barbers
// @Tags         users
// @Produce      json
// @Success      200  {object}  barbersResponse
// @Router       /v1/users/barbers [get]
func (h *UserHandler) Barbers(c echo.Context) error {
	barbers, err := h.users.ListBarbers(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]userResponse, 0, len(barbers))
	for _, b := range barbers {
		items = append(items, userResponse{ID: b.ID, Name: b.Name})
	}
	return c.JSON(http.StatusOK, barbersResponse{Results: len(items), Barbers: items})
}
