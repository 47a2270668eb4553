package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barberapp/barbershop-system/internal/core/ports"
)

// LoyaltyHandler handles HTTP requests for the loyalty ledger.
type LoyaltyHandler struct {
	service ports.LoyaltyService
}

func NewLoyaltyHandler(service ports.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{service: service}
}

// GetProfile handles GET /v1/loyalty/profile. It returns the caller's own
// profile, created lazily on first access.
//
// @Summary      Get or create the caller's loyalty profile
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/loyalty/profile [get]
func (h *LoyaltyHandler) GetProfile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetOrCreateProfile(c.Request().Context(), caller, caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// RegisterHaircut handles POST /v1/loyalty/haircuts/:customer_id.
//
// A barber or admin registers a haircut for any customer, optionally
// requesting redemption on the customer's behalf.
//
// @Summary      Register a haircut for a customer
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path      string                  true  "Customer id"
// @Param        body         body      registerHaircutRequest  true  "Haircut details"
// @Success      201          {object}  registerHaircutResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/loyalty/haircuts/{customer_id} [post]
func (h *LoyaltyHandler) RegisterHaircut(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req registerHaircutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.RegisterHaircut(c.Request().Context(), ports.RegisterHaircutInput{
		Caller:             caller,
		CustomerID:         c.Param("customer_id"),
		BarberID:           req.BarberID,
		ServiceDescription: req.ServiceDescription,
		Price:              req.Price,
		AppointmentRef:     req.AppointmentRef,
		WantsFreeHaircut:   req.WantsFreeHaircut,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerHaircutResponse{
		Haircut: toHaircutResponse(result.Haircut),
		Loyalty: toProfileResponse(result.Profile),
	})
}

// CheckFreeHaircut handles GET /v1/loyalty/free-haircut. It returns the
// caller's own availability; unlike GetProfile it returns 404 when no
// profile exists.
//
// @Summary      Check the caller's free-haircut availability
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  availabilityResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/loyalty/free-haircut [get]
func (h *LoyaltyHandler) CheckFreeHaircut(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	avail, err := h.service.CheckFreeHaircutAvailability(c.Request().Context(), caller, caller.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, availabilityResponse{
		FreeHaircutsAvailable: avail.FreeHaircutsAvailable,
		CurrentPoints:         avail.CurrentPoints,
		PointsToNextFree:      avail.PointsToNextFree,
	})
}

// History handles GET /v1/loyalty/history/:customer_id. Customers can read
// their own history; barbers and admins can read any customer's.
//
// @Summary      List a customer's haircut history
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path      string  true  "Customer id"
// @Success      200          {object}  historyResponse
// @Failure      401          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /v1/loyalty/history/{customer_id} [get]
func (h *LoyaltyHandler) History(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	entries, err := h.service.ListHistory(c.Request().Context(), caller, c.Param("customer_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(entries))
}

// Stats handles GET /v1/loyalty/stats, restricted to barbers and admins.
//
// @Summary      Aggregate loyalty and haircut statistics
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/loyalty/stats [get]
func (h *LoyaltyHandler) Stats(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	stats, err := h.service.AggregateStats(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsResponse{
		HaircutStats: stats.Haircuts,
		LoyaltyStats: stats.Loyalty,
	})
}
