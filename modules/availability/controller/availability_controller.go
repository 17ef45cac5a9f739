package controller

import (
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/modules/availability/dto"
	"meetsync/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// AvailabilityController handles free-slot HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

// NewAvailabilityController creates a new controller
func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// ComputeSlots handles POST /availability/compute
// @Summary Compute common free slots
// @Description Find bookable meeting slots across the participants' calendars
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ComputeSlotsRequest true "Participants and scheduling parameters"
// @Success 200 {object} dto.ComputeSlotsResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/availability/compute [post]
func (c *AvailabilityController) ComputeSlots(ctx echo.Context) error {
	var req dto.ComputeSlotsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if validation := c.AvailabilityService.ValidateParams(&req.Params); !validation.Valid {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid scheduling parameters", validation)
	}

	result, appErr := c.AvailabilityService.ComputeSlots(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Slots computed")
}

// ValidateParams handles POST /availability/validate
// @Summary Validate scheduling parameters
// @Description Check period, time window, duration and buffer selections without running the computation
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ScheduleParams true "Scheduling parameters"
// @Success 200 {object} dto.ValidationResult
// @Failure 400 {object} errors.AppError
// @Router /private/availability/validate [post]
func (c *AvailabilityController) ValidateParams(ctx echo.Context) error {
	var params dto.ScheduleParams
	if err := ctx.Bind(&params); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result := c.AvailabilityService.ValidateParams(&params)
	return c.SuccessResponse(ctx, result, "Parameters validated")
}
