package controller

import (
	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"
	"meetsync/modules/calendar/dto"
	"meetsync/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// CalendarController handles calendar connection and busy lookup requests
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarService
}

// NewCalendarController creates a new controller
func NewCalendarController(svc service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

func (c *CalendarController) tokenClaims(ctx echo.Context) (*utils.TokenClaims, *echo.HTTPError) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, c.Unauthorized(errors.ErrUnauthorized, "Missing authentication context")
	}
	return claims, nil
}

// ConnectGoogle handles POST /calendar/connections/google
// @Summary Connect a Google calendar
// @Description Store OAuth tokens for the authenticated participant's Google calendar
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ConnectCalendarRequest true "OAuth tokens"
// @Success 200 {object} dto.CalendarConnectionResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/calendar/connections/google [post]
func (c *CalendarController) ConnectGoogle(ctx echo.Context) error {
	claims, httpErr := c.tokenClaims(ctx)
	if httpErr != nil {
		return httpErr
	}

	var req dto.ConnectCalendarRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.AccessToken == "" || req.RefreshToken == "" || req.TokenExpiresAt == "" || req.CalendarEmail == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "access_token, refresh_token, token_expires_at and calendar_email are required")
	}

	result, appErr := c.CalendarService.SaveGoogleConnection(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar connected")
}

// GetConnections handles GET /calendar/connections
// @Summary List calendar connections
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CalendarConnectionListResponse
// @Failure 401 {object} errors.AppError
// @Router /private/calendar/connections [get]
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	claims, httpErr := c.tokenClaims(ctx)
	if httpErr != nil {
		return httpErr
	}

	result, appErr := c.CalendarService.GetConnections(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Connections retrieved")
}

// DisconnectCalendar handles DELETE /calendar/connections/:provider
// @Summary Disconnect a calendar provider
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param provider path string true "Provider name"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /private/calendar/connections/{provider} [delete]
func (c *CalendarController) DisconnectCalendar(ctx echo.Context) error {
	claims, httpErr := c.tokenClaims(ctx)
	if httpErr != nil {
		return httpErr
	}

	provider := ctx.Param("provider")
	if provider == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Provider is required")
	}

	if appErr := c.CalendarService.DisconnectCalendar(ctx.Request().Context(), claims.UserID, provider); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}

// GetBusy handles POST /calendar/busy
// @Summary Look up busy intervals
// @Description Return classified busy intervals per participant over a time range
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BusyLookupRequest true "Time range and participants"
// @Success 200 {object} dto.BusyLookupResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/calendar/busy [post]
func (c *CalendarController) GetBusy(ctx echo.Context) error {
	if _, httpErr := c.tokenClaims(ctx); httpErr != nil {
		return httpErr
	}

	var req dto.BusyLookupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if len(req.ParticipantIDs) == 0 {
		return c.BadRequest(errors.ErrInvalidRequestData, "participant_ids is required")
	}

	result, appErr := c.CalendarService.GetBusy(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Busy intervals retrieved")
}
